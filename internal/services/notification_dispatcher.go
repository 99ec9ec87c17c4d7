package services

import (
	"context"
	"sync"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
)

// NotificationDispatcher delivers status change notifications on detached
// goroutines so a slow or failing mail server never delays the update that
// triggered them. Delivery failures are logged and swallowed; the status
// update has already been committed and must not be affected.
type NotificationDispatcher struct {
	emailService serviceinterfaces.EmailService
	logger       *observability.Logger
	wg           sync.WaitGroup
}

var _ serviceinterfaces.NotificationDispatcherInterface = (*NotificationDispatcher)(nil)

// NewNotificationDispatcher creates a new NotificationDispatcher instance.
func NewNotificationDispatcher(emailService serviceinterfaces.EmailService, logger *observability.Logger) *NotificationDispatcher {
	if emailService == nil {
		panic("NewNotificationDispatcher: emailService is nil")
	}
	if logger == nil {
		panic("NewNotificationDispatcher: logger is nil")
	}
	return &NotificationDispatcher{emailService: emailService, logger: logger}
}

// DispatchStatusUpdate schedules a notification for the transition from
// oldStatus to the complaint's current status. It returns immediately; the
// send runs on its own context with a fixed timeout so it is not cancelled
// when the triggering request ends.
func (d *NotificationDispatcher) DispatchStatusUpdate(complaint *models.Complaint, oldStatus models.ComplaintStatus) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), config.NotificationDispatchTimeout)
		defer cancel()

		ctx, span := observability.TraceNotificationFunction(ctx, "dispatch_status_update")
		defer span.End()

		if err := d.emailService.SendStatusUpdateEmail(ctx, complaint, oldStatus); err != nil {
			d.logger.Error(ctx, "Status update notification failed", err, map[string]interface{}{
				"complaint_id": complaint.ID,
				"old_status":   string(oldStatus),
				"new_status":   string(complaint.Status),
			})
		}
	}()
}

// Wait blocks until all in-flight notifications have finished.
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
}
