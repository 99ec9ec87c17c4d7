package serviceinterfaces

import (
	"context"

	"civiccare/internal/models"
)

// EmailService defines the interface for email functionality
type EmailService interface {
	// SendStatusUpdateEmail sends a status change notification to the
	// complaint owner, naming the status the complaint moved from. The
	// complaint must carry its joined Owner record.
	SendStatusUpdateEmail(ctx context.Context, complaint *models.Complaint, oldStatus models.ComplaintStatus) error

	// RecordSentNotification records a notification attempt in the database
	RecordSentNotification(ctx context.Context, complaintID, recipient, notificationType, subject, status, errorMessage string) error

	// IsEnabled returns whether email functionality is enabled
	IsEnabled() bool
}

// NotificationDispatcherInterface delivers status change notifications
// asynchronously after the triggering update has been committed.
type NotificationDispatcherInterface interface {
	// DispatchStatusUpdate schedules a notification for the transition from
	// oldStatus to the complaint's current status. It never blocks the caller
	// and never returns an error; delivery failures are logged and swallowed.
	DispatchStatusUpdate(complaint *models.Complaint, oldStatus models.ComplaintStatus)

	// Wait blocks until all in-flight notifications have finished. Used
	// during shutdown and in tests.
	Wait()
}
