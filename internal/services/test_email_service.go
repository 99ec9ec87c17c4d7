package services

import (
	"context"
	"database/sql"
	"fmt"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TestEmailService implements serviceinterfaces.EmailService for test mode.
// It doesn't actually send emails but logs the operations and records them in
// the database.
type TestEmailService struct {
	cfg    *config.Config
	logger *observability.Logger
	db     *sql.DB
}

var _ serviceinterfaces.EmailService = (*TestEmailService)(nil)

// NewTestEmailService creates a new TestEmailService instance.
func NewTestEmailService(cfg *config.Config, logger *observability.Logger, db *sql.DB) *TestEmailService {
	return &TestEmailService{
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// SendStatusUpdateEmail logs the notification instead of sending it.
func (e *TestEmailService) SendStatusUpdateEmail(ctx context.Context, complaint *models.Complaint, oldStatus models.ComplaintStatus) error {
	ctx, span := otel.Tracer("test-email-service").Start(ctx, "SendStatusUpdateEmail",
		trace.WithAttributes(
			attribute.String("complaint.id", complaint.ID),
			attribute.String("complaint.old_status", string(oldStatus)),
			attribute.String("complaint.status", string(complaint.Status)),
		),
	)
	defer span.End()

	if complaint.Owner == nil || complaint.Owner.Email == "" {
		e.logger.Warn(ctx, "Complaint has no owner email, skipping status update notification", map[string]interface{}{
			"complaint_id": complaint.ID,
		})
		return nil
	}

	subject := fmt.Sprintf("Complaint Update: %s - %s", complaint.Status.Display(), complaint.Title)
	e.logger.Info(ctx, "TEST MODE: Would send status update email", map[string]interface{}{
		"complaint_id": complaint.ID,
		"to":           complaint.Owner.Email,
		"subject":      subject,
		"old_status":   string(oldStatus),
	})

	return e.RecordSentNotification(ctx, complaint.ID, complaint.Owner.Email, NotificationTypeStatusUpdate, subject, "sent", "")
}

// RecordSentNotification records the notification attempt like the real
// service so tests can assert on the sent_notifications table.
func (e *TestEmailService) RecordSentNotification(ctx context.Context, complaintID, recipient, notificationType, subject, status, errorMessage string) error {
	if e.db == nil {
		return nil
	}
	real := &EmailService{cfg: e.cfg, logger: e.logger, db: e.db}
	return real.RecordSentNotification(ctx, complaintID, recipient, notificationType, subject, status, errorMessage)
}

// IsEnabled always reports true in test mode.
func (e *TestEmailService) IsEnabled() bool {
	return true
}

// CreateEmailService creates the appropriate email service for the current
// configuration: the logging TestEmailService in test mode, the SMTP-backed
// EmailService otherwise.
func CreateEmailService(cfg *config.Config, logger *observability.Logger, db *sql.DB) serviceinterfaces.EmailService {
	if cfg.IsTest {
		logger.Info(context.Background(), "Using test email service", map[string]interface{}{
			"test_mode": true,
		})
		return NewTestEmailService(cfg, logger, db)
	}
	return NewEmailService(cfg, logger, db)
}
