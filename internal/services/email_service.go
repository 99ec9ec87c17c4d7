package services

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"strings"
	"time"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/mail.v2"
)

// NotificationTypeStatusUpdate is the notification_type recorded for status
// change emails.
const NotificationTypeStatusUpdate = "status_update"

// statusDescriptions are the citizen-facing explanations shown under the new
// status in notification emails.
var statusDescriptions = map[models.ComplaintStatus]string{
	models.StatusSubmitted:  "Your complaint has been received and is awaiting review.",
	models.StatusInProgress: "Your complaint is currently being reviewed and addressed by our team.",
	models.StatusResolved:   "Your complaint has been resolved. Thank you for your patience.",
}

// EmailService implements serviceinterfaces.EmailService using gomail.
type EmailService struct {
	cfg    *config.Config
	logger *observability.Logger
	dialer *mail.Dialer
	db     *sql.DB
}

// Ensure EmailService implements the EmailService interface
var _ serviceinterfaces.EmailService = (*EmailService)(nil)

// NewEmailService creates a new EmailService instance.
func NewEmailService(cfg *config.Config, logger *observability.Logger, db *sql.DB) *EmailService {
	if db == nil {
		panic("NewEmailService: db is nil")
	}

	var dialer *mail.Dialer
	if cfg.Email.Enabled && cfg.Email.SMTP.Host != "" {
		dialer = mail.NewDialer(
			cfg.Email.SMTP.Host,
			cfg.Email.SMTP.Port,
			cfg.Email.SMTP.Username,
			cfg.Email.SMTP.Password,
		)
	}

	return &EmailService{
		cfg:    cfg,
		logger: logger,
		dialer: dialer,
		db:     db,
	}
}

// SendStatusUpdateEmail sends a status change notification to the complaint
// owner and records the attempt. The complaint must carry its joined Owner.
func (e *EmailService) SendStatusUpdateEmail(ctx context.Context, complaint *models.Complaint, oldStatus models.ComplaintStatus) (err error) {
	ctx, span := otel.Tracer("email-service").Start(ctx, "SendStatusUpdateEmail",
		trace.WithAttributes(
			attribute.String("complaint.id", complaint.ID),
			attribute.String("complaint.old_status", string(oldStatus)),
			attribute.String("complaint.status", string(complaint.Status)),
		),
	)
	defer observability.FinishSpan(span, &err)

	if complaint.Owner == nil || complaint.Owner.Email == "" {
		e.logger.Warn(ctx, "Complaint has no owner email, skipping status update notification", map[string]interface{}{
			"complaint_id": complaint.ID,
		})
		return nil
	}
	recipient := complaint.Owner.Email

	subject := fmt.Sprintf("Complaint Update: %s - %s", complaint.Status.Display(), complaint.Title)

	if !e.IsEnabled() {
		e.logger.Info(ctx, "Email disabled, skipping status update notification", map[string]interface{}{
			"complaint_id": complaint.ID,
			"to":           recipient,
		})
		return nil
	}
	if e.dialer == nil {
		return contextutils.ErrorWithContextf("email service not properly configured")
	}

	content, err := e.generateStatusUpdateContent(complaint, oldStatus)
	if err != nil {
		return contextutils.WrapError(err, "failed to generate email content")
	}

	m := mail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", e.cfg.Email.SMTP.FromName, e.cfg.Email.SMTP.FromAddress))
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err = e.dialer.DialAndSend(m); err != nil {
		e.logger.Error(ctx, "Failed to send status update email", err, map[string]interface{}{
			"complaint_id": complaint.ID,
			"to":           recipient,
		})
		if recordErr := e.RecordSentNotification(ctx, complaint.ID, recipient, NotificationTypeStatusUpdate, subject, "failed", err.Error()); recordErr != nil {
			e.logger.Error(ctx, "Failed to record failed notification", recordErr, map[string]interface{}{
				"complaint_id": complaint.ID,
			})
		}
		return contextutils.WrapError(contextutils.ErrEmailDeliveryFailed, err.Error())
	}

	e.logger.Info(ctx, "Status update email sent", map[string]interface{}{
		"complaint_id": complaint.ID,
		"to":           recipient,
		"status":       string(complaint.Status),
	})

	return e.RecordSentNotification(ctx, complaint.ID, recipient, NotificationTypeStatusUpdate, subject, "sent", "")
}

// RecordSentNotification records a notification attempt in the database.
func (e *EmailService) RecordSentNotification(ctx context.Context, complaintID, recipient, notificationType, subject, status, errorMessage string) (err error) {
	ctx, span := otel.Tracer("email-service").Start(ctx, "RecordSentNotification",
		trace.WithAttributes(
			attribute.String("complaint.id", complaintID),
			attribute.String("notification.type", notificationType),
			attribute.String("notification.status", status),
		),
	)
	defer observability.FinishSpan(span, &err)

	query := `
		INSERT INTO sent_notifications (complaint_id, recipient, notification_type, subject, sent_at, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = e.db.ExecContext(ctx, query, complaintID, recipient, notificationType, subject, time.Now(), status, errorMessage)
	if err != nil {
		e.logger.Error(ctx, "Failed to record sent notification", err, map[string]interface{}{
			"complaint_id":      complaintID,
			"notification_type": notificationType,
			"status":            status,
		})
		return contextutils.WrapError(err, "failed to record sent notification")
	}
	return nil
}

// IsEnabled returns whether email functionality is enabled
func (e *EmailService) IsEnabled() bool {
	return e.cfg.Email.Enabled && e.cfg.Email.SMTP.Host != ""
}

// generateStatusUpdateContent renders the status update email body.
func (e *EmailService) generateStatusUpdateContent(complaint *models.Complaint, oldStatus models.ComplaintStatus) (string, error) {
	const templateStr = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Complaint Status Update</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1976D2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { background-color: #f9f9f9; padding: 20px; }
        .status-badge { display: inline-block; background-color: #1976D2; color: white; padding: 6px 14px; border-radius: 4px; font-weight: bold; }
        .notes { background-color: #fff; border-left: 4px solid #1976D2; padding: 10px 15px; margin: 15px 0; }
        .footer { background-color: #eee; padding: 15px; text-align: center; font-size: 12px; color: #666; border-radius: 0 0 5px 5px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Complaint Status Update</h1>
        </div>
        <div class="content">
            <h2>Hello {{.FullName}},</h2>
            <p>There is an update on your complaint <strong>{{.Title}}</strong> (tracking ID <strong>{{.ShortID}}</strong>).</p>
            {{if .OldStatus}}<p>Previous status: <strong>{{.OldStatus}}</strong></p>{{end}}
            <p>New status: <span class="status-badge">{{.Status}}</span></p>
            <p>{{.StatusDescription}}</p>
            {{if .AdminNotes}}<div class="notes"><strong>Notes from our team:</strong><br>{{.AdminNotes}}</div>{{end}}
            <p>You can check the latest status any time using your tracking ID.</p>
        </div>
        <div class="footer">
            <p>This email was sent by Civic Care. Please do not reply to this message.</p>
        </div>
    </div>
</body>
</html>`

	tmpl, err := template.New("status_update").Parse(templateStr)
	if err != nil {
		return "", contextutils.WrapError(err, "failed to parse template")
	}

	data := map[string]interface{}{
		"FullName":          complaint.Owner.FullName,
		"Title":             complaint.Title,
		"ShortID":           complaint.ShortID(),
		"OldStatus":         oldStatus.Display(),
		"Status":            complaint.Status.Display(),
		"StatusDescription": statusDescriptions[complaint.Status],
		"AdminNotes":        complaint.AdminNotes.String,
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", contextutils.WrapError(err, "failed to execute template")
	}

	return buf.String(), nil
}
