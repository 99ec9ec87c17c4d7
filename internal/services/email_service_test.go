package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
)

func newDisabledEmailService() *EmailService {
	cfg := &config.Config{}
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	return &EmailService{cfg: cfg, logger: logger}
}

func TestEmailService_IsEnabled(t *testing.T) {
	svc := newDisabledEmailService()
	assert.False(t, svc.IsEnabled())

	svc.cfg.Email.Enabled = true
	assert.False(t, svc.IsEnabled(), "enabled flag without an SMTP host stays disabled")

	svc.cfg.Email.SMTP.Host = "smtp.example.com"
	assert.True(t, svc.IsEnabled())
}

func TestEmailService_StatusUpdateContent(t *testing.T) {
	svc := newDisabledEmailService()

	complaint := &models.Complaint{
		ID:         "abc12345-6789-4def-8abc-0123456789ab",
		Title:      "Broken streetlight",
		Status:     models.StatusInProgress,
		AdminNotes: sql.NullString{String: "Crew scheduled", Valid: true},
		Owner:      &models.User{Email: "citizen@example.com", FullName: "Test Citizen"},
	}

	content, err := svc.generateStatusUpdateContent(complaint, models.StatusSubmitted)
	require.NoError(t, err)
	assert.Contains(t, content, "Test Citizen")
	assert.Contains(t, content, "ABC12345")
	assert.Contains(t, content, "Previous status")
	assert.Contains(t, content, "SUBMITTED")
	assert.Contains(t, content, "IN PROGRESS")
	assert.Contains(t, content, "currently being reviewed and addressed")
	assert.Contains(t, content, "Crew scheduled")
}

func TestEmailService_StatusUpdateContentWithoutNotes(t *testing.T) {
	svc := newDisabledEmailService()

	complaint := &models.Complaint{
		ID:     "abc12345-6789-4def-8abc-0123456789ab",
		Title:  "Broken streetlight",
		Status: models.StatusResolved,
		Owner:  &models.User{Email: "citizen@example.com", FullName: "Test Citizen"},
	}

	content, err := svc.generateStatusUpdateContent(complaint, models.StatusInProgress)
	require.NoError(t, err)
	assert.Contains(t, content, "RESOLVED")
	assert.Contains(t, content, "has been resolved")
	assert.NotContains(t, content, "Notes from our team")
}

func TestStatusDescriptions_CoverAllStatuses(t *testing.T) {
	for _, status := range []models.ComplaintStatus{models.StatusSubmitted, models.StatusInProgress, models.StatusResolved} {
		assert.NotEmpty(t, statusDescriptions[status])
	}
}
