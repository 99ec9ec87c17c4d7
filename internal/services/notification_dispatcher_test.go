package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	contextutils "civiccare/internal/utils"
)

type recordingMailer struct {
	mu     sync.Mutex
	sent   []string
	fromTo [][2]models.ComplaintStatus
	fail   bool
	block  chan struct{}
}

func (m *recordingMailer) SendStatusUpdateEmail(_ context.Context, complaint *models.Complaint, oldStatus models.ComplaintStatus) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	m.sent = append(m.sent, complaint.ID)
	m.fromTo = append(m.fromTo, [2]models.ComplaintStatus{oldStatus, complaint.Status})
	m.mu.Unlock()
	if m.fail {
		return contextutils.ErrEmailDeliveryFailed
	}
	return nil
}

func (m *recordingMailer) RecordSentNotification(_ context.Context, _, _, _, _, _, _ string) error {
	return nil
}

func (m *recordingMailer) IsEnabled() bool { return true }

func (m *recordingMailer) sentIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.sent...)
}

func (m *recordingMailer) transitions() [][2]models.ComplaintStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]models.ComplaintStatus{}, m.fromTo...)
}

func testComplaint(id string) *models.Complaint {
	return &models.Complaint{
		ID:     id,
		Status: models.StatusInProgress,
		Title:  "Broken streetlight",
		Owner:  &models.User{ID: "u-1", Email: "citizen@example.com", FullName: "Test Citizen"},
	}
}

func newTestDispatcher(mailer *recordingMailer) *NotificationDispatcher {
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	return NewNotificationDispatcher(mailer, logger)
}

func TestNotificationDispatcher_DeliversExactlyOnce(t *testing.T) {
	mailer := &recordingMailer{}
	dispatcher := newTestDispatcher(mailer)

	dispatcher.DispatchStatusUpdate(testComplaint("c-1"), models.StatusSubmitted)
	dispatcher.Wait()

	assert.Equal(t, []string{"c-1"}, mailer.sentIDs())
	assert.Equal(t, [][2]models.ComplaintStatus{{models.StatusSubmitted, models.StatusInProgress}}, mailer.transitions(),
		"the mailer receives both ends of the transition")
}

func TestNotificationDispatcher_SwallowsFailures(t *testing.T) {
	mailer := &recordingMailer{fail: true}
	dispatcher := newTestDispatcher(mailer)

	// Must not panic and must not surface the error to the caller
	dispatcher.DispatchStatusUpdate(testComplaint("c-2"), models.StatusSubmitted)
	dispatcher.Wait()

	assert.Equal(t, []string{"c-2"}, mailer.sentIDs())
}

func TestNotificationDispatcher_DoesNotBlockCaller(t *testing.T) {
	mailer := &recordingMailer{block: make(chan struct{})}
	dispatcher := newTestDispatcher(mailer)

	done := make(chan struct{})
	go func() {
		dispatcher.DispatchStatusUpdate(testComplaint("c-3"), models.StatusSubmitted)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("DispatchStatusUpdate blocked on a slow mailer")
	}

	close(mailer.block)
	dispatcher.Wait()
	assert.Equal(t, []string{"c-3"}, mailer.sentIDs())
}

func TestNotificationDispatcher_WaitDrainsAllInFlight(t *testing.T) {
	mailer := &recordingMailer{}
	dispatcher := newTestDispatcher(mailer)

	for i := 0; i < 10; i++ {
		dispatcher.DispatchStatusUpdate(testComplaint("c-many"), models.StatusSubmitted)
	}
	dispatcher.Wait()

	assert.Len(t, mailer.sentIDs(), 10)
}
