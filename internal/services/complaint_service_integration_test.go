//go:build integration

package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"
)

func newIntegrationComplaintService(t *testing.T) (*ComplaintService, *recordingMailer, *sql.DB) {
	db := SharedTestDBSetup(t)
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	mailer := &recordingMailer{}
	dispatcher := NewNotificationDispatcher(mailer, logger)
	svc := NewComplaintService(db, NewAccessPolicy(), dispatcher, logger)
	return svc, mailer, db
}

func TestComplaintService_CreateAndGet(t *testing.T) {
	svc, _, db := newIntegrationComplaintService(t)
	ctx := context.Background()

	owner := MustCreateTestUser(t, db, "owner@example.com", "Owner")
	cat := MustCreateTestCategory(t, db, "Roads", "roads")
	caller := models.Identity{Kind: models.IdentityCitizen, UserID: owner.ID, Email: owner.Email}

	created, err := svc.CreateComplaint(ctx, caller, serviceinterfaces.CreateComplaintInput{
		Title:       "Pothole on Main St",
		Description: "Large pothole near the crosswalk",
		Location:    "Main St & 3rd Ave",
		CategoryID:  &cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Equal(t, models.SeverityMedium, created.Severity, "severity defaults to medium")
	assert.False(t, created.ResolvedAt.Valid)
	require.NotNil(t, created.Category)
	assert.Equal(t, "roads", created.Category.Department)

	got, err := svc.GetComplaintByID(ctx, caller, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner.Email, got.Owner.Email)

	// A malformed id reads as not found, not a storage error
	_, err = svc.GetComplaintByID(ctx, caller, "not-a-uuid")
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, contextutils.GetErrorCode(err))
}

func TestComplaintService_CreateValidation(t *testing.T) {
	svc, _, db := newIntegrationComplaintService(t)
	ctx := context.Background()

	owner := MustCreateTestUser(t, db, "owner@example.com", "Owner")
	caller := models.Identity{Kind: models.IdentityCitizen, UserID: owner.ID}

	_, err := svc.CreateComplaint(ctx, models.Anonymous(), serviceinterfaces.CreateComplaintInput{Title: "x", Description: "y"})
	assert.Equal(t, contextutils.ErrorCodeUnauthorized, contextutils.GetErrorCode(err))

	_, err = svc.CreateComplaint(ctx, caller, serviceinterfaces.CreateComplaintInput{Description: "y"})
	assert.Equal(t, contextutils.ErrorCodeMissingRequired, contextutils.GetErrorCode(err))

	_, err = svc.CreateComplaint(ctx, caller, serviceinterfaces.CreateComplaintInput{
		Title: "x", Description: "y", Severity: models.Severity("catastrophic"),
	})
	assert.Equal(t, contextutils.ErrorCodeInvalidSeverity, contextutils.GetErrorCode(err))
}

func TestComplaintService_VisibilityScoping(t *testing.T) {
	svc, _, db := newIntegrationComplaintService(t)
	ctx := context.Background()

	owner := MustCreateTestUser(t, db, "owner@example.com", "Owner")
	other := MustCreateTestUser(t, db, "other@example.com", "Other")
	roads := MustCreateTestCategory(t, db, "Roads", "roads")
	parks := MustCreateTestCategory(t, db, "Parks", "parks")

	ownerID := models.Identity{Kind: models.IdentityCitizen, UserID: owner.ID}
	otherID := models.Identity{Kind: models.IdentityCitizen, UserID: other.ID}
	roadsAdmin := models.Identity{Kind: models.IdentityDepartmentAdmin, UserID: other.ID, Department: "roads"}
	master := models.Identity{Kind: models.IdentityMasterAdmin, UserID: other.ID}

	roadsComplaint, err := svc.CreateComplaint(ctx, ownerID, serviceinterfaces.CreateComplaintInput{
		Title: "Pothole", Description: "d", CategoryID: &roads.ID,
	})
	require.NoError(t, err)
	parksComplaint, err := svc.CreateComplaint(ctx, ownerID, serviceinterfaces.CreateComplaintInput{
		Title: "Broken swing", Description: "d", CategoryID: &parks.ID,
	})
	require.NoError(t, err)

	// Another citizen reads the complaint as not found, not forbidden
	_, err = svc.GetComplaintByID(ctx, otherID, roadsComplaint.ID)
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, contextutils.GetErrorCode(err))

	// Department admin sees only their department
	_, err = svc.GetComplaintByID(ctx, roadsAdmin, roadsComplaint.ID)
	assert.NoError(t, err)
	_, err = svc.GetComplaintByID(ctx, roadsAdmin, parksComplaint.ID)
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, contextutils.GetErrorCode(err))

	// Listing follows the same scope
	list, total, err := svc.ListComplaints(ctx, roadsAdmin, serviceinterfaces.ComplaintListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, roadsComplaint.ID, list[0].ID)

	_, total, err = svc.ListComplaints(ctx, master, serviceinterfaces.ComplaintListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = svc.ListComplaints(ctx, ownerID, serviceinterfaces.ComplaintListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, _, err = svc.ListComplaints(ctx, models.Anonymous(), serviceinterfaces.ComplaintListFilter{})
	assert.Equal(t, contextutils.ErrorCodeUnauthorized, contextutils.GetErrorCode(err))
}

func TestComplaintService_UpdateStatusLifecycle(t *testing.T) {
	svc, mailer, db := newIntegrationComplaintService(t)
	ctx := context.Background()

	owner := MustCreateTestUser(t, db, "owner@example.com", "Owner")
	roads := MustCreateTestCategory(t, db, "Roads", "roads")
	ownerID := models.Identity{Kind: models.IdentityCitizen, UserID: owner.ID}
	admin := models.Identity{Kind: models.IdentityDepartmentAdmin, UserID: "admin", Department: "roads"}

	complaint, err := svc.CreateComplaint(ctx, ownerID, serviceinterfaces.CreateComplaintInput{
		Title: "Pothole", Description: "d", CategoryID: &roads.ID,
	})
	require.NoError(t, err)

	// Citizens cannot mutate status, not even on their own complaint
	_, _, err = svc.UpdateComplaintStatus(ctx, ownerID, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.StatusResolved})
	assert.Equal(t, contextutils.ErrorCodeForbidden, contextutils.GetErrorCode(err))

	// An admin from another department is denied as forbidden, not hidden
	parksAdmin := models.Identity{Kind: models.IdentityDepartmentAdmin, UserID: "admin2", Department: "parks"}
	_, _, err = svc.UpdateComplaintStatus(ctx, parksAdmin, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.StatusInProgress})
	assert.Equal(t, contextutils.ErrorCodeForbidden, contextutils.GetErrorCode(err))

	// submitted -> in_progress notifies the owner
	updated, kind, err := svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{
		Status:     models.StatusInProgress,
		AdminNotes: "Crew scheduled for Tuesday",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransitionStatusChanged, kind)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "Crew scheduled for Tuesday", updated.AdminNotes.String)
	assert.False(t, updated.ResolvedAt.Valid)

	// Notes-only update keeps the status and stays silent
	updated, kind, err = svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{
		Status:     models.StatusInProgress,
		AdminNotes: "Crew delayed to Wednesday",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransitionNotesOnly, kind)
	assert.Equal(t, "Crew delayed to Wednesday", updated.AdminNotes.String)

	// in_progress -> resolved stamps resolved_at and notifies
	updated, kind, err = svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, models.TransitionStatusChanged, kind)
	assert.True(t, updated.ResolvedAt.Valid)

	firstResolvedAt := updated.ResolvedAt.Time

	// Resolved -> resolved is notes-only but refreshes the timestamp
	updated, kind, err = svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, models.TransitionNotesOnly, kind)
	require.True(t, updated.ResolvedAt.Valid)
	assert.False(t, updated.ResolvedAt.Time.Before(firstResolvedAt))

	// Reopening clears resolved_at
	updated, kind, err = svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.TransitionStatusChanged, kind)
	assert.False(t, updated.ResolvedAt.Valid)

	// Invalid status is rejected before any write
	_, _, err = svc.UpdateComplaintStatus(ctx, admin, complaint.ID, serviceinterfaces.UpdateStatusInput{Status: models.ComplaintStatus("closed")})
	assert.Equal(t, contextutils.ErrorCodeInvalidStatus, contextutils.GetErrorCode(err))

	// Exactly the three lifecycle changes dispatched notifications, each
	// carrying the status the complaint moved from
	svc.dispatcher.(*NotificationDispatcher).Wait()
	assert.Len(t, mailer.sentIDs(), 3)
	assert.ElementsMatch(t, [][2]models.ComplaintStatus{
		{models.StatusSubmitted, models.StatusInProgress},
		{models.StatusInProgress, models.StatusResolved},
		{models.StatusResolved, models.StatusInProgress},
	}, mailer.transitions())
}

func TestComplaintService_Track(t *testing.T) {
	svc, _, db := newIntegrationComplaintService(t)
	ctx := context.Background()

	owner := MustCreateTestUser(t, db, "Owner@Example.com", "Owner")
	ownerID := models.Identity{Kind: models.IdentityCitizen, UserID: owner.ID}

	complaint, err := svc.CreateComplaint(ctx, ownerID, serviceinterfaces.CreateComplaintInput{
		Title: "Pothole", Description: "d",
	})
	require.NoError(t, err)

	shortID := strings.ToUpper(complaint.ID[:8])

	// Uppercased short ID with differently-cased email matches
	got, err := svc.TrackComplaint(ctx, shortID, " owner@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, got.ID)

	// Full ID matches exactly
	got, err = svc.TrackComplaint(ctx, complaint.ID, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, got.ID)

	// Wrong email is indistinguishable from a missing complaint
	_, err = svc.TrackComplaint(ctx, shortID, "someone-else@example.com")
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, contextutils.GetErrorCode(err))

	// Unknown tracking ID
	_, err = svc.TrackComplaint(ctx, "ZZZZZZZZ", "owner@example.com")
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, contextutils.GetErrorCode(err))

	// Missing inputs are rejected
	_, err = svc.TrackComplaint(ctx, "", "owner@example.com")
	assert.Equal(t, contextutils.ErrorCodeMissingRequired, contextutils.GetErrorCode(err))
}
