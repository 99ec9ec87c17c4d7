package serviceinterfaces

import (
	"context"

	"civiccare/internal/models"
)

// CreateComplaintInput carries the citizen-provided fields of a new complaint.
type CreateComplaintInput struct {
	Title       string
	Description string
	Location    string
	CategoryID  *string
	ImageURL    *string
	Severity    models.Severity
}

// UpdateStatusInput carries an admin status update. AdminNotes replaces the
// stored notes on every update; an empty string clears them.
type UpdateStatusInput struct {
	Status     models.ComplaintStatus
	AdminNotes string
}

// ComplaintListFilter narrows and pages a complaint listing. The visibility
// scope of the caller is applied on top of it by the service.
type ComplaintListFilter struct {
	Status     *models.ComplaintStatus
	Severity   *models.Severity
	CategoryID *string
	Page       int
	PageSize   int
}

// ComplaintServiceInterface defines operations on civic complaints. All
// operations take the resolved caller identity and enforce the access policy
// internally; handlers never pre-filter.
type ComplaintServiceInterface interface {
	CreateComplaint(ctx context.Context, caller models.Identity, input CreateComplaintInput) (*models.Complaint, error)
	GetComplaintByID(ctx context.Context, caller models.Identity, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, caller models.Identity, filter ComplaintListFilter) ([]models.Complaint, int, error)

	// UpdateComplaintStatus applies an admin status update and returns the
	// updated complaint together with the kind of transition that occurred.
	UpdateComplaintStatus(ctx context.Context, caller models.Identity, id string, input UpdateStatusInput) (*models.Complaint, models.TransitionKind, error)

	// TrackComplaint looks up a complaint by tracking ID and contact email
	// without requiring authentication.
	TrackComplaint(ctx context.Context, trackingID, email string) (*models.Complaint, error)
}
