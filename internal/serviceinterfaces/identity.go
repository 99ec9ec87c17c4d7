// Package serviceinterfaces defines service interfaces for dependency injection and testing.
package serviceinterfaces

import (
	"context"

	"civiccare/internal/models"
)

// IdentityServiceInterface resolves a session user ID into a caller identity.
type IdentityServiceInterface interface {
	// Resolve returns the identity for the given user ID. An empty userID
	// resolves to the anonymous identity. Unknown user IDs also resolve to
	// anonymous rather than failing the request.
	Resolve(ctx context.Context, userID string) (models.Identity, error)
}

// AdminServiceInterface defines operations on department admin records.
type AdminServiceInterface interface {
	// GetAdminByUserID returns the admin record for a user, or nil when the
	// user holds no admin record at all.
	GetAdminByUserID(ctx context.Context, userID string) (*models.AdminUser, error)

	// RequestAdminAccess creates an unapproved admin record for a user.
	RequestAdminAccess(ctx context.Context, userID, department string) (*models.AdminUser, error)

	// ApproveAdmin marks an admin record as approved.
	ApproveAdmin(ctx context.Context, adminID string) error

	ListAdmins(ctx context.Context) ([]models.AdminUser, error)
}
