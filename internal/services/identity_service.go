package services

import (
	"context"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// IdentityService resolves session user IDs into caller identities. The
// resolution order is fixed: master admin by configured email first, then an
// approved admin record, then citizen. An unapproved admin record confers
// nothing and resolves to citizen.
type IdentityService struct {
	cfg          *config.Config
	userService  serviceinterfaces.UserServiceInterface
	adminService serviceinterfaces.AdminServiceInterface
	logger       *observability.Logger
}

var _ serviceinterfaces.IdentityServiceInterface = (*IdentityService)(nil)

// NewIdentityService creates a new IdentityService instance.
func NewIdentityService(cfg *config.Config, userService serviceinterfaces.UserServiceInterface, adminService serviceinterfaces.AdminServiceInterface, logger *observability.Logger) *IdentityService {
	if cfg == nil {
		panic("NewIdentityService: cfg is nil")
	}
	if userService == nil {
		panic("NewIdentityService: userService is nil")
	}
	if adminService == nil {
		panic("NewIdentityService: adminService is nil")
	}
	if logger == nil {
		panic("NewIdentityService: logger is nil")
	}
	return &IdentityService{cfg: cfg, userService: userService, adminService: adminService, logger: logger}
}

// Resolve returns the identity for the given user ID. Empty and unknown user
// IDs resolve to anonymous; a stale session must degrade access, not fail the
// request.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (result0 models.Identity, err error) {
	ctx, span := observability.TraceIdentityFunction(ctx, "resolve_identity", attribute.String("user.id", userID))
	defer observability.FinishSpan(span, &err)

	if userID == "" {
		return models.Anonymous(), nil
	}

	user, lookupErr := s.userService.GetUserByID(ctx, userID)
	if lookupErr != nil {
		// Resolution never fails the request; a broken lookup degrades access.
		if contextutils.IsError(lookupErr, contextutils.ErrRecordNotFound) {
			s.logger.Warn(ctx, "Session references unknown user, treating as anonymous", map[string]interface{}{
				"user_id": userID,
			})
			return models.Anonymous(), nil
		}
		s.logger.Error(ctx, "User lookup failed during identity resolution, degrading to citizen", lookupErr, map[string]interface{}{
			"user_id": userID,
		})
		return models.Identity{Kind: models.IdentityCitizen, UserID: userID}, nil
	}

	if s.cfg.Admin.IsMasterEmail(user.Email) {
		return models.Identity{
			Kind:   models.IdentityMasterAdmin,
			UserID: user.ID,
			Email:  user.Email,
		}, nil
	}

	admin, lookupErr := s.adminService.GetAdminByUserID(ctx, user.ID)
	if lookupErr != nil && !contextutils.IsError(lookupErr, contextutils.ErrRecordNotFound) {
		s.logger.Error(ctx, "Admin lookup failed during identity resolution, treating as citizen", lookupErr, map[string]interface{}{
			"user_id": user.ID,
		})
	}
	if admin != nil && admin.Approved {
		// A department-unscoped admin row carries master-level visibility.
		kind := models.IdentityDepartmentAdmin
		if admin.Role == models.RoleMasterAdmin || models.IsUnscopedDepartment(admin.Department) {
			kind = models.IdentityMasterAdmin
		}
		return models.Identity{
			Kind:       kind,
			UserID:     user.ID,
			Email:      user.Email,
			Department: admin.Department,
		}, nil
	}

	return models.Identity{
		Kind:   models.IdentityCitizen,
		UserID: user.ID,
		Email:  user.Email,
	}, nil
}
