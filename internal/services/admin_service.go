package services

import (
	"context"
	"database/sql"
	"errors"

	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

// AdminService manages department admin records. Approval state lives here;
// the master admin is designated by configuration and never has a row.
type AdminService struct {
	db     *sql.DB
	logger *observability.Logger
}

var _ serviceinterfaces.AdminServiceInterface = (*AdminService)(nil)

// NewAdminService creates a new AdminService instance.
func NewAdminService(db *sql.DB, logger *observability.Logger) *AdminService {
	if db == nil {
		panic("NewAdminService: db is nil")
	}
	if logger == nil {
		panic("NewAdminService: logger is nil")
	}
	return &AdminService{db: db, logger: logger}
}

const adminColumns = "id, user_id, role, department, approved, created_at"

func scanAdmin(row *sql.Row) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(&a.ID, &a.UserID, &a.Role, &a.Department, &a.Approved, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to scan admin record")
	}
	return &a, nil
}

// GetAdminByUserID returns the admin record for a user, or nil when the user
// holds none.
func (s *AdminService) GetAdminByUserID(ctx context.Context, userID string) (result0 *models.AdminUser, err error) {
	ctx, span := observability.TraceIdentityFunction(ctx, "get_admin_by_user_id", attribute.String("user.id", userID))
	defer observability.FinishSpan(span, &err)

	row := s.db.QueryRowContext(ctx, "SELECT "+adminColumns+" FROM admin_users WHERE user_id = $1", userID)
	admin, err := scanAdmin(row)
	if err != nil {
		if contextutils.IsError(err, contextutils.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

// RequestAdminAccess creates an unapproved department admin record for a user.
func (s *AdminService) RequestAdminAccess(ctx context.Context, userID, department string) (result0 *models.AdminUser, err error) {
	ctx, span := observability.TraceIdentityFunction(ctx, "request_admin_access", attribute.String("user.id", userID))
	defer observability.FinishSpan(span, &err)

	if department == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "department is required")
	}

	query := `INSERT INTO admin_users (id, user_id, role, department, approved, created_at)
	          VALUES ($1, $2, $3, $4, false, NOW())
	          RETURNING ` + adminColumns
	row := s.db.QueryRowContext(ctx, query, uuid.NewString(), userID, models.RoleDepartmentAdmin, department)
	admin, err := scanAdmin(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, contextutils.WrapErrorf(contextutils.ErrRecordExists, "user already has an admin record")
			case "23503":
				return nil, contextutils.WrapErrorf(contextutils.ErrForeignKeyViolation, "user %s does not exist", userID)
			}
		}
		return nil, contextutils.WrapError(err, "failed to insert admin record")
	}

	s.logger.Info(ctx, "Admin access requested", map[string]interface{}{
		"user_id":    userID,
		"department": department,
	})
	return admin, nil
}

// ApproveAdmin marks an admin record as approved.
func (s *AdminService) ApproveAdmin(ctx context.Context, adminID string) (err error) {
	ctx, span := observability.TraceIdentityFunction(ctx, "approve_admin", attribute.String("admin.id", adminID))
	defer observability.FinishSpan(span, &err)

	result, err := s.db.ExecContext(ctx, "UPDATE admin_users SET approved = true WHERE id = $1", adminID)
	if err != nil {
		return contextutils.WrapError(err, "failed to approve admin")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return contextutils.WrapError(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "admin record %s not found", adminID)
	}

	s.logger.Info(ctx, "Admin approved", map[string]interface{}{"admin_id": adminID})
	return nil
}

// ListAdmins returns all admin records, newest first.
func (s *AdminService) ListAdmins(ctx context.Context) (result0 []models.AdminUser, err error) {
	ctx, span := observability.TraceIdentityFunction(ctx, "list_admins")
	defer observability.FinishSpan(span, &err)

	rows, err := s.db.QueryContext(ctx, "SELECT "+adminColumns+" FROM admin_users ORDER BY created_at DESC")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query admin records")
	}
	defer func() {
		_ = rows.Close()
	}()

	list := []models.AdminUser{}
	for rows.Next() {
		var a models.AdminUser
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.Department, &a.Approved, &a.CreatedAt); err != nil {
			return nil, contextutils.WrapError(err, "scan admin list")
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
