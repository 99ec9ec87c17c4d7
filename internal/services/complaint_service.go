package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"
	contextutils "civiccare/internal/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

// Listing page size bounds
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ComplaintService implements the complaint lifecycle: submission, scoped
// reads, admin status updates and anonymous tracking. Access decisions are
// delegated to the AccessPolicy; notifications go through the dispatcher
// after the triggering update has been committed.
type ComplaintService struct {
	db         *sql.DB
	policy     *AccessPolicy
	dispatcher serviceinterfaces.NotificationDispatcherInterface
	logger     *observability.Logger
}

var _ serviceinterfaces.ComplaintServiceInterface = (*ComplaintService)(nil)

// NewComplaintService creates a new ComplaintService instance.
func NewComplaintService(db *sql.DB, policy *AccessPolicy, dispatcher serviceinterfaces.NotificationDispatcherInterface, logger *observability.Logger) *ComplaintService {
	if db == nil {
		panic("NewComplaintService: db is nil")
	}
	if policy == nil {
		panic("NewComplaintService: policy is nil")
	}
	if dispatcher == nil {
		panic("NewComplaintService: dispatcher is nil")
	}
	if logger == nil {
		panic("NewComplaintService: logger is nil")
	}
	return &ComplaintService{db: db, policy: policy, dispatcher: dispatcher, logger: logger}
}

// complaintSelect joins each complaint with its category and owner profile so
// a single read carries everything policy checks and notifications need.
const complaintSelect = `
	SELECT c.id, c.user_id, c.category_id, c.title, c.description, c.location, c.image_url,
	       c.status, c.severity, c.admin_notes, c.created_at, c.updated_at, c.resolved_at,
	       cat.id, cat.name, cat.color, cat.department,
	       u.id, u.email, u.full_name, u.created_at, u.updated_at
	FROM complaints c
	LEFT JOIN categories cat ON cat.id = c.category_id
	JOIN users u ON u.id = c.user_id`

type complaintScanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(row complaintScanner) (*models.Complaint, error) {
	var c models.Complaint
	var catID, catName, catColor, catDepartment sql.NullString
	var owner models.User
	err := row.Scan(
		&c.ID, &c.UserID, &c.CategoryID, &c.Title, &c.Description, &c.Location, &c.ImageURL,
		&c.Status, &c.Severity, &c.AdminNotes, &c.CreatedAt, &c.UpdatedAt, &c.ResolvedAt,
		&catID, &catName, &catColor, &catDepartment,
		&owner.ID, &owner.Email, &owner.FullName, &owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to scan complaint")
	}
	if catID.Valid {
		c.Category = &models.Category{
			ID:         catID.String,
			Name:       catName.String,
			Color:      catColor.String,
			Department: catDepartment.String,
		}
	}
	c.Owner = &owner
	return &c, nil
}

func (s *ComplaintService) getComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	// A malformed id would fail the uuid cast in Postgres; treat it as a
	// lookup miss instead of a storage error.
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, contextutils.ErrRecordNotFound
	}
	row := s.db.QueryRowContext(ctx, complaintSelect+" WHERE c.id = $1", id)
	return scanComplaint(row)
}

// CreateComplaint files a new complaint for an authenticated caller. The
// complaint starts in submitted status; severity defaults to medium.
func (s *ComplaintService) CreateComplaint(ctx context.Context, caller models.Identity, input serviceinterfaces.CreateComplaintInput) (result0 *models.Complaint, err error) {
	ctx, span := observability.TraceComplaintFunction(ctx, "create_complaint")
	defer observability.FinishSpan(span, &err)

	if !caller.IsAuthenticated() {
		return nil, contextutils.ErrUnauthorized
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "description is required")
	}

	severity := input.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	if !severity.IsValid() {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidSeverity, "unknown severity %q", string(input.Severity))
	}

	var categoryID, imageURL sql.NullString
	if input.CategoryID != nil && *input.CategoryID != "" {
		categoryID = sql.NullString{String: *input.CategoryID, Valid: true}
	}
	if input.ImageURL != nil && *input.ImageURL != "" {
		imageURL = sql.NullString{String: *input.ImageURL, Valid: true}
	}

	id := uuid.NewString()
	query := `INSERT INTO complaints (id, user_id, category_id, title, description, location, image_url, status, severity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`
	_, err = s.db.ExecContext(ctx, query,
		id, caller.UserID, categoryID, input.Title, input.Description, input.Location, imageURL,
		models.StatusSubmitted, severity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, contextutils.WrapErrorf(contextutils.ErrForeignKeyViolation, "category %s does not exist", categoryID.String)
		}
		return nil, contextutils.WrapError(err, "failed to insert complaint")
	}

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Complaint created", map[string]interface{}{
		"complaint_id": complaint.ID,
		"severity":     string(complaint.Severity),
	})
	return complaint, nil
}

// GetComplaintByID returns a single complaint if the caller may see it.
// Complaints outside the caller's scope read as not found so their existence
// is not leaked.
func (s *ComplaintService) GetComplaintByID(ctx context.Context, caller models.Identity, id string) (result0 *models.Complaint, err error) {
	ctx, span := observability.TraceComplaintFunction(ctx, "get_complaint_by_id", attribute.String("complaint.id", id))
	defer observability.FinishSpan(span, &err)

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanRead(caller, complaint) {
		return nil, contextutils.ErrRecordNotFound
	}
	return complaint, nil
}

// ListComplaints returns the page of complaints visible to the caller,
// newest first, together with the total count within scope.
func (s *ComplaintService) ListComplaints(ctx context.Context, caller models.Identity, filter serviceinterfaces.ComplaintListFilter) (result0 []models.Complaint, result1 int, err error) {
	ctx, span := observability.TraceComplaintFunction(ctx, "list_complaints")
	defer observability.FinishSpan(span, &err)

	scope, ok := s.policy.ScopeList(caller)
	if !ok {
		return nil, 0, contextutils.ErrUnauthorized
	}

	var conditions []string
	var args []interface{}
	idx := 1

	switch {
	case scope.OwnerID != "":
		conditions = append(conditions, fmt.Sprintf("c.user_id = $%d", idx))
		args = append(args, scope.OwnerID)
		idx++
	case scope.Department != "":
		conditions = append(conditions, fmt.Sprintf("cat.department = $%d", idx))
		args = append(args, scope.Department)
		idx++
	}

	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, 0, contextutils.WrapErrorf(contextutils.ErrInvalidStatus, "unknown status %q", string(*filter.Status))
		}
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", idx))
		args = append(args, *filter.Status)
		idx++
	}
	if filter.Severity != nil {
		if !filter.Severity.IsValid() {
			return nil, 0, contextutils.WrapErrorf(contextutils.ErrInvalidSeverity, "unknown severity %q", string(*filter.Severity))
		}
		conditions = append(conditions, fmt.Sprintf("c.severity = $%d", idx))
		args = append(args, *filter.Severity)
		idx++
	}
	if filter.CategoryID != nil && *filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("c.category_id = $%d", idx))
		args = append(args, *filter.CategoryID)
		idx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM complaints c
		LEFT JOIN categories cat ON cat.id = c.category_id %s`, where)
	var total int
	if err = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, contextutils.WrapError(err, "failed to count complaints")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	args = append(args, pageSize, (page-1)*pageSize)

	query := fmt.Sprintf("%s %s ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", complaintSelect, where, idx, idx+1)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, contextutils.WrapError(err, "failed to query complaints")
	}
	defer func() {
		_ = rows.Close()
	}()

	list := []models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

// UpdateComplaintStatus applies an admin status update. The status and notes
// are written in one transaction; when the lifecycle state actually changed,
// a notification is dispatched after commit. Updates are last-write-wins.
func (s *ComplaintService) UpdateComplaintStatus(ctx context.Context, caller models.Identity, id string, input serviceinterfaces.UpdateStatusInput) (result0 *models.Complaint, result1 models.TransitionKind, err error) {
	ctx, span := observability.TraceComplaintFunction(ctx, "update_complaint_status",
		attribute.String("complaint.id", id),
		attribute.String("complaint.new_status", string(input.Status)))
	defer observability.FinishSpan(span, &err)

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, "", err
	}
	// Mutation denials are authorization failures, unlike reads which hide
	// the record's existence.
	if !s.policy.CanMutateStatus(caller, complaint) {
		return nil, "", contextutils.ErrForbidden
	}

	transition, err := models.ComputeTransition(complaint.Status, input.Status, time.Now())
	if err != nil {
		return nil, "", err
	}

	// Notes are replaced wholesale on every update; empty clears them.
	adminNotes := sql.NullString{String: input.AdminNotes, Valid: input.AdminNotes != ""}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", contextutils.WrapError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE complaints SET status = $1, admin_notes = $2, resolved_at = $3, updated_at = NOW() WHERE id = $4`,
		transition.NewStatus, adminNotes, transition.ResolvedAt, id)
	if err != nil {
		return nil, "", contextutils.WrapError(err, "failed to update complaint")
	}
	if err = tx.Commit(); err != nil {
		return nil, "", contextutils.WrapError(err, "failed to commit status update")
	}

	updated, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "Complaint status updated", map[string]interface{}{
		"complaint_id": updated.ID,
		"old_status":   string(complaint.Status),
		"new_status":   string(updated.Status),
		"transition":   string(transition.Kind),
		"updated_by":   caller.UserID,
	})

	// Notify only on real lifecycle changes; notes-only edits stay quiet.
	if transition.Kind == models.TransitionStatusChanged {
		s.dispatcher.DispatchStatusUpdate(updated, complaint.Status)
	}

	return updated, transition.Kind, nil
}

// TrackComplaint looks up a complaint without authentication. Identifiers of
// eight characters or fewer match as a case-insensitive prefix of the
// complaint ID; longer ones must match exactly. The contact email must match
// the complaint owner; any mismatch reads as not found so the lookup cannot
// be used to probe which complaints exist.
func (s *ComplaintService) TrackComplaint(ctx context.Context, trackingID, email string) (result0 *models.Complaint, err error) {
	ctx, span := observability.TraceComplaintFunction(ctx, "track_complaint")
	defer observability.FinishSpan(span, &err)

	trackingID = strings.TrimSpace(trackingID)
	email = contextutils.NormalizeEmail(email)
	if trackingID == "" || email == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "tracking ID and email are required")
	}

	var row *sql.Row
	if len(trackingID) <= models.TrackingShortIDLength {
		// Short-ID collisions resolve to the oldest matching complaint.
		row = s.db.QueryRowContext(ctx,
			complaintSelect+` WHERE lower(left(c.id::text, $1)) = lower($2) ORDER BY c.created_at ASC LIMIT 1`,
			len(trackingID), trackingID)
	} else {
		row = s.db.QueryRowContext(ctx,
			complaintSelect+` WHERE lower(c.id::text) = lower($1)`, trackingID)
	}

	complaint, err := scanComplaint(row)
	if err != nil {
		return nil, err
	}
	if complaint.Owner == nil || contextutils.NormalizeEmail(complaint.Owner.Email) != email {
		// Email mismatch is indistinguishable from a missing complaint.
		return nil, contextutils.ErrRecordNotFound
	}
	return complaint, nil
}
