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

// CategoryService manages complaint categories.
type CategoryService struct {
	db     *sql.DB
	logger *observability.Logger
}

var _ serviceinterfaces.CategoryServiceInterface = (*CategoryService)(nil)

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(db *sql.DB, logger *observability.Logger) *CategoryService {
	if db == nil {
		panic("NewCategoryService: db is nil")
	}
	if logger == nil {
		panic("NewCategoryService: logger is nil")
	}
	return &CategoryService{db: db, logger: logger}
}

// ListCategories returns all categories ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) (result0 []models.Category, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "list_categories")
	defer observability.FinishSpan(span, &err)

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, color, department FROM categories ORDER BY name")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to query categories")
	}
	defer func() {
		_ = rows.Close()
	}()

	list := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Department); err != nil {
			return nil, contextutils.WrapError(err, "scan category")
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetCategoryByID fetches a single category.
func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (result0 *models.Category, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "get_category_by_id", attribute.String("category.id", id))
	defer observability.FinishSpan(span, &err)

	var c models.Category
	err = s.db.QueryRowContext(ctx, "SELECT id, name, color, department FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.Color, &c.Department)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contextutils.ErrRecordNotFound
		}
		return nil, contextutils.WrapError(err, "failed to scan category")
	}
	return &c, nil
}

// CreateCategory inserts a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) (result0 *models.Category, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "create_category")
	defer observability.FinishSpan(span, &err)

	if category.Name == "" {
		return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "category name is required")
	}
	if category.Department == "" {
		category.Department = models.DepartmentGeneral
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, color, department) VALUES ($1, $2, $3, $4)",
		category.ID, category.Name, category.Color, category.Department)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, contextutils.WrapErrorf(contextutils.ErrRecordExists, "category %q already exists", category.Name)
		}
		return nil, contextutils.WrapError(err, "failed to insert category")
	}

	s.logger.Info(ctx, "Category created", map[string]interface{}{
		"category_id": category.ID,
		"department":  category.Department,
	})
	return category, nil
}
