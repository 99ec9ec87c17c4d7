package handlers

import (
	"net/http"

	"civiccare/internal/config"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"

	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	categoryService serviceinterfaces.CategoryServiceInterface
	config          *config.Config
	logger          *observability.Logger
}

// NewCategoryHandler creates a new CategoryHandler instance
func NewCategoryHandler(categoryService serviceinterfaces.CategoryServiceInterface, cfg *config.Config, logger *observability.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		config:          cfg,
		logger:          logger,
	}
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	Department string `json:"department"`
}

// List returns all categories. Public: citizens pick a category when filing.
func (h *CategoryHandler) List(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "list_categories")
	defer observability.FinishSpan(span, nil)

	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, convertCategory(&categories[i]))
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// Create adds a new category. Admin only.
func (h *CategoryHandler) Create(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "create_category")
	defer observability.FinishSpan(span, nil)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body", err)
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &models.Category{
		Name:       req.Name,
		Color:      req.Color,
		Department: req.Department,
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, convertCategory(category))
}
