package handlers

import (
	"net/http"

	"civiccare/internal/config"
	"civiccare/internal/middleware"
	"civiccare/internal/models"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Listing defaults for the complaints endpoint
const (
	defaultComplaintPageSize = 20
	maxComplaintPageSize     = 100
)

// ComplaintHandler handles complaint lifecycle HTTP requests.
type ComplaintHandler struct {
	complaintService serviceinterfaces.ComplaintServiceInterface
	config           *config.Config
	logger           *observability.Logger
}

// NewComplaintHandler creates a new ComplaintHandler instance
func NewComplaintHandler(complaintService serviceinterfaces.ComplaintServiceInterface, cfg *config.Config, logger *observability.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		config:           cfg,
		logger:           logger,
	}
}

// CreateComplaintRequest is the payload for filing a complaint.
type CreateComplaintRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Location    string  `json:"location"`
	CategoryID  *string `json:"category_id"`
	ImageURL    *string `json:"image_url"`
	Severity    string  `json:"severity"`
}

// UpdateStatusRequest is the payload for an admin status update. The notes
// replace the stored notes wholesale; omitting them clears the field.
type UpdateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// TrackRequest is the payload for the anonymous tracking lookup.
type TrackRequest struct {
	TrackingID string `json:"tracking_id" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

// Create files a new complaint for the signed-in caller.
func (h *ComplaintHandler) Create(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "create_complaint")
	defer observability.FinishSpan(span, nil)

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body", err)
		return
	}

	complaint, err := h.complaintService.CreateComplaint(c.Request.Context(), middleware.GetIdentity(c), serviceinterfaces.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Severity:    models.Severity(req.Severity),
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}

	span.SetAttributes(attribute.String("complaint.id", complaint.ID))
	c.JSON(http.StatusCreated, convertComplaint(complaint))
}

// List returns the caller's visible complaints, newest first.
func (h *ComplaintHandler) List(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "list_complaints")
	defer observability.FinishSpan(span, nil)

	page, pageSize := ParsePagination(c, 1, defaultComplaintPageSize, maxComplaintPageSize)
	filter := serviceinterfaces.ComplaintListFilter{Page: page, PageSize: pageSize}

	filters := ParseFilters(c, "status", "severity", "category_id")
	if v, ok := filters["status"]; ok {
		status := models.ComplaintStatus(v)
		filter.Status = &status
	}
	if v, ok := filters["severity"]; ok {
		severity := models.Severity(v)
		filter.Severity = &severity
	}
	if v, ok := filters["category_id"]; ok {
		filter.CategoryID = &v
	}

	complaints, total, err := h.complaintService.ListComplaints(c.Request.Context(), middleware.GetIdentity(c), filter)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	WritePaginated(c, "complaints", convertComplaints(complaints), page, pageSize, total)
}

// Get returns a single complaint visible to the caller.
func (h *ComplaintHandler) Get(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "get_complaint",
		attribute.String("complaint.id", c.Param("id")))
	defer observability.FinishSpan(span, nil)

	complaint, err := h.complaintService.GetComplaintByID(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertComplaint(complaint))
}

// UpdateStatus applies an admin status update to a complaint.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "update_complaint_status",
		attribute.String("complaint.id", c.Param("id")))
	defer observability.FinishSpan(span, nil)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body", err)
		return
	}

	complaint, kind, err := h.complaintService.UpdateComplaintStatus(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), serviceinterfaces.UpdateStatusInput{
		Status:     models.ComplaintStatus(req.Status),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		HandleAppError(c, err)
		return
	}

	span.SetAttributes(attribute.String("complaint.transition", string(kind)))
	c.JSON(http.StatusOK, gin.H{
		"complaint":  convertComplaint(complaint),
		"transition": string(kind),
	})
}

// Track handles the anonymous tracking lookup by tracking ID and email.
func (h *ComplaintHandler) Track(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "track_complaint")
	defer observability.FinishSpan(span, nil)

	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body", err)
		return
	}

	complaint, err := h.complaintService.TrackComplaint(c.Request.Context(), req.TrackingID, req.Email)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertComplaint(complaint))
}
