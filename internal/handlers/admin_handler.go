package handlers

import (
	"net/http"

	"civiccare/internal/config"
	"civiccare/internal/middleware"
	"civiccare/internal/observability"
	"civiccare/internal/serviceinterfaces"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// AdminHandler handles department admin management HTTP requests.
type AdminHandler struct {
	adminService serviceinterfaces.AdminServiceInterface
	config       *config.Config
	logger       *observability.Logger
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(adminService serviceinterfaces.AdminServiceInterface, cfg *config.Config, logger *observability.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		config:       cfg,
		logger:       logger,
	}
}

// RequestAccessRequest is the payload for requesting department admin access.
type RequestAccessRequest struct {
	Department string `json:"department" binding:"required"`
}

// RequestAccess creates an unapproved admin record for the signed-in caller.
// The record grants nothing until the master admin approves it.
func (h *AdminHandler) RequestAccess(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "request_admin_access")
	defer observability.FinishSpan(span, nil)

	var req RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body", err)
		return
	}

	identity := middleware.GetIdentity(c)
	admin, err := h.adminService.RequestAdminAccess(c.Request.Context(), identity.UserID, req.Department)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	span.SetAttributes(attribute.String("admin.id", admin.ID))
	c.JSON(http.StatusCreated, convertAdmin(admin))
}

// List returns all admin records. Master admin only.
func (h *AdminHandler) List(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "list_admins")
	defer observability.FinishSpan(span, nil)

	admins, err := h.adminService.ListAdmins(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}

	out := make([]AdminUserResponse, 0, len(admins))
	for i := range admins {
		out = append(out, convertAdmin(&admins[i]))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Approve marks an admin record as approved. Master admin only.
func (h *AdminHandler) Approve(c *gin.Context) {
	_, span := observability.TraceHandlerFunction(c.Request.Context(), "approve_admin",
		attribute.String("admin.id", c.Param("id")))
	defer observability.FinishSpan(span, nil)

	if err := h.adminService.ApproveAdmin(c.Request.Context(), c.Param("id")); err != nil {
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
