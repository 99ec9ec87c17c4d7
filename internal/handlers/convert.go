package handlers

import (
	"time"

	"civiccare/internal/models"
)

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Department string `json:"department"`
}

// ComplaintResponse is the public shape of a complaint. TrackingID is the
// short form shown to citizens.
type ComplaintResponse struct {
	ID          string            `json:"id"`
	TrackingID  string            `json:"tracking_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	ImageURL    *string           `json:"image_url,omitempty"`
	Status      string            `json:"status"`
	Severity    string            `json:"severity"`
	AdminNotes  *string           `json:"admin_notes,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
}

// AdminUserResponse is the public shape of an admin record.
type AdminUserResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func convertUser(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func convertCategory(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Color: c.Color, Department: c.Department}
}

func convertComplaint(c *models.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID,
		TrackingID:  c.ShortID(),
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		Status:      string(c.Status),
		Severity:    string(c.Severity),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ImageURL.Valid {
		resp.ImageURL = &c.ImageURL.String
	}
	if c.AdminNotes.Valid {
		resp.AdminNotes = &c.AdminNotes.String
	}
	if c.Category != nil {
		cat := convertCategory(c.Category)
		resp.Category = &cat
	}
	if c.ResolvedAt.Valid {
		t := c.ResolvedAt.Time
		resp.ResolvedAt = &t
	}
	return resp
}

func convertComplaints(cs []models.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(cs))
	for i := range cs {
		out = append(out, convertComplaint(&cs[i]))
	}
	return out
}

func convertAdmin(a *models.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Role:       a.Role,
		Department: a.Department,
		Approved:   a.Approved,
		CreatedAt:  a.CreatedAt,
	}
}
