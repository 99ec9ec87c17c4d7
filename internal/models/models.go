// Package models defines the core data structures for the Civic Care backend.
package models

import (
	"database/sql"
	"time"
)

// ComplaintStatus is the lifecycle state of a complaint. Values are persisted
// and transmitted as the literal strings below for compatibility with stored data.
type ComplaintStatus string

const (
	// StatusSubmitted is the initial status of every complaint
	StatusSubmitted ComplaintStatus = "submitted"
	// StatusInProgress means the complaint is being reviewed by a department
	StatusInProgress ComplaintStatus = "in_progress"
	// StatusResolved means the complaint has been addressed
	StatusResolved ComplaintStatus = "resolved"
)

// IsValid reports whether s is one of the three known statuses.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Display returns the human-readable form used in notification emails,
// e.g. "in_progress" -> "IN PROGRESS".
func (s ComplaintStatus) Display() string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
			out[i] = ' '
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		default:
			out[i] = c
		}
	}
	return string(out)
}

// Severity is the citizen-reported urgency of a complaint.
type Severity string

const (
	// SeverityLow marks minor issues
	SeverityLow Severity = "low"
	// SeverityMedium is the default severity
	SeverityMedium Severity = "medium"
	// SeverityHigh marks urgent issues
	SeverityHigh Severity = "high"
)

// IsValid reports whether s is one of the three known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Admin role values stored in admin_users.role
const (
	RoleDepartmentAdmin = "department_admin"
	RoleMasterAdmin     = "master_admin"
)

// Sentinel department values meaning "not scoped to a single department"
const (
	DepartmentAll     = "all"
	DepartmentGeneral = "general"
)

// IsUnscopedDepartment reports whether the department value grants visibility
// across all departments.
func IsUnscopedDepartment(department string) bool {
	return department == DepartmentAll || department == DepartmentGeneral
}

// TrackingShortIDLength is the threshold at or below which a tracking
// identifier is treated as a case-insensitive prefix of the full complaint ID.
const TrackingShortIDLength = 8

// User represents a citizen account.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Category represents a complaint category owned by a municipal department.
// The department field is the access-scoping token for department admins.
type Category struct {
	ID         string `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Color      string `json:"color" db:"color"`
	Department string `json:"department" db:"department"`
}

// AdminUser represents a department admin row. A row that is not approved
// confers no privilege. The master admin is not stored here; it is designated
// by configuration.
type AdminUser struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Role       string    `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	Approved   bool      `json:"approved" db:"approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Complaint represents a civic issue filed by a citizen.
//
// Invariant: ResolvedAt is non-null iff Status == StatusResolved.
type Complaint struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	CategoryID  sql.NullString  `json:"category_id" db:"category_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Location    string          `json:"location" db:"location"`
	ImageURL    sql.NullString  `json:"image_url" db:"image_url"`
	Status      ComplaintStatus `json:"status" db:"status"`
	Severity    Severity        `json:"severity" db:"severity"`
	AdminNotes  sql.NullString  `json:"admin_notes" db:"admin_notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	ResolvedAt  sql.NullTime    `json:"resolved_at" db:"resolved_at"`

	// Joined records, populated on reads. Category is nil for uncategorized
	// complaints; Owner is nil when the read did not join the owner profile.
	Category *Category `json:"category,omitempty" db:"-"`
	Owner    *User     `json:"owner,omitempty" db:"-"`
}

// ShortID returns the first eight characters of the complaint ID, uppercased,
// as shown to citizens on receipts and in notification emails.
func (c *Complaint) ShortID() string {
	id := c.ID
	if len(id) > TrackingShortIDLength {
		id = id[:TrackingShortIDLength]
	}
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if ch >= 'a' && ch <= 'z' {
			ch = ch - 'a' + 'A'
		}
		out[i] = ch
	}
	return string(out)
}

// Department returns the owning department of the complaint's category, or
// empty string for uncategorized complaints.
func (c *Complaint) Department() string {
	if c.Category == nil {
		return ""
	}
	return c.Category.Department
}
