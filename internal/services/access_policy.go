package services

import (
	"civiccare/internal/models"
)

// AccessPolicy is the single authority on who may see and mutate complaints.
// It is pure: all decisions are functions of the resolved identity and the
// complaint record (with its joined category). Handlers and services consult
// it instead of branching on roles themselves.
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy instance.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// ListScope describes the visibility constraint to apply to a complaint
// listing. Exactly one of the fields is meaningful: All, or a non-empty
// OwnerID, or a non-empty Department.
type ListScope struct {
	All        bool
	OwnerID    string
	Department string
}

// CanRead reports whether the caller may read the complaint.
//
// Citizens see only their own complaints. Department admins see complaints
// whose category belongs to their department; an uncategorized complaint has
// no department and is visible only to unscoped admins and the master admin.
func (p *AccessPolicy) CanRead(caller models.Identity, complaint *models.Complaint) bool {
	switch caller.Kind {
	case models.IdentityMasterAdmin:
		return true
	case models.IdentityDepartmentAdmin:
		if caller.CanSeeAllDepartments() {
			return true
		}
		return complaint.Department() == caller.Department
	case models.IdentityCitizen:
		return complaint.UserID == caller.UserID
	default:
		return false
	}
}

// CanMutateStatus reports whether the caller may change the complaint's
// status or admin notes. Only admins may, under the same department scoping
// as reads; citizens cannot mutate even their own complaints.
func (p *AccessPolicy) CanMutateStatus(caller models.Identity, complaint *models.Complaint) bool {
	if !caller.IsAdmin() {
		return false
	}
	return p.CanRead(caller, complaint)
}

// ScopeList returns the visibility constraint for listing complaints as the
// given caller. Anonymous callers have no listing scope.
func (p *AccessPolicy) ScopeList(caller models.Identity) (ListScope, bool) {
	switch caller.Kind {
	case models.IdentityMasterAdmin:
		return ListScope{All: true}, true
	case models.IdentityDepartmentAdmin:
		if caller.CanSeeAllDepartments() {
			return ListScope{All: true}, true
		}
		return ListScope{Department: caller.Department}, true
	case models.IdentityCitizen:
		return ListScope{OwnerID: caller.UserID}, true
	default:
		return ListScope{}, false
	}
}
