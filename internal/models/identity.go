package models

// IdentityKind classifies the caller of an operation for access decisions.
type IdentityKind string

const (
	// IdentityAnonymous is an unauthenticated caller
	IdentityAnonymous IdentityKind = "anonymous"
	// IdentityCitizen is an authenticated user with no admin role
	IdentityCitizen IdentityKind = "citizen"
	// IdentityDepartmentAdmin is an approved admin scoped to a department
	IdentityDepartmentAdmin IdentityKind = "department_admin"
	// IdentityMasterAdmin is the configured master administrator
	IdentityMasterAdmin IdentityKind = "master_admin"
)

// Identity is the resolved access-control view of a caller. It is derived
// once per request and consumed by the access policy; handlers never branch
// on raw session data.
type Identity struct {
	Kind   IdentityKind `json:"kind"`
	UserID string       `json:"user_id,omitempty"`
	Email  string       `json:"email,omitempty"`
	// Department is set only for department admins. The sentinel values
	// "all" and "general" grant cross-department visibility.
	Department string `json:"department,omitempty"`
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{Kind: IdentityAnonymous}
}

// IsAdmin reports whether the identity carries any admin privilege.
func (i Identity) IsAdmin() bool {
	return i.Kind == IdentityDepartmentAdmin || i.Kind == IdentityMasterAdmin
}

// IsAuthenticated reports whether the identity belongs to a signed-in user.
func (i Identity) IsAuthenticated() bool {
	return i.Kind != IdentityAnonymous
}

// CanSeeAllDepartments reports whether the identity's scope spans every
// department: the master admin always, a department admin only when holding
// one of the sentinel departments.
func (i Identity) CanSeeAllDepartments() bool {
	if i.Kind == IdentityMasterAdmin {
		return true
	}
	return i.Kind == IdentityDepartmentAdmin && IsUnscopedDepartment(i.Department)
}
