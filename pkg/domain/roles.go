package domain

// OrgRole represents a member's role within an organization.
type OrgRole string

const (
	RoleGuest   OrgRole = "guest"
	RoleMember  OrgRole = "member"
	RoleManager OrgRole = "manager"
	RoleAdmin   OrgRole = "admin"
	RoleOwner   OrgRole = "owner"
)

// roleHierarchy is the total order used for "at least as privileged as" checks,
// least privileged first.
var roleHierarchy = []OrgRole{RoleGuest, RoleMember, RoleManager, RoleAdmin, RoleOwner}

// RoleIndex returns the position of a role in the hierarchy, or -1 for an
// unrecognized role. Unknown roles therefore fail every comparison (fail closed).
func RoleIndex(role OrgRole) int {
	for i, r := range roleHierarchy {
		if r == role {
			return i
		}
	}
	return -1
}

// AtLeast reports whether role is at least as privileged as required.
// An unrecognized role is never sufficient, regardless of the requirement.
func (r OrgRole) AtLeast(required OrgRole) bool {
	current := RoleIndex(r)
	if current < 0 {
		return false
	}
	return current >= RoleIndex(required)
}

// IsValid reports whether the role is one of the known hierarchy values.
func (r OrgRole) IsValid() bool {
	return RoleIndex(r) >= 0
}
