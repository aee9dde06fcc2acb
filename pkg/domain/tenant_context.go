package domain

import "github.com/google/uuid"

// TenantContext is the resolved identity+membership snapshot attached to an
// authorized request. It is constructed once by the resolver and read-only
// afterwards; the core never parses credentials itself.
type TenantContext struct {
	OrganizationID   uuid.UUID
	OrganizationRole OrgRole
	Permissions      []string
}

// HasOrganization reports whether an organization is bound to the context.
func (tc *TenantContext) HasOrganization() bool {
	return tc != nil && tc.OrganizationID != uuid.Nil
}

// HasPermission reports whether the context carries the given permission.
// Membership is exact; permissions are opaque tokens, not hierarchical.
func (tc *TenantContext) HasPermission(permission string) bool {
	if tc == nil {
		return false
	}
	for _, p := range tc.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
