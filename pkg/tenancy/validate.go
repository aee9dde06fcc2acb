// Package tenancy implements the tenant authorization core: context
// validation, role-hierarchy checks, permission-set checks, and resolution
// of a user's memberships into a request tenant context.
package tenancy

import (
	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// ValidateContext asserts that an organization is bound to the tenant
// context. Pure function, no I/O. Returns the context unchanged on success.
func ValidateContext(tc *domain.TenantContext) (*domain.TenantContext, error) {
	if !tc.HasOrganization() {
		return nil, domain.NewMissingContext()
	}
	return tc, nil
}

// ValidateRole asserts that the caller's organization role is at least as
// privileged as required, using the fixed hierarchy. An unrecognized caller
// role always fails.
func ValidateRole(tc *domain.TenantContext, required domain.OrgRole) (*domain.TenantContext, error) {
	tc, err := ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	if !tc.OrganizationRole.AtLeast(required) {
		return nil, domain.NewInsufficientRole(required, tc.OrganizationRole)
	}
	return tc, nil
}

// ValidatePermissions asserts that every required permission is granted.
// The failure payload lists the missing permissions in the order of the
// required list. An empty required list always succeeds.
func ValidatePermissions(tc *domain.TenantContext, required []string) (*domain.TenantContext, error) {
	tc, err := ValidateContext(tc)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, p := range required {
		if !tc.HasPermission(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingPermissions(missing, tc.Permissions)
	}
	return tc, nil
}

// ValidateResourceAccess asserts that a resource's owning organization is
// the caller's. Used when a resource has already been loaded and its owner
// is known; lookups scoped by organization id should prefer not-found.
func ValidateResourceAccess(tc *domain.TenantContext, resourceOrgID uuid.UUID) (*domain.TenantContext, error) {
	tc, err := ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	if resourceOrgID != tc.OrganizationID {
		return nil, domain.NewAccessDenied()
	}
	return tc, nil
}

// ValidateReference rejects a request payload that explicitly references
// another organization's id.
func ValidateReference(tc *domain.TenantContext, referencedOrgID uuid.UUID) (*domain.TenantContext, error) {
	tc, err := ValidateContext(tc)
	if err != nil {
		return nil, err
	}
	if referencedOrgID != uuid.Nil && referencedOrgID != tc.OrganizationID {
		return nil, domain.NewCrossTenant()
	}
	return tc, nil
}
