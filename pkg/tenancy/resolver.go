package tenancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// MembershipGrant combines a membership with its organization, as loaded
// for tenant resolution.
type MembershipGrant struct {
	Membership   domain.Membership
	Organization domain.Organization
}

// MembershipStore is the subset of the backing store the resolver needs.
type MembershipStore interface {
	// ActiveGrantsForUser returns the user's active memberships joined with
	// their organizations, excluding soft-deleted rows on either side.
	ActiveGrantsForUser(ctx context.Context, userID uuid.UUID) ([]MembershipGrant, error)
}

// Resolver turns a verified user identity plus an optional organization
// selection into a TenantContext. The context is built once per request and
// is read-only afterwards.
type Resolver struct {
	memberships MembershipStore
}

// NewResolver creates a resolver backed by the given membership store.
func NewResolver(memberships MembershipStore) *Resolver {
	return &Resolver{memberships: memberships}
}

// Resolve produces the tenant context for userID. selectedOrgID may be
// uuid.Nil when the caller has not selected an organization:
//
//   - no active memberships: organization not found
//   - one membership, none selected: auto-select it
//   - several memberships, none selected: selection required, with candidates
//   - selection outside the caller's memberships: access denied
//   - selected organization disabled: organization inactive
func (r *Resolver) Resolve(ctx context.Context, userID, selectedOrgID uuid.UUID) (*domain.TenantContext, error) {
	grants, err := r.memberships.ActiveGrantsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(grants) == 0 {
		return nil, domain.NewOrgNotFound()
	}

	var grant *MembershipGrant
	if selectedOrgID == uuid.Nil {
		if len(grants) > 1 {
			available := make([]domain.OrganizationSummary, 0, len(grants))
			for _, g := range grants {
				available = append(available, g.Organization.Summary())
			}
			return nil, domain.NewSelectionRequired(available)
		}
		grant = &grants[0]
	} else {
		for i := range grants {
			if grants[i].Organization.ID == selectedOrgID {
				grant = &grants[i]
				break
			}
		}
		if grant == nil {
			return nil, domain.NewAccessDenied()
		}
	}

	if !grant.Organization.IsActive() {
		return nil, domain.NewOrgInactive()
	}

	return &domain.TenantContext{
		OrganizationID:   grant.Organization.ID,
		OrganizationRole: grant.Membership.Role,
		Permissions:      grant.Membership.Permissions,
	}, nil
}
