package orgs

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/internal/http/middleware"
	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// Handler handles organization membership HTTP requests.
type Handler struct {
	logger      *slog.Logger
	memberships tenancy.MembershipStore
}

// NewHandler creates a new organizations handler.
func NewHandler(logger *slog.Logger, memberships tenancy.MembershipStore) *Handler {
	return &Handler{logger: logger, memberships: memberships}
}

// MembershipResponse is the wire representation of one of the caller's
// organization memberships.
type MembershipResponse struct {
	Organization domain.OrganizationSummary `json:"organization"`
	Role         domain.OrgRole             `json:"role"`
	Permissions  []string                   `json:"permissions"`
	Active       bool                       `json:"active"`
}

// ListMine handles GET /v1/organizations. It requires only authentication,
// not a resolved tenant context, so a caller stuck on organization
// selection can still enumerate their candidates.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	grants, err := h.memberships.ActiveGrantsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load memberships", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to load memberships")
		return
	}

	resp := make([]MembershipResponse, 0, len(grants))
	for _, g := range grants {
		resp = append(resp, MembershipResponse{
			Organization: g.Organization.Summary(),
			Role:         g.Membership.Role,
			Permissions:  g.Membership.Permissions,
			Active:       g.Organization.IsActive(),
		})
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// CurrentResponse is the wire representation of the resolved tenant context.
type CurrentResponse struct {
	OrganizationID uuid.UUID      `json:"organization_id"`
	Role           domain.OrgRole `json:"role"`
	Permissions    []string       `json:"permissions"`
}

// Current handles GET /v1/organizations/current
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	tc, ok := middleware.GetTenantContext(r.Context())
	if !ok {
		httputil.DomainError(w, domain.NewMissingContext())
		return
	}

	httputil.JSON(w, http.StatusOK, CurrentResponse{
		OrganizationID: tc.OrganizationID,
		Role:           tc.OrganizationRole,
		Permissions:    tc.Permissions,
	})
}
