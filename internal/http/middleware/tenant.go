package middleware

import (
	"context"
	"net/http"

	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// TenantContextKey is the context key for the resolved tenant context.
const TenantContextKey contextKey = "tenant_context"

// TenantContext creates middleware that resolves the authenticated user's
// memberships into a tenant context. Must be used after Auth. Resolution
// failures (no membership, inactive org, selection required, foreign
// selection) surface as their taxonomy variants.
func TenantContext(resolver *tenancy.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			tc, err := resolver.Resolve(r.Context(), userID, GetSelectedOrg(r.Context()))
			if err != nil {
				httputil.DomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), TenantContextKey, tc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantContext extracts the tenant context from the request context.
func GetTenantContext(ctx context.Context) (*domain.TenantContext, bool) {
	tc, ok := ctx.Value(TenantContextKey).(*domain.TenantContext)
	return tc, ok
}
