package middleware

import (
	"net/http"

	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// RequireRole creates middleware that rejects callers whose organization
// role is below the required level. Must be used after TenantContext.
func RequireRole(required domain.OrgRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, _ := GetTenantContext(r.Context())
			if _, err := tenancy.ValidateRole(tc, required); err != nil {
				httputil.DomainError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions creates middleware that rejects callers missing any of
// the required permissions. Must be used after TenantContext.
func RequirePermissions(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, _ := GetTenantContext(r.Context())
			if _, err := tenancy.ValidatePermissions(tc, required); err != nil {
				httputil.DomainError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
