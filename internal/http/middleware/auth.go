package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/internal/httputil"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// ClaimsKey is the context key for the token claims.
	ClaimsKey contextKey = "claims"
	// SelectedOrgKey is the context key for the caller's organization selection.
	SelectedOrgKey contextKey = "selected_org"
)

// OrgSelectionHeader lets a caller with multiple memberships pick the
// organization for this request, overriding the token's org claim. This is
// the retry path after an ORGANIZATION_SELECTION_REQUIRED response.
const OrgSelectionHeader = "X-Organization-ID"

// AccessTokenClaims represents the claims in an access token. The core
// trusts these as already-verified identity; it never issues tokens.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	OrganizationID string `json:"org_id,omitempty"`
}

// Auth creates middleware that validates bearer access tokens and records
// the verified user id plus any organization selection on the context.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}

			claims := &AccessTokenClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			// Selection precedence: explicit header, then token claim,
			// then none (the resolver decides what that means).
			selectedOrg := uuid.Nil
			if v := r.Header.Get(OrgSelectionHeader); v != "" {
				selectedOrg, err = uuid.Parse(v)
				if err != nil {
					httputil.Error(w, http.StatusBadRequest, "invalid organization id header")
					return
				}
			} else if claims.OrganizationID != "" {
				selectedOrg, err = uuid.Parse(claims.OrganizationID)
				if err != nil {
					httputil.Error(w, http.StatusUnauthorized, "invalid org_id in token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SelectedOrgKey, selectedOrg)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from the request context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetClaims extracts the token claims from the request context.
func GetClaims(ctx context.Context) (*AccessTokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims)
	return claims, ok
}

// GetSelectedOrg extracts the organization selection from the request
// context. uuid.Nil means the caller made no selection.
func GetSelectedOrg(ctx context.Context) uuid.UUID {
	org, ok := ctx.Value(SelectedOrgKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return org
}
