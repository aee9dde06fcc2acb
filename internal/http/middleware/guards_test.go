package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/pkg/domain"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithTenant(tc *domain.TenantContext) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/lead-stages", nil)
	if tc != nil {
		req = req.WithContext(context.WithValue(req.Context(), TenantContextKey, tc))
	}
	return req
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.OrgRole
		required   domain.OrgRole
		wantStatus int
	}{
		{"sufficient role", domain.RoleAdmin, domain.RoleManager, http.StatusOK},
		{"exact role", domain.RoleManager, domain.RoleManager, http.StatusOK},
		{"insufficient role", domain.RoleMember, domain.RoleManager, http.StatusForbidden},
		{"unknown role", "superuser", domain.RoleGuest, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := &domain.TenantContext{OrganizationID: uuid.New(), OrganizationRole: tt.role}
			rec := httptest.NewRecorder()

			RequireRole(tt.required)(okHandler()).ServeHTTP(rec, requestWithTenant(tc))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_MissingTenantContext(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(domain.RoleGuest)(okHandler()).ServeHTTP(rec, requestWithTenant(nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRequirePermissions(t *testing.T) {
	tc := &domain.TenantContext{
		OrganizationID: uuid.New(),
		Permissions:    []string{domain.PermLeadsCreate},
	}

	rec := httptest.NewRecorder()
	RequirePermissions(domain.PermLeadsCreate)(okHandler()).ServeHTTP(rec, requestWithTenant(tc))
	if rec.Code != http.StatusOK {
		t.Errorf("granted permission: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	RequirePermissions(domain.PermPipelineManage, domain.PermLeadsCreate)(okHandler()).ServeHTTP(rec, requestWithTenant(tc))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing permission: status = %d, want 403", rec.Code)
	}

	var body struct {
		Code               string   `json:"code"`
		MissingPermissions []string `json:"missing_permissions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Code != domain.CodeMissingPermissions {
		t.Errorf("code = %q, want %q", body.Code, domain.CodeMissingPermissions)
	}
	if len(body.MissingPermissions) != 1 || body.MissingPermissions[0] != domain.PermPipelineManage {
		t.Errorf("missing = %v, want [%s]", body.MissingPermissions, domain.PermPipelineManage)
	}
}
