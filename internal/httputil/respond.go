package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tendant/simple-crm-slim/pkg/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// errorBody is the wire shape of a taxonomy failure. Payload fields are
// omitted when empty so each kind only exposes its own fields.
type errorBody struct {
	Error                  string                       `json:"error"`
	Code                   string                       `json:"code"`
	RequiredRole           string                       `json:"required_role,omitempty"`
	CurrentRole            string                       `json:"current_role,omitempty"`
	MissingPermissions     []string                     `json:"missing_permissions,omitempty"`
	UserPermissions        []string                     `json:"user_permissions,omitempty"`
	AvailableOrganizations []domain.OrganizationSummary `json:"available_organizations,omitempty"`
	ReferenceCount         int                          `json:"reference_count,omitempty"`
	Field                  string                       `json:"field,omitempty"`
}

// DomainError maps a failure to its transport representation. Taxonomy
// errors carry their own status hint and structured payload; anything else
// is a storage or programming fault and surfaces as a 500.
func DomainError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, de.Status, errorBody{
		Error:                  de.Message,
		Code:                   de.Code,
		RequiredRole:           string(de.RequiredRole),
		CurrentRole:            string(de.CurrentRole),
		MissingPermissions:     de.MissingPermissions,
		UserPermissions:        de.UserPermissions,
		AvailableOrganizations: de.AvailableOrganizations,
		ReferenceCount:         de.ReferenceCount,
		Field:                  de.Field,
	})
}
