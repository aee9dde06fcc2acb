package domain

import (
	"fmt"
	"strings"
)

// ErrorKind discriminates the closed set of failure variants the core can
// produce. Every public operation either succeeds or fails with exactly one
// of these; the HTTP boundary maps Status to a transport code.
type ErrorKind string

const (
	KindMissingContext      ErrorKind = "missing_context"
	KindOrgNotFound         ErrorKind = "org_not_found"
	KindOrgInactive         ErrorKind = "org_inactive"
	KindAccessDenied        ErrorKind = "access_denied"
	KindInsufficientRole    ErrorKind = "insufficient_role"
	KindMissingPermissions  ErrorKind = "missing_permissions"
	KindSelectionRequired   ErrorKind = "selection_required"
	KindCrossTenant         ErrorKind = "cross_tenant"
	KindValidation          ErrorKind = "validation"
	KindDuplicateName       ErrorKind = "duplicate_name"
	KindNotFound            ErrorKind = "not_found"
	KindReferentialConflict ErrorKind = "referential_conflict"
)

// Stable machine-readable codes, one per kind.
const (
	CodeMissingOrganizationID    = "MISSING_ORGANIZATION_ID"
	CodeOrganizationNotFound     = "ORGANIZATION_NOT_FOUND"
	CodeOrganizationInactive     = "ORGANIZATION_INACTIVE"
	CodeOrganizationAccessDenied = "ORGANIZATION_ACCESS_DENIED"
	CodeInsufficientRole         = "INSUFFICIENT_ORGANIZATION_ROLE"
	CodeMissingPermissions       = "MISSING_ORGANIZATION_PERMISSIONS"
	CodeOrganizationSelection    = "ORGANIZATION_SELECTION_REQUIRED"
	CodeCrossOrganizationAccess  = "CROSS_ORGANIZATION_ACCESS"
	CodeValidationError          = "VALIDATION_ERROR"
	CodeDuplicateName            = "DUPLICATE_NAME"
	CodeNotFound                 = "NOT_FOUND"
	CodeReferentialConflict      = "REFERENTIAL_CONFLICT"
)

// Error is the single failure type for tenant, authorization, and
// configuration operations. Kind discriminates the variant; the payload
// fields are populated per kind so callers can render an actionable message
// without parsing the text.
type Error struct {
	Kind    ErrorKind
	Code    string
	Status  int
	Message string

	// InsufficientRole
	RequiredRole OrgRole
	CurrentRole  OrgRole

	// MissingPermissions
	MissingPermissions []string
	UserPermissions    []string

	// SelectionRequired
	AvailableOrganizations []OrganizationSummary

	// ReferentialConflict
	ReferenceCount int

	// Validation
	Field string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return strings.ToLower(strings.ReplaceAll(e.Code, "_", " "))
}

// Is matches errors of the same kind, so callers can compare against the
// package sentinels with errors.Is without caring about payload fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons. Payload-carrying values are built by
// the constructors below; these exist only as comparison targets.
var (
	ErrMissingContext      = &Error{Kind: KindMissingContext}
	ErrOrgNotFound         = &Error{Kind: KindOrgNotFound}
	ErrOrgInactive         = &Error{Kind: KindOrgInactive}
	ErrAccessDenied        = &Error{Kind: KindAccessDenied}
	ErrInsufficientRole    = &Error{Kind: KindInsufficientRole}
	ErrMissingPermissions  = &Error{Kind: KindMissingPermissions}
	ErrSelectionRequired   = &Error{Kind: KindSelectionRequired}
	ErrCrossTenant         = &Error{Kind: KindCrossTenant}
	ErrValidation          = &Error{Kind: KindValidation}
	ErrDuplicateName       = &Error{Kind: KindDuplicateName}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrReferentialConflict = &Error{Kind: KindReferentialConflict}
)

// NewMissingContext reports that no organization is bound to the request.
func NewMissingContext() *Error {
	return &Error{
		Kind:    KindMissingContext,
		Code:    CodeMissingOrganizationID,
		Status:  400,
		Message: "organization context is required",
	}
}

// NewOrgNotFound reports that the organization id does not resolve.
func NewOrgNotFound() *Error {
	return &Error{
		Kind:    KindOrgNotFound,
		Code:    CodeOrganizationNotFound,
		Status:  404,
		Message: "organization not found",
	}
}

// NewOrgInactive reports that the organization resolved but is disabled.
func NewOrgInactive() *Error {
	return &Error{
		Kind:    KindOrgInactive,
		Code:    CodeOrganizationInactive,
		Status:  403,
		Message: "organization is inactive",
	}
}

// NewAccessDenied reports that the resource belongs to a different
// organization than the caller's.
func NewAccessDenied() *Error {
	return &Error{
		Kind:    KindAccessDenied,
		Code:    CodeOrganizationAccessDenied,
		Status:  403,
		Message: "access to this organization is denied",
	}
}

// NewInsufficientRole reports a role-hierarchy violation.
func NewInsufficientRole(required, current OrgRole) *Error {
	return &Error{
		Kind:         KindInsufficientRole,
		Code:         CodeInsufficientRole,
		Status:       403,
		Message:      fmt.Sprintf("role %q is required, current role is %q", required, current),
		RequiredRole: required,
		CurrentRole:  current,
	}
}

// NewMissingPermissions reports absent permissions. missing preserves the
// order of the required list.
func NewMissingPermissions(missing, userPermissions []string) *Error {
	return &Error{
		Kind:               KindMissingPermissions,
		Code:               CodeMissingPermissions,
		Status:             403,
		Message:            "missing required permissions: " + strings.Join(missing, ", "),
		MissingPermissions: missing,
		UserPermissions:    userPermissions,
	}
}

// NewSelectionRequired reports that the caller belongs to multiple
// organizations and has not selected one. available lists the candidates.
func NewSelectionRequired(available []OrganizationSummary) *Error {
	return &Error{
		Kind:                   KindSelectionRequired,
		Code:                   CodeOrganizationSelection,
		Status:                 300,
		Message:                "organization selection is required",
		AvailableOrganizations: available,
	}
}

// NewCrossTenant reports an explicit cross-organization reference.
func NewCrossTenant() *Error {
	return &Error{
		Kind:    KindCrossTenant,
		Code:    CodeCrossOrganizationAccess,
		Status:  403,
		Message: "cross-organization access is not allowed",
	}
}

// NewValidation reports an invalid field in an operation payload.
func NewValidation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationError,
		Status:  400,
		Message: message,
		Field:   field,
	}
}

// NewDuplicateName reports a name collision within the organization.
func NewDuplicateName(name string) *Error {
	return &Error{
		Kind:    KindDuplicateName,
		Code:    CodeDuplicateName,
		Status:  409,
		Message: fmt.Sprintf("name %q already exists in this organization", name),
	}
}

// NewEntityNotFound reports that an entity does not exist within the
// caller's organization. Entities owned by other organizations look absent.
func NewEntityNotFound(entity string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Status:  404,
		Message: entity + " not found",
	}
}

// NewReferentialConflict reports a delete blocked by records that still
// reference the target.
func NewReferentialConflict(count int) *Error {
	return &Error{
		Kind:           KindReferentialConflict,
		Code:           CodeReferentialConflict,
		Status:         409,
		Message:        fmt.Sprintf("%d record(s) still reference this entity", count),
		ReferenceCount: count,
	}
}
