package clients

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/internal/http/middleware"
	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/leads"
)

// Handler handles lead record HTTP requests.
type Handler struct {
	logger  *slog.Logger
	service *leads.Service
}

// NewHandler creates a new clients handler.
func NewHandler(logger *slog.Logger, service *leads.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// ClientResponse is the wire representation of a lead record.
type ClientResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	LeadStage  string    `json:"lead_stage"`
	LeadSource *string   `json:"lead_source,omitempty"`
}

func toClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		LeadStage:  c.LeadStage,
		LeadSource: c.LeadSource,
	}
}

// List handles GET /v1/clients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	list, err := h.service.List(r.Context(), tc)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	resp := make([]ClientResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toClientResponse(&list[i]))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// CreateRequest represents the request body for creating a lead record.
// organization_id, when present, must match the caller's organization.
type CreateRequest struct {
	Name           string    `json:"name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	LeadStage      string    `json:"lead_stage"`
	LeadSource     *string   `json:"lead_source"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// Create handles POST /v1/clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.service.Create(r.Context(), tc, leads.CreateClientInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		LeadStage:      req.LeadStage,
		LeadSource:     req.LeadSource,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toClientResponse(client))
}

// ReassignRequest represents the request body for moving clients between stages.
type ReassignRequest struct {
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
}

// ReassignStage handles POST /v1/clients/reassign-stage
func (h *Handler) ReassignStage(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	var req ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	moved, err := h.service.ReassignStage(r.Context(), tc, req.FromStage, req.ToStage)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"moved": moved})
}
