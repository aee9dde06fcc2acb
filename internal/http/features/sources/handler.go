package sources

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-crm-slim/internal/http/middleware"
	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/pipeline"
)

// Handler handles lead source HTTP requests.
type Handler struct {
	logger  *slog.Logger
	service *pipeline.Service
}

// NewHandler creates a new sources handler.
func NewHandler(logger *slog.Logger, service *pipeline.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// SourceResponse is the wire representation of a lead source.
type SourceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}

func toSourceResponse(s *domain.LeadSourceConfig) SourceResponse {
	return SourceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		IsActive:    s.IsActive,
	}
}

// List handles GET /v1/sources
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	list, err := h.service.ListSources(r.Context(), tc)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	resp := make([]SourceResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toSourceResponse(&list[i]))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// CreateRequest represents the request body for creating a source.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Create handles POST /v1/sources
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source, err := h.service.CreateSource(r.Context(), tc, pipeline.CreateSourceInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toSourceResponse(source))
}

// UpdateRequest represents the request body for a partial source update.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Update handles PATCH /v1/sources/{sourceID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid source id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source, err := h.service.UpdateSource(r.Context(), tc, id, pipeline.UpdateSourceInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toSourceResponse(source))
}

// Delete handles DELETE /v1/sources/{sourceID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid source id")
		return
	}

	if err := h.service.DeleteSource(r.Context(), tc, id); err != nil {
		httputil.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
