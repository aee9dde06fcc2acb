package stages

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

// Handler handles pipeline stage HTTP requests.
type Handler struct {
	logger  *slog.Logger
	service *pipeline.Service
}

// NewHandler creates a new stages handler.
func NewHandler(logger *slog.Logger, service *pipeline.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// StageResponse is the wire representation of a lead stage.
type StageResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	Order       int       `json:"order"`
}

func toStageResponse(s *domain.LeadStage) StageResponse {
	return StageResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Color:       s.Color,
		Order:       s.SortOrder,
	}
}

// List handles GET /v1/stages
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	stages, err := h.service.ListStages(r.Context(), tc)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	resp := make([]StageResponse, 0, len(stages))
	for i := range stages {
		resp = append(resp, toStageResponse(&stages[i]))
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// CreateRequest represents the request body for creating a stage.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Order       *int    `json:"order"`
}

// Create handles POST /v1/stages
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stage, err := h.service.CreateStage(r.Context(), tc, pipeline.CreateStageInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		SortOrder:   req.Order,
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toStageResponse(stage))
}

// UpdateRequest represents the request body for a partial stage update.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Order       *int    `json:"order"`
}

// Update handles PATCH /v1/stages/{stageID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "stageID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stage, err := h.service.UpdateStage(r.Context(), tc, id, pipeline.UpdateStageInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		SortOrder:   req.Order,
	})
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toStageResponse(stage))
}

// Delete handles DELETE /v1/stages/{stageID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "stageID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	if err := h.service.DeleteStage(r.Context(), tc, id); err != nil {
		httputil.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderRequest represents the request body for a stage reorder batch.
type ReorderRequest struct {
	Stages []domain.StagePosition `json:"stages"`
}

// Reorder handles PUT /v1/stages/reorder
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	tc, _ := middleware.GetTenantContext(r.Context())

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ReorderStages(r.Context(), tc, req.Stages); err != nil {
		httputil.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
