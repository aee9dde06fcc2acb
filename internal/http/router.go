package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-crm-slim/internal/config"
	"github.com/tendant/simple-crm-slim/internal/http/features/clients"
	"github.com/tendant/simple-crm-slim/internal/http/features/orgs"
	"github.com/tendant/simple-crm-slim/internal/http/features/sources"
	"github.com/tendant/simple-crm-slim/internal/http/features/stages"
	"github.com/tendant/simple-crm-slim/internal/http/middleware"
	"github.com/tendant/simple-crm-slim/internal/httputil"
	"github.com/tendant/simple-crm-slim/pkg/domain"
	"github.com/tendant/simple-crm-slim/pkg/leads"
	"github.com/tendant/simple-crm-slim/pkg/pipeline"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	JWTSecret       []byte
	Resolver        *tenancy.Resolver
	Memberships     tenancy.MembershipStore
	Pipeline        *pipeline.Service
	Leads           *leads.Service
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	MaxRequestBody  int64
}

// NewRouter creates a new HTTP router with all routes registered. Every
// mutating route passes context validation, then its declared role or
// permission requirement, before reaching the service it guards.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBody))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	orgsHandler := orgs.NewHandler(cfg.Logger, cfg.Memberships)
	stagesHandler := stages.NewHandler(cfg.Logger, cfg.Pipeline)
	sourcesHandler := sources.NewHandler(cfg.Logger, cfg.Pipeline)
	clientsHandler := clients.NewHandler(cfg.Logger, cfg.Leads)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		// Membership listing needs no resolved tenant; it is the
		// selection-required retry path.
		r.With(rateLimiters["read"]).Get("/v1/organizations", orgsHandler.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(middleware.TenantContext(cfg.Resolver))

			r.Group(func(r chi.Router) {
				r.Use(rateLimiters["read"])
				r.Get("/v1/organizations/current", orgsHandler.Current)
				r.Get("/v1/stages", stagesHandler.List)
				r.Get("/v1/sources", sourcesHandler.List)
				r.Get("/v1/clients", clientsHandler.List)
			})

			// Pipeline configuration: manager role plus the pipeline
			// management permission.
			r.Group(func(r chi.Router) {
				r.Use(rateLimiters["write"])
				r.Use(middleware.RequireRole(domain.RoleManager))
				r.Use(middleware.RequirePermissions(domain.PermPipelineManage))
				r.Post("/v1/stages", stagesHandler.Create)
				r.Patch("/v1/stages/{stageID}", stagesHandler.Update)
				r.Delete("/v1/stages/{stageID}", stagesHandler.Delete)
				r.Put("/v1/stages/reorder", stagesHandler.Reorder)
				r.Post("/v1/sources", sourcesHandler.Create)
				r.Patch("/v1/sources/{sourceID}", sourcesHandler.Update)
				r.Delete("/v1/sources/{sourceID}", sourcesHandler.Delete)
			})

			// Lead records: members may create, reassignment needs the
			// management permission.
			r.Group(func(r chi.Router) {
				r.Use(rateLimiters["write"])
				r.Use(middleware.RequireRole(domain.RoleMember))
				r.With(middleware.RequirePermissions(domain.PermLeadsCreate)).
					Post("/v1/clients", clientsHandler.Create)
				r.With(middleware.RequirePermissions(domain.PermLeadsManage)).
					Post("/v1/clients/reassign-stage", clientsHandler.ReassignStage)
			})
		})
	})

	return r
}
