// Package crm provides the multi-tenant CRM core as a mountable library:
// tenant resolution, role and permission checks, and organization-scoped
// pipeline configuration.
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	core, err := crm.New(crm.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/crm", core.Router())
//	http.ListenAndServe(":8080", r)
package crm

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/tendant/simple-crm-slim/internal/config"
	httpserver "github.com/tendant/simple-crm-slim/internal/http"
	"github.com/tendant/simple-crm-slim/internal/http/middleware"
	"github.com/tendant/simple-crm-slim/pkg/leads"
	"github.com/tendant/simple-crm-slim/pkg/pipeline"
	"github.com/tendant/simple-crm-slim/pkg/repository"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

// Config holds the configuration for the CRM library.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret verifies access tokens issued by the identity service
	// (required, min 32 chars).
	JWTSecret string

	// Logger is the structured logger (default: slog JSON to stdout).
	Logger *slog.Logger
}

// Core is the main CRM instance.
type Core struct {
	config   Config
	db       *sql.DB
	orgsRepo *repository.OrganizationsRepository
	mbrsRepo *repository.MembershipsRepository
	resolver *tenancy.Resolver
	pipeline *pipeline.Service
	leads    *leads.Service
}

// New creates a new CRM instance with the given configuration.
func New(cfg Config) (*Core, error) {
	if cfg.DB == nil {
		return nil, errors.New("crm: DB is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("crm: JWTSecret must be at least 32 characters")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	orgsRepo := repository.NewOrganizationsRepository(cfg.DB)
	mbrsRepo := repository.NewMembershipsRepository(cfg.DB)
	stagesRepo := repository.NewLeadStagesRepository(cfg.DB)
	sourcesRepo := repository.NewLeadSourcesRepository(cfg.DB)
	clientsRepo := repository.NewClientsRepository(cfg.DB)

	return &Core{
		config:   cfg,
		db:       cfg.DB,
		orgsRepo: orgsRepo,
		mbrsRepo: mbrsRepo,
		resolver: tenancy.NewResolver(mbrsRepo),
		pipeline: pipeline.NewService(stagesRepo, sourcesRepo, clientsRepo),
		leads:    leads.NewService(clientsRepo, stagesRepo),
	}, nil
}

// Router returns an http.Handler with all CRM routes registered.
func (c *Core) Router() http.Handler {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Logger:         c.config.Logger,
		JWTSecret:      []byte(c.config.JWTSecret),
		Resolver:       c.resolver,
		Memberships:    c.mbrsRepo,
		Pipeline:       c.pipeline,
		Leads:          c.leads,
		MaxRequestBody: 1 << 20,
		RateLimitConfig: config.RateLimitConfig{
			Enabled:                true,
			ReadRequestsPerMinute:  300,
			WriteRequestsPerMinute: 60,
		},
		SecurityHeaders: config.SecurityHeadersConfig{Enabled: false},
	})
}

// Resolver returns the tenant resolver for advanced usage.
func (c *Core) Resolver() *tenancy.Resolver {
	return c.resolver
}

// Organizations returns the organizations repository. Organizations are
// provisioned by the operator or identity service, not through the
// tenant-scoped HTTP surface, so this is the only way to create or disable
// one.
func (c *Core) Organizations() *repository.OrganizationsRepository {
	return c.orgsRepo
}

// Memberships returns the memberships repository for provisioning users
// into organizations.
func (c *Core) Memberships() *repository.MembershipsRepository {
	return c.mbrsRepo
}

// Pipeline returns the pipeline configuration service.
func (c *Core) Pipeline() *pipeline.Service {
	return c.pipeline
}

// Leads returns the lead records service.
func (c *Core) Leads() *leads.Service {
	return c.leads
}

// AuthMiddleware returns middleware that validates bearer tokens. Use it to
// protect routes outside the CRM router with the same identity:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(core.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (c *Core) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth([]byte(c.config.JWTSecret))
}

// TenantMiddleware returns middleware that resolves the tenant context.
// Must run after AuthMiddleware.
func (c *Core) TenantMiddleware() func(http.Handler) http.Handler {
	return middleware.TenantContext(c.resolver)
}
