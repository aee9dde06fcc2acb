package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-crm-slim/internal/config"
	httpserver "github.com/tendant/simple-crm-slim/internal/http"
	"github.com/tendant/simple-crm-slim/pkg/leads"
	"github.com/tendant/simple-crm-slim/pkg/pipeline"
	"github.com/tendant/simple-crm-slim/pkg/repository"
	"github.com/tendant/simple-crm-slim/pkg/tenancy"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Initialize repositories
	membershipsRepo := repository.NewMembershipsRepository(db)
	stagesRepo := repository.NewLeadStagesRepository(db)
	sourcesRepo := repository.NewLeadSourcesRepository(db)
	clientsRepo := repository.NewClientsRepository(db)

	// Initialize services
	resolver := tenancy.NewResolver(membershipsRepo)
	pipelineService := pipeline.NewService(stagesRepo, sourcesRepo, clientsRepo)
	leadsService := leads.NewService(clientsRepo, stagesRepo)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		JWTSecret:       []byte(cfg.JWTSecret),
		Resolver:        resolver,
		Memberships:     membershipsRepo,
		Pipeline:        pipelineService,
		Leads:           leadsService,
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		MaxRequestBody:  cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
