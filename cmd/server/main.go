package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pebec/beepa-tracker/internal/beepa"
	"github.com/pebec/beepa-tracker/internal/config"
	"github.com/pebec/beepa-tracker/internal/database"
	"github.com/pebec/beepa-tracker/internal/handler"
	"github.com/pebec/beepa-tracker/internal/middleware"
	"github.com/pebec/beepa-tracker/internal/repository"
	"github.com/pebec/beepa-tracker/internal/service"
	"github.com/pebec/beepa-tracker/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The reform framework template is static data; a bad edit to it should
	// stop the server at startup, not surface on the first MDA creation.
	if err := beepa.Validate(); err != nil {
		slog.Error("invalid reform framework template", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT validation for identity-provider tokens
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	mdaRepo := repository.NewMDARepository(db)
	reformRepo := repository.NewReformRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize services
	accessService := service.NewAccessService(userRepo, settingsRepo, logger)
	adminUsersService := service.NewAdminUsersService(userRepo, logger)
	performanceService := service.NewPerformanceService(mdaRepo, reformRepo, activityRepo)
	activityService := service.NewActivityService(activityRepo, reformRepo, auditRepo, logger)
	mdaService := service.NewMDAService(db, mdaRepo, auditRepo, logger)
	seederService := service.NewSeederService(mdaService, mdaRepo, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accessService)
	performanceHandler := handler.NewPerformanceHandler(performanceService)
	activityHandler := handler.NewActivityHandler(activityService)
	mdaHandler := handler.NewMDAHandler(mdaService)
	adminUsersHandler := handler.NewAdminUsersHandler(adminUsersService, accessService, seederService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Identity resolution middleware. The Identity layer verifies the bearer
	// token; WithUser resolves it to an account and capability.
	identityMiddleware := middleware.Identity(jwtService)
	userMiddleware := middleware.WithUser(accessService)

	signedIn := func(h http.HandlerFunc) http.Handler {
		return identityMiddleware(userMiddleware(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return identityMiddleware(userMiddleware(middleware.RequireAdmin(h)))
	}

	// Auth endpoints. Me and the onboarding flows run with only the verified
	// identity; a user record may not exist yet.
	mux.Handle("GET /v1/auth/me", identityMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /v1/auth/register", identityMiddleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /v1/auth/bootstrap", identityMiddleware(http.HandlerFunc(authHandler.Bootstrap)))

	// Performance read endpoints
	mux.Handle("GET /v1/performance/mdas/{mdaId}", signedIn(performanceHandler.GetMDA))
	mux.Handle("GET /v1/performance/reforms/{reformId}", signedIn(performanceHandler.GetReform))
	mux.Handle("GET /v1/performance/rankings", signedIn(performanceHandler.Rankings))
	mux.Handle("GET /v1/performance/stats", signedIn(performanceHandler.Stats))

	// Reform detail with activities in display order
	mux.Handle("GET /v1/reforms/{reformId}/activities", signedIn(performanceHandler.GetReform))

	// Activity completion endpoints
	mux.Handle("PATCH /v1/activities/{activityId}", signedIn(activityHandler.Update))
	mux.Handle("PATCH /v1/activities", signedIn(activityHandler.BatchUpdate))

	// MDA endpoints; mutations check edit capability in the service layer
	mux.Handle("GET /v1/mdas", signedIn(mdaHandler.List))
	mux.Handle("GET /v1/mdas/{mdaId}", signedIn(mdaHandler.Get))
	mux.Handle("POST /v1/mdas", adminOnly(mdaHandler.Create))
	mux.Handle("PATCH /v1/mdas/{mdaId}", adminOnly(mdaHandler.Update))
	mux.Handle("DELETE /v1/mdas/{mdaId}", adminOnly(mdaHandler.Delete))

	// Admin user management endpoints - requires admin role
	mux.Handle("GET /v1/admin/users", adminOnly(adminUsersHandler.List))
	mux.Handle("POST /v1/admin/users/invite", adminOnly(adminUsersHandler.Invite))
	mux.Handle("PATCH /v1/admin/users/{userId}/role", adminOnly(adminUsersHandler.UpdateRole))
	mux.Handle("PATCH /v1/admin/users/{userId}/status", adminOnly(adminUsersHandler.UpdateStatus))
	mux.Handle("PATCH /v1/admin/users/{userId}/mdas", adminOnly(adminUsersHandler.UpdateAssignedMDAs))
	mux.Handle("DELETE /v1/admin/users/{userId}", adminOnly(adminUsersHandler.Delete))

	// Admin access code and seeding endpoints
	mux.Handle("POST /v1/admin/access-code", adminOnly(adminUsersHandler.RegenerateAccessCode))
	mux.Handle("POST /v1/admin/seed", adminOnly(adminUsersHandler.Seed))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
