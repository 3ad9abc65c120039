// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/app"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/config"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/database"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/handler"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/metrics"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/reference"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/repository"
	"github.com/Shivanand-hulikatti/kursverwaltung/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	// ── 2. Optional audit journal on PostgreSQL ──────────────────────────
	var journal service.Journal
	if cfg.JournalEnabled() {
		pool, err := database.NewPool(ctx, cfg.DBDSN, logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			logger.Fatal("migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
		_ = migrator.Close()

		journal = repository.NewJournalRepository(pool)
		logger.Info("journal enabled")
	} else {
		logger.Info("DB_DSN not set, journal disabled")
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	client := repository.NewClient(cfg.RecordsBaseURL, cfg.RecordsAPIKey, nil, m, logger)
	stores := service.Stores{
		Instructors:  repository.NewRecords[model.InstructorFields](client, cfg.AppIDs[model.EntityInstructors]),
		Participants: repository.NewRecords[model.ParticipantFields](client, cfg.AppIDs[model.EntityParticipants]),
		Rooms:        repository.NewRecords[model.RoomFields](client, cfg.AppIDs[model.EntityRooms]),
		Courses:      repository.NewRecords[model.CourseFields](client, cfg.AppIDs[model.EntityCourses]),
		Enrollments:  repository.NewRecords[model.EnrollmentFields](client, cfg.AppIDs[model.EntityEnrollments]),
	}
	codec := reference.NewCodec(client.BaseURL(), cfg.AppIDs)
	dashboard := service.NewDashboard(stores, codec, journal, logger)

	dashboardHandler, err := handler.NewDashboardHandler(dashboard, logger)
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	// Initial load runs once in the background; the page shows the loading
	// view until it completes.
	go func() {
		if err := dashboard.Load(context.Background()); err != nil {
			logger.Error("initial load failed", zap.Error(err))
		}
	}()

	// ── 4. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger(logger, m))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", m.Handler())

	protect := csrf.Protect(cfg.CSRFKey,
		csrf.Secure(cfg.IsProduction()),
		csrf.Path("/"),
	)
	r.Group(func(r chi.Router) {
		if !cfg.IsProduction() {
			r.Use(plaintext)
		}
		r.Use(protect)
		dashboardHandler.Routes(r)
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logger.Info("server listening", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

// plaintext marks requests as served over HTTP so the CSRF origin check
// does not demand TLS during local development.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
