// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root" — the one place where the whole dependency
// chain is assembled:
//
//	sqlite.DB → services (user, meal, summary) → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete *sqlite.DB), handlers get services, and
// nothing below the handlers knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/daily-diet/internal/handler"
	"github.com/sakif/daily-diet/internal/middleware"
	sqliteRepo "github.com/sakif/daily-diet/internal/repository/sqlite"
	"github.com/sakif/daily-diet/internal/service"
	"github.com/sakif/daily-diet/internal/session"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port   int
	DBPath string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and wires the full dependency graph.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()

	return s, nil
}

// Router exposes the configured router — tests mount it on httptest.Server
// without going through Start's listen/shutdown machinery.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	POST   /api/users        → register, issues the session cookie
//	GET    /api/users        → list users
//	GET    /api/meals        → ALL meals, unscoped (admin/debug — see below)
//	GET    /api/meals/{id}   → one meal by UUID
//	--- session required below ---
//	GET    /api/users/meals  → caller's meals
//	POST   /api/meals        → record a meal
//	PUT    /api/meals/{id}   → patch a meal (owner only)
//	DELETE /api/meals/{id}   → delete a meal (owner only)
//	GET    /api/summary      → totals + longest in-diet streak
//
// MIDDLEWARE ORDER MATTERS: RequestID first (so the logger can read it),
// Recoverer before anything that can panic, our Logger last so it times
// the real work.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The dependency chain: *sqlite.DB satisfies all three repository
	// interfaces, so it is handed to each service directly.
	userService := service.NewUserService(s.db.Users(), s.logger)
	mealService := service.NewMealService(s.db, s.logger)
	summaryService := service.NewSummaryService(s.db, s.db, s.logger)

	userHandler := handler.NewUserHandler(userService, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public surface. GET /meals is intentionally unscoped — it returns
		// every user's meals and exists as an admin/debug affordance, kept
		// with the original API's behaviour rather than silently scoped.
		r.Post("/users", userHandler.HandleCreate)
		r.Get("/users", userHandler.HandleList)
		r.Get("/meals", mealHandler.HandleListAll)
		r.Get("/meals/{id}", mealHandler.HandleGetByID)

		// User-scoped surface: the access gate resolves the session cookie
		// before any of these handlers run.
		r.Group(func(r chi.Router) {
			r.Use(session.Require(userService, s.logger))

			r.Get("/users/meals", mealHandler.HandleListMine)
			r.Post("/meals", mealHandler.HandleCreate)
			r.Put("/meals/{id}", mealHandler.HandleUpdate)
			r.Delete("/meals/{id}", mealHandler.HandleDelete)
			r.Get("/summary", summaryHandler.HandleSummary)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
