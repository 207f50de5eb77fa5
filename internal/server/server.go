// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It opens the store, builds the
// services and handlers on top of it, and decides which URL patterns map to
// which handler and which middleware runs where.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → sqlite.DB → services → handlers → chi routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/idea-board/internal/auth"
	"github.com/sakif/idea-board/internal/config"
	"github.com/sakif/idea-board/internal/handler"
	"github.com/sakif/idea-board/internal/middleware"
	sqliteRepo "github.com/sakif/idea-board/internal/repository/sqlite"
	"github.com/sakif/idea-board/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection. Start closes it on shutdown;
// callers that never call Start (tests) call Close.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService
	oauth  handler.OAuthProvider
}

// Option customises a Server before its routes are built.
type Option func(*Server)

// WithOAuthProvider replaces the Google provider built from config. Tests
// use it to run the login callback against a fake.
func WithOAuthProvider(p handler.OAuthProvider) Option {
	return func(s *Server) { s.oauth = p }
}

// New opens the database named in cfg and wires every route.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	// === CREATE DATABASE ===
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}

	if cfg.Auth.GoogleEnabled() {
		s.oauth = auth.NewGoogleProvider(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleCallbackURL)
	} else {
		logger.Warn("Google OAuth credentials not set; login is disabled")
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET        /healthz                  → liveness + store ping
//	GET        /metrics                  → Prometheus
//	GET        /auth/google              → start Google login
//	GET        /auth/google/callback     → finish Google login
//	GET, POST  /auth/logout              → clear session
//	GET        /api/user                 → current user or null (optional auth)
//	*          /api/ideas..., /api/tasks → idea board (auth required)
//	GET        /api/backup               → export (auth required)
//	POST       /api/restore              → restore (auth required)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so every later log line and Sentry event carries the
// id. Recoverer sits inside the logger so a recovered panic is still logged
// as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics())
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigins))

	// === SERVICES ===
	ideaService := service.NewIdeaService(s.db, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)
	backupService := service.NewBackupService(s.db, s.logger)
	authService := service.NewAuthService(s.db, s.tokens, s.logger)

	// === HANDLERS ===
	ideaHandler := handler.NewIdeaHandler(ideaService, taskService, s.logger)
	backupHandler := handler.NewBackupHandler(backupService, s.logger)
	authHandler := handler.NewAuthHandler(s.oauth, authService, handler.AuthHandlerConfig{
		SessionMaxAge: int(s.tokens.TTL().Seconds()),
		SecureCookies: s.config.Auth.SecureCookies,
		LoginRedirect: s.config.Auth.LoginRedirect,
	}, s.logger)

	// === OPERATIONAL ROUTES ===
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// === AUTH ROUTES ===
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/google", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
		r.Get("/logout", authHandler.HandleLogout)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// === API ROUTES ===
	s.router.Route("/api", func(r chi.Router) {
		r.With(auth.OptionalAuth(s.tokens)).Get("/user", authHandler.HandleCurrentUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.tokens))

			ideaHandler.Routes(r)
			r.Get("/backup", backupHandler.HandleExport)
			r.Post("/restore", backupHandler.HandleRestore)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}

// Handler returns the root handler. With Sentry configured it is wrapped so
// panics and request data reach Sentry.
func (s *Server) Handler() http.Handler {
	if s.config.Sentry.DSN == "" {
		return s.router
	}
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(s.router)
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully:
//  1. Stop accepting new connections
//  2. Wait up to server.shutdown_timeout for in-flight requests
//  3. Close the database (flushes the WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Server.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
