// Package server wires configuration, storage, services, and handlers into
// a chi router and owns the HTTP server lifecycle. It is the composition
// root: every dependency in the process is assembled in New, and main.go
// stays a thin entry point.
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

	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/config"
	"github.com/withlumeo/lumeo/internal/handler"
	"github.com/withlumeo/lumeo/internal/middleware"
	sqliteRepo "github.com/withlumeo/lumeo/internal/repository/sqlite"
	"github.com/withlumeo/lumeo/internal/service"
	"github.com/withlumeo/lumeo/internal/tenant"
)

// Server holds the router and the resources it owns. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, domain services, handlers, and routes. Each layer only
// receives what it needs; handlers never touch the database directly.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and registers all route handlers.
//
// Middleware order matters: RequestID and RealIP run first so every later
// stage (including the logger) sees them, Recoverer catches panics from
// anything below it, and the tenant resolver runs before routing so
// subdomain-addressed requests carry their tenant in context.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	resolver := tenant.NewResolver(s.config.RootDomain)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	portfolioService := service.NewPortfolioService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, s.logger)
	siteHandler := handler.NewSiteHandler(portfolioService, "https://"+s.config.RootDomain, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	if s.config.IsProduction() {
		s.router.Use(middleware.Canonical(s.config.RootDomain))
	}
	s.router.Use(resolver.Middleware)

	s.router.Get("/health", siteHandler.HandleHealth)
	s.router.Get("/sitemap.xml", siteHandler.HandleSitemap)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/portfolio/public", portfolioHandler.HandleListPublic)
		r.Get("/portfolio/public/subdomain", portfolioHandler.HandleGetBySubdomain)

		// Routes below require a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Delete("/auth/user", authHandler.HandleDeleteUser)
			r.Get("/portfolio/me", portfolioHandler.HandleGetMine)
			r.Put("/portfolio/me", portfolioHandler.HandleUpdateMine)
			r.Put("/portfolio/me/subdomain", portfolioHandler.HandleUpdateSubdomain)
			r.Put("/portfolio/me/theme", portfolioHandler.HandleUpdateTheme)
		})
	})

	// In production the server also fronts the built SPA; any path that is
	// not an API or site route falls through to the static handler, which
	// serves index.html for client-side routes.
	if s.config.IsProduction() {
		s.router.NotFound(handler.NewSPAHandler(s.config.StaticDir).ServeHTTP)
	}

	return nil
}

// Router exposes the configured router, mainly for tests that drive the
// full middleware and routing stack without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until it fails or a shutdown signal arrives.
// On SIGINT/SIGTERM in-flight requests get 30 seconds to finish, then the
// database connection is closed to flush the WAL and release the file lock.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
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
			slog.String("root_domain", s.config.RootDomain),
			slog.String("env", s.config.AppEnv),
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
