// Package server wires handlers, middleware and routes, and owns the HTTP
// lifecycle. main.go stays minimal: load config, call New, call Start.
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

	"github.com/mhasan/pinpoint/internal/auth"
	"github.com/mhasan/pinpoint/internal/handler"
	"github.com/mhasan/pinpoint/internal/importer"
	"github.com/mhasan/pinpoint/internal/middleware"
	sqliteRepo "github.com/mhasan/pinpoint/internal/repository/sqlite"
	"github.com/mhasan/pinpoint/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// Google OAuth is optional; with empty credentials the OAuth routes
	// respond 404 and email/password auth still works.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Server bundles the router with the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories, services, handlers, routes. Each layer receives only the
// interfaces it needs.
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

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" && s.config.GoogleClientSecret != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	} else {
		s.logger.Info("Google OAuth not configured, only email/password auth available")
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	placeService := service.NewPlaceService(s.db, s.logger)
	tagService := service.NewTagService(s.db, s.logger)
	collectionService := service.NewCollectionService(s.db, s.logger)
	takeoutImporter := importer.New(s.db, tagService)

	authHandler := handler.NewAuthHandler(authService, google, s.logger)
	placeHandler := handler.NewPlaceHandler(placeService, s.logger)
	tagHandler := handler.NewTagHandler(tagService, s.logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, s.logger)
	importHandler := handler.NewImportHandler(takeoutImporter, s.logger)
	healthHandler := handler.NewHealthHandler(s.db)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/google/login", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Get("/places", placeHandler.HandleSearch)
		r.Post("/places", placeHandler.HandleCreate)
		r.Delete("/places", placeHandler.HandleDeleteAll)
		r.Get("/places/{id}", placeHandler.HandleGet)
		r.Delete("/places/{id}", placeHandler.HandleDelete)
		r.Put("/places/{id}/collection", placeHandler.HandleMove)
		r.Put("/places/{id}/tags/{tagID}", tagHandler.HandleAttach)
		r.Delete("/places/{id}/tags/{tagID}", tagHandler.HandleDetach)

		r.Get("/tags", tagHandler.HandleList)
		r.Post("/tags", tagHandler.HandleCreate)
		r.Delete("/tags/{id}", tagHandler.HandleDelete)

		r.Get("/collections", collectionHandler.HandleList)
		r.Post("/collections", collectionHandler.HandleCreate)
		r.Put("/collections/{id}", collectionHandler.HandleUpdate)
		r.Delete("/collections/{id}", collectionHandler.HandleDelete)

		r.Post("/import/takeout", importHandler.HandleTakeout)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database.
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
