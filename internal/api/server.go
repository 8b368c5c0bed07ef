package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/amaumene/browsefilms/internal/api/handlers"
	"github.com/amaumene/browsefilms/internal/api/middleware"
	"github.com/amaumene/browsefilms/internal/config"
	"github.com/amaumene/browsefilms/internal/controllers"
	"github.com/amaumene/browsefilms/internal/metrics"
	"github.com/amaumene/browsefilms/internal/session"
	"github.com/amaumene/browsefilms/internal/views"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server       *http.Server
	browse       *controllers.BrowseController
	wishlistCtrl *controllers.WishlistController
	renderer     *views.Renderer
	sessions     *session.Registry
	metrics      *metrics.Metrics
	logger       *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	browse *controllers.BrowseController,
	wishlistCtrl *controllers.WishlistController,
	renderer *views.Renderer,
	sessions *session.Registry,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		browse:       browse,
		wishlistCtrl: wishlistCtrl,
		renderer:     renderer,
		sessions:     sessions,
		metrics:      m,
		logger:       logger,
	}

	router := mux.NewRouter()
	s.setupRoutes(router)

	// request contexts end on shutdown so websocket streams close too
	baseCtx, cancelBase := context.WithCancel(context.Background())

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(router, logger, m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	s.server.RegisterOnShutdown(cancelBase)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(r *mux.Router) {
	// Health check
	r.Handle("/health", handlers.NewHealthHandler(s.logger))

	// Status endpoint
	r.Handle("/status", handlers.NewStatusHandler(s.sessions, s.browse.Catalog(), s.logger))

	// Prometheus
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	// Embedded assets
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", views.Static())).Methods(http.MethodGet, http.MethodHead)

	// Everything below belongs to a browser session
	app := r.PathPrefix("/").Subrouter()
	app.Use(s.sessions.Middleware)

	app.Handle("/", handlers.NewHomeHandler(s.browse, s.renderer, s.logger)).Methods(http.MethodGet)
	app.Handle("/movie/{id}", handlers.NewMovieHandler(s.browse, s.renderer, s.logger)).Methods(http.MethodGet)

	wishlistHandler := handlers.NewWishlistHandler(s.wishlistCtrl, s.renderer, s.logger)
	app.HandleFunc("/wishlist", wishlistHandler.Page).Methods(http.MethodGet)
	app.HandleFunc("/wishlist/toggle", wishlistHandler.Toggle).Methods(http.MethodPost)
	app.HandleFunc("/wishlist/remove/{id}", wishlistHandler.Remove).Methods(http.MethodPost)
	app.HandleFunc("/wishlist/clear", wishlistHandler.Clear).Methods(http.MethodPost)
	app.HandleFunc("/api/wishlist", wishlistHandler.API).Methods(http.MethodGet)

	app.Handle("/ws/wishlist", handlers.NewLiveHandler(s.logger)).Methods(http.MethodGet)
}

// Handler returns the root handler, middleware included
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
