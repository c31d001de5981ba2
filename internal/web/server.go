// Package web provides the HTTP server and handlers for the product browser.
//
// The shell is deliberately thin: every endpoint decodes its payload, calls
// one operation on the view orchestrator and writes the resulting render
// model. All browsing and edit semantics live in internal/inventory.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/Karthik-guddanti/product-client/internal/config"
	"github.com/Karthik-guddanti/product-client/internal/inventory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the product browsing application.
type Server struct {
	view   *inventory.View
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance over the given view orchestrator.
func NewServer(view *inventory.View, cfg *config.Config) *Server {
	s := &Server{
		view:   view,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	timeout := 60 * time.Second
	if s.cfg != nil && s.cfg.Server.RequestTimeout > 0 {
		timeout = s.cfg.Server.RequestTimeout
	}
	s.router.Use(middleware.Timeout(timeout))

	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Render model
		r.Get("/view", s.handleView)
		r.Post("/view/reload", s.handleReload)

		// Browsing state: criteria and sort reset the page, page is clamped
		r.Put("/view/criteria", s.handleSetCriteria)
		r.Put("/view/sort", s.handleSetSort)
		r.Put("/view/page", s.handleSetPage)
		r.Post("/view/reset", s.handleResetFilters)

		// Product mutations
		r.Post("/products", s.handleCreateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		// Edit session transitions
		r.Post("/products/{id}/edit", s.handleBeginEdit)
		r.Post("/products/{id}/cancel", s.handleCancelEdit)
		r.Post("/products/{id}/draft", s.handleUpdateDraft)
		r.Post("/products/{id}/save", s.handleSaveEdit)

		// CSV bulk import
		r.Post("/upload", s.handleUpload)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
