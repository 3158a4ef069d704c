package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/vire-dashboard/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	dh := s.app.DashboardHandler

	// UI page routes (HTML templates)
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, dh.ServePage, dh.HandleFormAction)
	})
	mux.HandleFunc("/dashboard/action", dh.HandleFormAction)

	// Static files (CSS)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/backend-health", s.app.BackendHealthHandler.ServeHTTP)
	mux.HandleFunc("/api/dashboard", dh.HandleState)
	mux.HandleFunc("/api/dashboard/actions", dh.HandleAction)
	mux.HandleFunc("/api/dashboard/thoughts/export", dh.HandleExport)

	// Everything else: root redirect, dev proxy, or 404
	mux.HandleFunc("/", s.handleFallback)

	return mux
}

// handleFallback redirects the root to the dashboard and hands backend-bound
// paths to the dev proxy when it is enabled.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	if p := s.app.Proxy; p != nil {
		if _, ok := p.Match(r.URL.Path); ok {
			p.ServeHTTP(w, r)
			return
		}
	}

	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.handleNotFound(w, r)
		return
	}
	http.NotFound(w, r)
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}
