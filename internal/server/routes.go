package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Own request counters in Prometheus text format
	if s.recorder != nil {
		mux.Handle("GET /metrics", s.recorder.Handler())
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/server-health", s.app.ServerHealthHandler.ServeHTTP)
	mux.HandleFunc("/api/metrics/summary", s.app.MetricsHandler.ServeHTTP)

	mux.HandleFunc("GET /api/tools", s.app.ToolsHandler.List)
	mux.HandleFunc("GET /api/tools/{id}", s.app.ToolsHandler.Get)
	mux.HandleFunc("POST /api/tools/{id}/preview", s.app.ToolsHandler.Preview)
	mux.HandleFunc("POST /api/tools/{id}/invoke", s.app.ToolsHandler.Invoke)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
