package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
)

// BackendGetter fetches a path from the project-manager backend.
type BackendGetter interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// ServerHealthHandler checks the upstream project-manager backend.
type ServerHealthHandler struct {
	logger  *common.Logger
	backend BackendGetter
	path    string
}

// NewServerHealthHandler creates a handler that probes path on the backend.
func NewServerHealthHandler(logger *common.Logger, backend BackendGetter, path string) *ServerHealthHandler {
	if path == "" {
		path = "/health"
	}
	return &ServerHealthHandler{logger: logger, backend: backend, path: path}
}

// ServeHTTP handles GET /api/server-health.
func (h *ServerHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.backend.Get(ctx, h.path); err != nil {
		if h.logger != nil {
			h.logger.Warn().Err(err).Str("path", h.path).Msg("backend health check failed")
		}
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
