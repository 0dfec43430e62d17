package handlers

import (
	"net/http"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
)

// HealthHandler reports portal liveness and the size of the loaded catalog.
type HealthHandler struct {
	logger  *common.Logger
	catalog *catalog.Catalog
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{logger: logger, catalog: cat}
}

// ServeHTTP handles GET /api/health. It does not contact the backend; see
// ServerHealthHandler for that.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	body := map[string]any{"status": "ok"}
	if h.catalog != nil {
		body["tools"] = h.catalog.Len()
	}
	WriteJSON(w, http.StatusOK, body)
}
