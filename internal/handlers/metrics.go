package handlers

import (
	"net/http"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/dashboard"
)

// SnapshotSource provides the latest metrics aggregate.
type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

// MetricsSummaryHandler serves the per-endpoint request and error totals.
type MetricsSummaryHandler struct {
	logger *common.Logger
	source SnapshotSource
}

// NewMetricsSummaryHandler creates a new metrics summary handler.
func NewMetricsSummaryHandler(logger *common.Logger, source SnapshotSource) *MetricsSummaryHandler {
	return &MetricsSummaryHandler{logger: logger, source: source}
}

// ServeHTTP handles GET /api/metrics/summary. A stale snapshot is still
// served with 200; the stale flag and last error tell the caller.
func (h *MetricsSummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	if h.source == nil {
		WriteError(w, http.StatusServiceUnavailable, "metrics polling disabled")
		return
	}
	WriteJSON(w, http.StatusOK, h.source.Snapshot())
}
