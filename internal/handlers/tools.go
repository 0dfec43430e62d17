package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/mcp"
)

// maxValuesBody bounds the JSON parameter object accepted by preview and invoke.
const maxValuesBody = 1 << 20

// Invoker executes a built request against the backend. *mcp.Proxy satisfies it.
type Invoker interface {
	Do(ctx context.Context, req catalog.Request) ([]byte, error)
}

// ToolsHandler exposes the tool catalog over HTTP.
type ToolsHandler struct {
	logger  *common.Logger
	catalog *catalog.Catalog
	invoker Invoker
}

// NewToolsHandler creates a tools handler. invoker may be nil, in which case
// Invoke answers 503.
func NewToolsHandler(logger *common.Logger, cat *catalog.Catalog, invoker Invoker) *ToolsHandler {
	return &ToolsHandler{logger: logger, catalog: cat, invoker: invoker}
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	tools := h.catalog.All()
	WriteJSON(w, http.StatusOK, map[string]any{
		"tools": tools,
		"count": len(tools),
	})
}

// Get handles GET /api/tools/{id}.
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	t, err := h.catalog.Lookup(r.PathValue("id"))
	if err != nil {
		writeBuildError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// Preview handles POST /api/tools/{id}/preview: it builds the request
// descriptor for the posted values without contacting the backend.
func (h *ToolsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	req, ok := h.build(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, req)
}

// Invoke handles POST /api/tools/{id}/invoke: it builds the request and
// forwards it, relaying the backend's response body.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	if h.invoker == nil {
		WriteError(w, http.StatusServiceUnavailable, "backend not configured")
		return
	}
	req, ok := h.build(w, r)
	if !ok {
		return
	}

	body, err := h.invoker.Do(r.Context(), req)
	if err != nil {
		var statusErr *mcp.StatusError
		if errors.As(err, &statusErr) {
			WriteError(w, statusErr.StatusCode, statusErr.Message)
			return
		}
		if h.logger != nil {
			h.logger.Error().Err(err).Str("tool", r.PathValue("id")).Str("url", req.URL).Msg("tool invocation failed")
		}
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	if len(bytes.TrimSpace(body)) == 0 {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// build decodes the posted values and runs the request builder. On failure
// the error response has already been written.
func (h *ToolsHandler) build(w http.ResponseWriter, r *http.Request) (catalog.Request, bool) {
	values, err := decodeValues(http.MaxBytesReader(w, r.Body, maxValuesBody))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return catalog.Request{}, false
	}
	req, err := h.catalog.Build(r.PathValue("id"), values)
	if err != nil {
		writeBuildError(w, err)
		return catalog.Request{}, false
	}
	return req, true
}

// decodeValues reads a JSON object of parameter values. An empty body is no values.
// Numbers are kept as json.Number so integers survive unchanged.
func decodeValues(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}
