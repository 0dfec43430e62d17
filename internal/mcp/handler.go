package mcp

import (
	"net/http"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/config"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server exposing every catalog tool plus get_version.
func NewServer(name string, cat *catalog.Catalog, proxy *Proxy, logger *common.Logger) *mcpserver.MCPServer {
	mcpSrv := mcpserver.NewMCPServer(
		name,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, proxy, cat)

	// Registered last so it replaces any catalog entry with the same name.
	mcpSrv.AddTool(VersionTool(), VersionToolHandler(proxy))

	logger.Info().
		Int("tools", toolCount).
		Str("api_url", proxy.ServerURL()).
		Msg("MCP server initialized")

	return mcpSrv
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	catalog    *catalog.Catalog
}

// NewHandler creates a stateless streamable-HTTP MCP handler for cat.
func NewHandler(name string, cat *catalog.Catalog, proxy *Proxy, logger *common.Logger) *Handler {
	mcpSrv := NewServer(name, cat, proxy, logger)
	return &Handler{
		server: mcpSrv,
		streamable: mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithStateLess(true),
		),
		catalog: cat,
	}
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// Catalog returns the catalog the handler serves.
func (h *Handler) Catalog() *catalog.Catalog {
	return h.catalog
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
