package mcp

import (
	"context"
	"encoding/json"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionToolName is reserved; a catalog tool with this id is replaced.
const VersionToolName = "get_version"

// VersionTool returns the mcp.Tool definition for the combined get_version tool.
func VersionTool() mcp.Tool {
	return mcp.NewTool(VersionToolName,
		mcp.WithDescription("Get portal and backend version information. Use this to verify connectivity."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// VersionToolHandler reports the portal version and, when reachable, the backend's.
func VersionToolHandler(proxy *Proxy) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]any{
			"portal": config.GetVersionInfo(),
		}

		if body, err := proxy.Get(ctx, "/api/version"); err == nil {
			var backend map[string]any
			if json.Unmarshal(body, &backend) == nil {
				result["backend"] = backend
			}
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
