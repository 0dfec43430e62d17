package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers one MCP tool per catalog entry and returns the count.
func RegisterTools(s *server.MCPServer, p *Proxy, cat *catalog.Catalog) int {
	tools := cat.All()
	for _, t := range tools {
		s.AddTool(BuildMCPTool(t), GenericToolHandler(p, t))
	}
	return len(tools)
}

// BuildMCPTool converts a catalog tool into an mcp.Tool with a matching input schema.
func BuildMCPTool(t catalog.Tool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(toolDescription(t)),
		mcp.WithTitleAnnotation(t.Label),
		mcp.WithReadOnlyHintAnnotation(t.Method == "GET"),
		mcp.WithDestructiveHintAnnotation(t.Method == "DELETE"),
	}
	for _, p := range t.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(t.ID, opts...)
}

func toolDescription(t catalog.Tool) string {
	if t.Description != "" {
		return t.Description
	}
	return t.Label
}

// buildParamOption maps a catalog parameter to the matching mcp-go property.
func buildParamOption(p catalog.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	desc := p.Description
	if p.Kind == catalog.KindJSONObject {
		desc = "JSON-encoded object. " + desc
	}
	if desc != "" {
		opts = append(opts, mcp.Description(desc))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Kind {
	case catalog.KindNumber:
		return mcp.WithNumber(p.Name, opts...)
	case catalog.KindBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	default:
		// string and json-object-string are both passed as strings
		return mcp.WithString(p.Name, opts...)
	}
}

// GenericToolHandler builds the request for t from the call arguments and
// sends it through the proxy. Build and backend failures are returned as
// error results so the client sees the message.
func GenericToolHandler(p *Proxy, t catalog.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := catalog.BuildTool(t, r.GetArguments())
		if err != nil {
			return errorResult(describeBuildError(err)), nil
		}

		body, err := p.Do(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(body) == 0 {
			body = []byte(`{"status":"ok"}`)
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(body))}}, nil
	}
}

// describeBuildError phrases request-construction failures for an MCP client.
func describeBuildError(err error) string {
	var missing *catalog.MissingRequiredParameterError
	var malformed *catalog.MalformedJSONBodyError
	var badType *catalog.InvalidParameterTypeError
	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("Error: %s parameter is required", missing.Param)
	case errors.As(err, &malformed):
		return fmt.Sprintf("Error: %s must be a JSON object: %v", malformed.Param, malformed.Err)
	case errors.As(err, &badType):
		return fmt.Sprintf("Error: %s must be a %s", badType.Param, badType.Kind)
	}
	return fmt.Sprintf("Error: %v", err)
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
