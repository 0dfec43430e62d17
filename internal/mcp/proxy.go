package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
)

// maxResponseSize caps the proxy response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// StatusError is returned when the backend answers with a 4xx or 5xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Proxy executes catalog request descriptors against the project-manager backend.
type Proxy struct {
	serverURL  string
	httpClient *http.Client
	logger     *common.Logger
	headers    http.Header
}

// NewProxy creates a proxy targeting serverURL. Headers are added to every request.
func NewProxy(serverURL string, timeout time.Duration, logger *common.Logger, headers http.Header) *Proxy {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Proxy{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		headers:    headers.Clone(),
	}
}

// ServerURL returns the configured server URL.
func (p *Proxy) ServerURL() string {
	return p.serverURL
}

// Get performs a bodiless GET of path on the backend.
func (p *Proxy) Get(ctx context.Context, path string) ([]byte, error) {
	return p.Do(ctx, catalog.Request{Method: http.MethodGet, URL: path})
}

// Do sends req to the backend and returns the response body. A non-nil
// req.Body is sent as JSON.
func (p *Proxy) Do(ctx context.Context, req catalog.Request) ([]byte, error) {
	p.logger.Debug().Str("method", req.Method).Str("path", req.URL).Msg("proxy request")

	var bodyReader io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, p.serverURL+req.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for key, vals := range p.headers {
		for _, v := range vals {
			httpReq.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		p.logger.Error().Str("method", req.Method).Str("path", req.URL).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("proxy request failed")
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	p.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("proxy response")

	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	return body, nil
}

// parseErrorResponse extracts a meaningful error message from an HTTP error
// response. The backend reports errors as {"detail": ...} or {"error": ...}.
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			return &StatusError{StatusCode: statusCode, Message: errResp.Error}
		}
		var detail string
		if len(errResp.Detail) > 0 {
			if json.Unmarshal(errResp.Detail, &detail) != nil {
				detail = string(errResp.Detail)
			}
			return &StatusError{StatusCode: statusCode, Message: detail}
		}
	}
	return &StatusError{StatusCode: statusCode, Message: fmt.Sprintf("server returned %d: %s", statusCode, string(body))}
}
