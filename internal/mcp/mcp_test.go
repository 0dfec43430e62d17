package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// --- Helpers ---

func testLogger() *common.Logger {
	return common.NewSilentLogger()
}

func testProxy(url string) *Proxy {
	return NewProxy(url, 0, testLogger(), nil)
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}

	return toolsResult.Tools
}

// callTool calls a tool on the MCPServer and returns the result.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcpgo.CallToolResult {
	t.Helper()

	params := map[string]any{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}

	return &toolResult
}

// extractText extracts the text field from an MCP content block.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

// recordedRequest is what the mock backend saw.
type recordedRequest struct {
	Method      string
	Path        string
	RawPath     string
	Query       string
	Body        string
	ContentType string
}

// mockBackend returns a server that records each request and replies with reply.
func mockBackend(t *testing.T, status int, reply string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawPath:     r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			Body:        string(body),
			ContentType: r.Header.Get("Content-Type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func serverFor(t *testing.T, backendURL string, tools ...catalog.Tool) *mcpserver.MCPServer {
	t.Helper()
	cat, err := catalog.New(tools...)
	if err != nil {
		t.Fatalf("invalid test catalog: %v", err)
	}
	return NewServer("test", cat, testProxy(backendURL), testLogger())
}

var getTaskTool = catalog.Tool{
	ID:     "get_task",
	Label:  "Get task",
	Method: "GET",
	Path:   "/api/v1/projects/{project_id}/tasks/{task_number}",
	Params: []catalog.Param{
		{Name: "project_id", Kind: catalog.KindString, Required: true, In: catalog.InPath, Description: "Project identifier."},
		{Name: "task_number", Kind: catalog.KindNumber, Required: true, In: catalog.InPath},
	},
}

var updateTaskTool = catalog.Tool{
	ID:     "update_task",
	Label:  "Update task",
	Method: "PUT",
	Path:   "/api/v1/projects/{project_id}/tasks/{task_number}",
	Params: []catalog.Param{
		{Name: "project_id", Kind: catalog.KindString, Required: true, In: catalog.InPath},
		{Name: "task_number", Kind: catalog.KindNumber, Required: true, In: catalog.InPath},
		{Name: "task_data", Kind: catalog.KindJSONObject, Required: true, In: catalog.InBody},
	},
}

var listTasksTool = catalog.Tool{
	ID:     "list_tasks",
	Label:  "List tasks",
	Method: "GET",
	Path:   "/api/v1/projects/{project_id}/tasks",
	Params: []catalog.Param{
		{Name: "project_id", Kind: catalog.KindString, Required: true, In: catalog.InPath},
		{Name: "status", Kind: catalog.KindString, In: catalog.InQuery},
		{Name: "limit", Kind: catalog.KindNumber, In: catalog.InQuery},
		{Name: "is_archived", Kind: catalog.KindBoolean, In: catalog.InQuery},
	},
}

var createTaskTool = catalog.Tool{
	ID:     "create_task",
	Label:  "Create task",
	Method: "POST",
	Path:   "/api/v1/projects/{project_id}/tasks",
	Params: []catalog.Param{
		{Name: "project_id", Kind: catalog.KindString, Required: true, In: catalog.InPath},
		{Name: "title", Kind: catalog.KindString, Required: true, In: catalog.InBody},
		{Name: "urgent", Kind: catalog.KindBoolean, In: catalog.InBody},
	},
}

var deleteTaskTool = catalog.Tool{
	ID:     "delete_task",
	Label:  "Delete task",
	Method: "DELETE",
	Path:   "/api/v1/projects/{project_id}/tasks/{task_number}",
	Params: []catalog.Param{
		{Name: "project_id", Kind: catalog.KindString, Required: true, In: catalog.InPath},
		{Name: "task_number", Kind: catalog.KindNumber, Required: true, In: catalog.InPath},
	},
}

// --- BuildMCPTool ---

func TestBuildMCPTool_NoParams(t *testing.T) {
	tool := BuildMCPTool(catalog.Tool{ID: "get_health", Label: "Backend health", Method: "GET", Path: "/health"})

	if tool.Name != "get_health" {
		t.Errorf("expected name 'get_health', got %q", tool.Name)
	}
	if tool.Description != "Backend health" {
		t.Errorf("expected label as fallback description, got %q", tool.Description)
	}
	if len(tool.InputSchema.Properties) != 0 {
		t.Errorf("expected no properties, got %v", tool.InputSchema.Properties)
	}
}

func TestBuildMCPTool_Schema(t *testing.T) {
	tool := BuildMCPTool(updateTaskTool)

	props := tool.InputSchema.Properties
	for name, wantType := range map[string]string{
		"project_id":  "string",
		"task_number": "number",
		"task_data":   "string",
	} {
		prop, ok := props[name].(map[string]any)
		if !ok {
			t.Errorf("expected %s in schema properties", name)
			continue
		}
		if prop["type"] != wantType {
			t.Errorf("%s: expected type %s, got %v", name, wantType, prop["type"])
		}
	}

	required := map[string]bool{}
	for _, r := range tool.InputSchema.Required {
		required[r] = true
	}
	for _, name := range []string{"project_id", "task_number", "task_data"} {
		if !required[name] {
			t.Errorf("expected %s to be required", name)
		}
	}
}

func TestBuildMCPTool_BooleanAndOptional(t *testing.T) {
	tool := BuildMCPTool(listTasksTool)

	prop, ok := tool.InputSchema.Properties["is_archived"].(map[string]any)
	if !ok || prop["type"] != "boolean" {
		t.Errorf("expected boolean is_archived, got %v", tool.InputSchema.Properties["is_archived"])
	}
	for _, r := range tool.InputSchema.Required {
		if r == "status" || r == "is_archived" || r == "limit" {
			t.Errorf("expected %s to be optional", r)
		}
	}
}

func TestBuildMCPTool_Annotations(t *testing.T) {
	get := BuildMCPTool(getTaskTool)
	if get.Annotations.ReadOnlyHint == nil || !*get.Annotations.ReadOnlyHint {
		t.Error("expected GET tool to be read-only")
	}
	if get.Annotations.Title != "Get task" {
		t.Errorf("expected title annotation, got %q", get.Annotations.Title)
	}

	del := BuildMCPTool(deleteTaskTool)
	if del.Annotations.DestructiveHint == nil || !*del.Annotations.DestructiveHint {
		t.Error("expected DELETE tool to be destructive")
	}
}

// --- Registration ---

func TestNewServer_RegistersCatalogAndVersion(t *testing.T) {
	s := serverFor(t, "http://127.0.0.1:1", getTaskTool, listTasksTool)

	tools := listTools(t, s)
	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_task", "list_tasks", VersionToolName} {
		if !names[want] {
			t.Errorf("expected tool %s to be registered", want)
		}
	}
	if len(tools) != 3 {
		t.Errorf("expected 3 tools, got %d", len(tools))
	}
}

func TestNewServer_DefaultCatalog(t *testing.T) {
	s := NewServer("test", catalog.Default(), testProxy("http://127.0.0.1:1"), testLogger())

	tools := listTools(t, s)
	if len(tools) != catalog.Default().Len()+1 {
		t.Errorf("expected %d tools, got %d", catalog.Default().Len()+1, len(tools))
	}
	for _, tool := range tools {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
	}
}

// --- GenericToolHandler ---

func TestGenericHandler_PathParams(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusOK, `{"task_number":5,"title":"Ship"}`)
	s := serverFor(t, backend.URL, getTaskTool)

	result := callTool(t, s, "get_task", map[string]any{"project_id": "p1", "task_number": 5})

	if result.IsError {
		t.Fatalf("expected non-error result, got: %s", extractText(t, result.Content[0]))
	}
	if rec.Method != "GET" || rec.Path != "/api/v1/projects/p1/tasks/5" {
		t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
	}
	if rec.Body != "" {
		t.Errorf("expected no body for GET, got %q", rec.Body)
	}
	if got := extractText(t, result.Content[0]); got != `{"task_number":5,"title":"Ship"}` {
		t.Errorf("expected backend body passed through, got %s", got)
	}
}

func TestGenericHandler_PathParamEncoded(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusOK, `{}`)
	s := serverFor(t, backend.URL, getTaskTool)

	callTool(t, s, "get_task", map[string]any{"project_id": "a/b c", "task_number": 1})

	if rec.RawPath != "/api/v1/projects/a%2Fb%20c/tasks/1" {
		t.Errorf("expected escaped path, got %s", rec.RawPath)
	}
}

func TestGenericHandler_QueryParams(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusOK, `[]`)
	s := serverFor(t, backend.URL, listTasksTool)

	callTool(t, s, "list_tasks", map[string]any{
		"project_id":  "p1",
		"is_archived": true,
		"status":      "In Progress",
	})

	if rec.Query != "status=In+Progress&is_archived=true" {
		t.Errorf("unexpected query %q", rec.Query)
	}
}

func TestGenericHandler_JSONBody(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusOK, `{"ok":true}`)
	s := serverFor(t, backend.URL, updateTaskTool)

	result := callTool(t, s, "update_task", map[string]any{
		"project_id":  "p1",
		"task_number": 2,
		"task_data":   `{"status":"Done"}`,
	})

	if result.IsError {
		t.Fatalf("expected non-error result, got: %s", extractText(t, result.Content[0]))
	}
	if rec.Method != "PUT" {
		t.Errorf("expected PUT, got %s", rec.Method)
	}
	if rec.Body != `{"status":"Done"}` {
		t.Errorf("expected decoded object as body, got %s", rec.Body)
	}
	if rec.ContentType != "application/json" {
		t.Errorf("expected JSON content type, got %s", rec.ContentType)
	}
}

func TestGenericHandler_DiscreteBody(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusCreated, `{"task_number":9}`)
	s := serverFor(t, backend.URL, createTaskTool)

	result := callTool(t, s, "create_task", map[string]any{"project_id": "p1", "title": "Write docs", "urgent": true})

	if result.IsError {
		t.Fatalf("expected non-error result, got: %s", extractText(t, result.Content[0]))
	}
	if rec.Method != "POST" || rec.Path != "/api/v1/projects/p1/tasks" {
		t.Errorf("unexpected request %s %s", rec.Method, rec.Path)
	}
	if rec.Body != `{"title":"Write docs","urgent":true}` {
		t.Errorf("unexpected body %s", rec.Body)
	}
}

func TestGenericHandler_DeleteEmptyResponse(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusNoContent, ``)
	s := serverFor(t, backend.URL, deleteTaskTool)

	result := callTool(t, s, "delete_task", map[string]any{"project_id": "p1", "task_number": 3})

	if result.IsError {
		t.Fatalf("expected non-error result, got: %s", extractText(t, result.Content[0]))
	}
	if rec.Method != "DELETE" {
		t.Errorf("expected DELETE, got %s", rec.Method)
	}
	if got := extractText(t, result.Content[0]); got != `{"status":"ok"}` {
		t.Errorf("expected ok placeholder for empty body, got %s", got)
	}
}

func TestGenericHandler_MissingRequiredPathParam(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()
	s := serverFor(t, backend.URL, getTaskTool)

	result := callTool(t, s, "get_task", map[string]any{"task_number": 5})

	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := extractText(t, result.Content[0]); !strings.Contains(text, "project_id parameter is required") {
		t.Errorf("expected missing project_id message, got %s", text)
	}
	if called {
		t.Error("backend must not be called when a required parameter is missing")
	}
}

func TestGenericHandler_MalformedJSONBody(t *testing.T) {
	backend, rec := mockBackend(t, http.StatusOK, `{}`)
	s := serverFor(t, backend.URL, updateTaskTool)

	result := callTool(t, s, "update_task", map[string]any{"project_id": "p1", "task_number": 2, "task_data": "{not valid json"})

	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := extractText(t, result.Content[0]); !strings.Contains(text, "task_data must be a JSON object") {
		t.Errorf("unexpected message %s", text)
	}
	if rec.Method != "" {
		t.Error("backend must not be called for malformed JSON")
	}
}

func TestGenericHandler_ServerError(t *testing.T) {
	backend, _ := mockBackend(t, http.StatusNotFound, `{"detail":"Task not found"}`)
	s := serverFor(t, backend.URL, getTaskTool)

	result := callTool(t, s, "get_task", map[string]any{"project_id": "p1", "task_number": 404})

	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := extractText(t, result.Content[0]); text != "Error: Task not found" {
		t.Errorf("expected backend detail, got %s", text)
	}
}

// --- Proxy ---

func TestProxy_ForwardsHeaders(t *testing.T) {
	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	headers := http.Header{}
	headers.Set("X-API-Key", "secret")
	p := NewProxy(backend.URL+"/", 0, testLogger(), headers)
	headers.Set("X-API-Key", "changed")

	if _, err := p.Get(t.Context(), "/health"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Get("X-API-Key") != "secret" {
		t.Errorf("expected configured header, got %q", got.Get("X-API-Key"))
	}
	if got.Get("Content-Type") != "" {
		t.Errorf("expected no content type on bodiless request, got %q", got.Get("Content-Type"))
	}
	if p.ServerURL() != backend.URL {
		t.Errorf("expected trailing slash trimmed, got %s", p.ServerURL())
	}
}

func TestProxy_StatusError(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, `{"error":"bad project"}`, "bad project"},
		{http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, `[{"msg":"field required"}]`},
		{http.StatusBadGateway, `upstream down`, "server returned 502: upstream down"},
	}
	for _, tt := range tests {
		backend, _ := mockBackend(t, tt.status, tt.body)
		_, err := testProxy(backend.URL).Do(t.Context(), catalog.Request{Method: "POST", URL: "/x", Body: map[string]any{"a": 1}})

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Errorf("%d: expected StatusError, got %v", tt.status, err)
			continue
		}
		if statusErr.StatusCode != tt.status {
			t.Errorf("expected status %d, got %d", tt.status, statusErr.StatusCode)
		}
		if statusErr.Message != tt.want {
			t.Errorf("expected message %q, got %q", tt.want, statusErr.Message)
		}
	}
}

func TestProxy_ServerDown(t *testing.T) {
	_, err := testProxy("http://127.0.0.1:1").Get(t.Context(), "/health")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Error("transport failure must not be reported as a StatusError")
	}
}

func TestProxy_CancelledContext(t *testing.T) {
	backend, _ := mockBackend(t, http.StatusOK, `{}`)
	ctx, cancel := contextWithCancel(t)
	cancel()

	if _, err := testProxy(backend.URL).Get(ctx, "/health"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

// --- Version tool ---

func TestVersionToolHandler_Combined(t *testing.T) {
	backend, _ := mockBackend(t, http.StatusOK, `{"version":"2.1.0","build":"20261001"}`)

	result, err := VersionToolHandler(testProxy(backend.URL))(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var combined map[string]map[string]any
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &combined); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if _, ok := combined["portal"]; !ok {
		t.Error("missing portal in response")
	}
	if combined["backend"]["version"] != "2.1.0" {
		t.Errorf("expected backend version 2.1.0, got %v", combined["backend"])
	}
}

func TestVersionToolHandler_ServerUnreachable(t *testing.T) {
	result, err := VersionToolHandler(testProxy("http://127.0.0.1:1"))(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("version tool should degrade gracefully")
	}
	text := extractText(t, result.Content[0])
	if !strings.Contains(text, `"portal"`) || strings.Contains(text, `"backend"`) {
		t.Errorf("expected portal-only version info, got %s", text)
	}
}

func TestErrorResult(t *testing.T) {
	result := errorResult("boom")
	if !result.IsError {
		t.Error("expected IsError")
	}
	if extractText(t, result.Content[0]) != "boom" {
		t.Errorf("unexpected content %v", result.Content)
	}
}
