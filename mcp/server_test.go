package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/hub"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/storage"
	"github.com/rolebrief/backend/tools"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *MCPError       `json:"error"`
}

func newTestServer(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	h := hub.New(16)
	t.Cleanup(h.Close)
	eng := engine.New(storage.NewMemoryStore(), h)

	registry := tools.NewToolRegistry()
	registry.Register(tools.NewUpdateCompanyFieldTool(eng))
	registry.Register(tools.NewUpdateRequirementsTool(eng))
	registry.Register(tools.NewCreateTraitTool(eng))
	registry.Register(tools.NewUpdateTraitTool(eng))
	registry.Register(tools.NewDeleteTraitTool(eng))
	registry.Register(tools.NewCreateInterviewStageTool(eng))
	registry.Register(tools.NewUpdateInterviewStageTool(eng))
	registry.Register(tools.NewDeleteInterviewStageTool(eng))
	registry.Register(tools.NewCaptureNuanceTool(eng))
	registry.Register(tools.NewMarkFieldCompleteTool(eng))
	registry.Register(tools.NewCompleteOnboardingTool(eng, nil))
	registry.Register(tools.NewGetProfileStatusTool(eng))

	router := gin.New()
	NewServer(registry).RegisterRoutes(router.Group("/api"))
	return router, eng
}

func createSession(t *testing.T, eng *engine.Engine) {
	t.Helper()
	_, _, err := eng.CreateSession(context.Background(), models.CreateSessionRequest{SessionID: "s1"})
	require.NoError(t, err)
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeRPC(t *testing.T, w *httptest.ResponseRecorder) rpcResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var resp rpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

// toolText digs the tool's JSON payload out of the MCP content wrapper.
func toolText(t *testing.T, result json.RawMessage) (tools.ToolResult, bool) {
	t.Helper()
	var call ToolCallResult
	require.NoError(t, json.Unmarshal(result, &call))
	require.NotEmpty(t, call.Content)

	var tr tools.ToolResult
	require.NoError(t, json.Unmarshal([]byte(call.Content[0].Text), &tr))
	return tr, call.IsError
}

func TestInitialize(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	resp := decodeRPC(t, w)
	require.Nil(t, resp.Error)

	var result InitializeResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, protocolVersion, result.ProtocolVersion)
	assert.Equal(t, "rolebrief-backend", result.ServerInfo.Name)
	assert.Contains(t, result.Capabilities, "tools")
}

func TestInitializedNotification(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp", `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestToolsList(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp", `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	resp := decodeRPC(t, w)
	require.Nil(t, resp.Error)

	var result ToolsListResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 12)

	names := make(map[string]bool, len(result.Tools))
	for _, def := range result.Tools {
		names[def.Name] = true
		assert.NotEmpty(t, def.Description)
		assert.NotNil(t, def.InputSchema["properties"])
	}
	assert.True(t, names["complete_onboarding"])
	assert.True(t, names["get_profile_status"])
}

func TestToolsCall(t *testing.T) {
	router, eng := newTestServer(t)
	createSession(t, eng)

	w := post(router, "/api/mcp",
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"capture_nuance","arguments":{"session_id":"s1","category":"culture","text":"async-first"}}}`)
	resp := decodeRPC(t, w)
	require.Nil(t, resp.Error)

	tr, isError := toolText(t, resp.Result)
	assert.False(t, isError)
	assert.True(t, tr.Success)

	p, err := eng.GetProfile(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, p.Nuances, 1)
	assert.Equal(t, "async-first", p.Nuances[0].Text)
}

func TestToolsCallValidationFailureIsInBand(t *testing.T) {
	router, eng := newTestServer(t)
	createSession(t, eng)

	w := post(router, "/api/mcp",
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"capture_nuance","arguments":{"session_id":"s1","category":"vibes","text":"x"}}}`)
	resp := decodeRPC(t, w)
	require.Nil(t, resp.Error, "business failures ride inside the tool result, not as protocol errors")

	tr, _ := toolText(t, resp.Result)
	assert.False(t, tr.Success)
	assert.NotEmpty(t, tr.Error)
}

func TestToolsCallRetriedRequestIDAppliesOnce(t *testing.T) {
	router, eng := newTestServer(t)
	createSession(t, eng)

	body := `{"jsonrpc":"2.0","id":"req-77","method":"tools/call","params":{"name":"capture_nuance","arguments":{"session_id":"s1","category":"team","text":"two pizzas"}}}`
	decodeRPC(t, post(router, "/api/mcp", body))
	decodeRPC(t, post(router, "/api/mcp", body))

	p, err := eng.GetProfile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, p.Nuances, 1, "the retried request must not append twice")
}

func TestMethodNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp", `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`)
	resp := decodeRPC(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestParseError(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp", `{not json`)
	resp := decodeRPC(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32700, resp.Error.Code)
}

func TestDirectToolsCallEndpoint(t *testing.T) {
	router, eng := newTestServer(t)
	createSession(t, eng)

	w := post(router, "/api/mcp/tools/call",
		`{"name":"get_profile_status","arguments":{"session_id":"s1"},"call_id":"call_1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var call ToolCallResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &call))
	assert.False(t, call.IsError)
	require.NotEmpty(t, call.Content)
	assert.Contains(t, call.Content[0].Text, "completion_pct")
}

func TestDirectToolsListEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := post(router, "/api/mcp/tools/list", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result ToolsListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Tools, 12)
}
