package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Tool represents an MCP tool interface
type Tool interface {
	// Name returns the tool name
	Name() string

	// Description returns the tool description for the agent
	Description() string

	// InputSchema returns the JSON schema for the tool input
	InputSchema() map[string]interface{}

	// Execute runs the tool with the given input
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// dedupeCapacity bounds the per-registry result cache used to absorb agent
// retries of the same tool call.
const dedupeCapacity = 256

// ToolRegistry holds all available tools
type ToolRegistry struct {
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
	calls   *callCache
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*gojsonschema.Schema),
		calls:   newCallCache(dedupeCapacity),
	}
}

// Register adds a tool to the registry and compiles its input schema.
// Registration happens once at startup, before any dispatch.
func (r *ToolRegistry) Register(tool Tool) {
	r.tools[tool.Name()] = tool

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tool.InputSchema()))
	if err != nil {
		log.Printf("[Tools] Failed to compile schema for %s: %v", tool.Name(), err)
		return
	}
	r.schemas[tool.Name()] = schema
}

// Get retrieves a tool by name
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools
func (r *ToolRegistry) List() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// GetToolDefinitions returns tool definitions in MCP format
func (r *ToolRegistry) GetToolDefinitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		def := map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		}
		definitions = append(definitions, def)
	}
	return definitions
}

// Dispatch validates the arguments against the tool's schema and executes the
// tool. When callID is set, a successful result is cached and replayed for
// retries of the same call, so a retried mutation does not apply twice.
// Validation and execution failures are never cached; a retry runs fresh.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, args json.RawMessage, callID string) (json.RawMessage, error) {
	tool, ok := r.Get(name)
	if !ok {
		return NewErrorResult(fmt.Sprintf("unknown tool: %s", name))
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	key := callKey(args, callID)
	if key != "" {
		if cached, hit := r.calls.get(key); hit {
			log.Printf("[Tools] Replaying cached result for %s call %s", name, callID)
			return cached, nil
		}
	}

	if schema, ok := r.schemas[name]; ok {
		if err := validateInput(schema, args); err != nil {
			return NewErrorResult(err.Error())
		}
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		return nil, err
	}

	if key != "" {
		var envelope ToolResult
		if json.Unmarshal(result, &envelope) == nil && envelope.Success {
			r.calls.put(key, result)
		}
	}

	return result, nil
}

func validateInput(schema *gojsonschema.Schema, args json.RawMessage) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return fmt.Errorf("invalid input: %v", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return fmt.Errorf("invalid input: %s", strings.Join(problems, "; "))
	}
	return nil
}

// callKey builds the dedupe key for a tool call. Calls without a call id are
// never deduplicated.
func callKey(args json.RawMessage, callID string) string {
	if callID == "" {
		return ""
	}
	var peek struct {
		SessionID string `json:"session_id"`
	}
	_ = json.Unmarshal(args, &peek)
	return peek.SessionID + ":" + callID
}

// callCache is a bounded FIFO cache of tool results keyed by session and call
// id.
type callCache struct {
	mu      sync.Mutex
	cap     int
	order   []string
	results map[string]json.RawMessage
}

func newCallCache(capacity int) *callCache {
	return &callCache{
		cap:     capacity,
		results: make(map[string]json.RawMessage, capacity),
	}
}

func (c *callCache) get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.results[key]
	return result, ok
}

func (c *callCache) put(key string, result json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.results[key]; exists {
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.results, oldest)
	}
	c.order = append(c.order, key)
	c.results[key] = result
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewSuccessResult creates a successful tool result
func NewSuccessResult(data interface{}) (json.RawMessage, error) {
	result := ToolResult{Success: true}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	result.Data = dataBytes
	return json.Marshal(result)
}

// NewErrorResult creates an error tool result
func NewErrorResult(errMsg string) (json.RawMessage, error) {
	result := ToolResult{
		Success: false,
		Error:   errMsg,
	}
	return json.Marshal(result)
}
