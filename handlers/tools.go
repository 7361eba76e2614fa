package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rolebrief/backend/tools"
)

// ToolsHandler exposes tool introspection for agent platforms
type ToolsHandler struct {
	registry *tools.ToolRegistry
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(registry *tools.ToolRegistry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

// GetTools returns available MCP tools
// @Summary List available tools
// @Description Get a list of all available MCP tools for AI agents
// @Tags Tools
// @Produce json
// @Success 200 {object} map[string]interface{} "List of tools"
// @Router /tools [get]
func (h *ToolsHandler) GetTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tools": h.registry.GetToolDefinitions(),
	})
}
