package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

// GetProfileStatusTool reads the current completion checklist
type GetProfileStatusTool struct {
	engine *engine.Engine
}

// NewGetProfileStatusTool creates a new status tool
func NewGetProfileStatusTool(eng *engine.Engine) *GetProfileStatusTool {
	return &GetProfileStatusTool{engine: eng}
}

func (t *GetProfileStatusTool) Name() string {
	return "get_profile_status"
}

func (t *GetProfileStatusTool) Description() string {
	return `Check what the profile still needs: the list of missing required items, the completion percentage,
and whether background company research is still running. Call this to decide what to ask about next,
and before attempting complete_onboarding.`
}

func (t *GetProfileStatusTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
		},
		"required":             []string{"session_id"},
		"additionalProperties": false,
	}
}

// GetProfileStatusInput represents the input for a status read
type GetProfileStatusInput struct {
	SessionID string `json:"session_id"`
}

func (t *GetProfileStatusTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in GetProfileStatusInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, research, err := t.engine.Status(ctx, in.SessionID)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.StatusResponse{
		SessionID: in.SessionID,
		Status:    status,
		Research:  research,
	})
}
