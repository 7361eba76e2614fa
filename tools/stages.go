package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

// CreateInterviewStageTool appends a stage to the interview process
type CreateInterviewStageTool struct {
	engine *engine.Engine
}

// NewCreateInterviewStageTool creates a new stage creation tool
func NewCreateInterviewStageTool(eng *engine.Engine) *CreateInterviewStageTool {
	return &CreateInterviewStageTool{engine: eng}
}

func (t *CreateInterviewStageTool) Name() string {
	return "create_interview_stage"
}

func (t *CreateInterviewStageTool) Description() string {
	return `Add a stage to the interview process, e.g. "Phone Screen" or "System Design".
New stages are appended in order. Stage names are unique per profile, case-insensitive:
creating a stage whose name already exists replaces it in place, keeping its position.`
}

func (t *CreateInterviewStageTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Stage name, the unique key",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "What happens in this stage",
			},
			"duration_minutes": map[string]interface{}{
				"type":        "integer",
				"minimum":     1,
				"description": "Planned length of the stage",
			},
			"interviewer_role": map[string]interface{}{
				"type":        "string",
				"description": "Who runs it, e.g. hiring manager",
			},
			"actions": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Follow-up actions tied to this stage",
			},
		},
		"required":             []string{"session_id", "name"},
		"additionalProperties": false,
	}
}

// CreateInterviewStageInput represents the input for stage creation
type CreateInterviewStageInput struct {
	SessionID       string   `json:"session_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DurationMinutes *int     `json:"duration_minutes"`
	InterviewerRole string   `json:"interviewer_role"`
	Actions         []string `json:"actions"`
}

func (t *CreateInterviewStageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in CreateInterviewStageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, created, err := t.engine.CreateInterviewStage(ctx, in.SessionID, models.InterviewStage{
		Name:            in.Name,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		InterviewerRole: in.InterviewerRole,
		Actions:         in.Actions,
	})
	if err != nil {
		return NewErrorResult(err.Error())
	}

	ack := fmt.Sprintf("Added interview stage %q.", in.Name)
	if !created {
		ack = fmt.Sprintf("Replaced the existing interview stage %q.", in.Name)
	}
	return NewSuccessResult(models.ToolAck{Acknowledgment: ack, Status: status})
}

// UpdateInterviewStageTool modifies fields of an existing stage
type UpdateInterviewStageTool struct {
	engine *engine.Engine
}

// NewUpdateInterviewStageTool creates a new stage update tool
func NewUpdateInterviewStageTool(eng *engine.Engine) *UpdateInterviewStageTool {
	return &UpdateInterviewStageTool{engine: eng}
}

func (t *UpdateInterviewStageTool) Name() string {
	return "update_interview_stage"
}

func (t *UpdateInterviewStageTool) Description() string {
	return `Change fields of an existing interview stage, looked up by name (case-insensitive).
Pass only the fields to change; omitted fields keep their current value. The stage keeps its position.
Fails if no stage with that name exists. Use create_interview_stage to add a new one.`
}

func (t *UpdateInterviewStageTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the stage to update",
			},
			"description": map[string]interface{}{"type": "string"},
			"duration_minutes": map[string]interface{}{
				"type":    "integer",
				"minimum": 1,
			},
			"interviewer_role": map[string]interface{}{"type": "string"},
			"actions": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required":             []string{"session_id", "name"},
		"additionalProperties": false,
	}
}

// UpdateInterviewStageInput represents the input for a stage update. Pointer
// fields distinguish "not passed" from "set to empty".
type UpdateInterviewStageInput struct {
	SessionID       string   `json:"session_id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration_minutes"`
	InterviewerRole *string  `json:"interviewer_role"`
	Actions         []string `json:"actions"`
}

func (t *UpdateInterviewStageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in UpdateInterviewStageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.UpdateInterviewStage(ctx, in.SessionID, in.Name, engine.StagePatch{
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		InterviewerRole: in.InterviewerRole,
		Actions:         in.Actions,
	})
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Updated interview stage %q.", in.Name),
		Status:         status,
	})
}

// DeleteInterviewStageTool removes a stage by name
type DeleteInterviewStageTool struct {
	engine *engine.Engine
}

// NewDeleteInterviewStageTool creates a new stage deletion tool
func NewDeleteInterviewStageTool(eng *engine.Engine) *DeleteInterviewStageTool {
	return &DeleteInterviewStageTool{engine: eng}
}

func (t *DeleteInterviewStageTool) Name() string {
	return "delete_interview_stage"
}

func (t *DeleteInterviewStageTool) Description() string {
	return `Remove an interview stage by name (case-insensitive). Later stages move up to close the gap.
Deleting a stage that does not exist is a harmless no-op, so retries are safe.`
}

func (t *DeleteInterviewStageTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the stage to remove",
			},
		},
		"required":             []string{"session_id", "name"},
		"additionalProperties": false,
	}
}

// DeleteInterviewStageInput represents the input for stage deletion
type DeleteInterviewStageInput struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

func (t *DeleteInterviewStageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in DeleteInterviewStageInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, existed, err := t.engine.DeleteInterviewStage(ctx, in.SessionID, in.Name)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	ack := fmt.Sprintf("Removed interview stage %q.", in.Name)
	if !existed {
		ack = fmt.Sprintf("There was no interview stage named %q; nothing removed.", in.Name)
	}
	return NewSuccessResult(models.ToolAck{Acknowledgment: ack, Status: status})
}
