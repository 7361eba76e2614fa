package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

var priorityValues = []string{models.PriorityMustHave, models.PriorityNiceToHave}

// CreateTraitTool adds a candidate-evaluation trait to the profile
type CreateTraitTool struct {
	engine *engine.Engine
}

// NewCreateTraitTool creates a new trait creation tool
func NewCreateTraitTool(eng *engine.Engine) *CreateTraitTool {
	return &CreateTraitTool{engine: eng}
}

func (t *CreateTraitTool) Name() string {
	return "create_trait"
}

func (t *CreateTraitTool) Description() string {
	return `Add a trait candidates will be evaluated against, e.g. "Distributed Systems" or "Startup mindset".
Trait names are unique per profile, case-insensitive: creating a trait whose name already exists replaces it.`
}

func (t *CreateTraitTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Trait name, the unique key",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "What this trait means for this role",
			},
			"priority": map[string]interface{}{
				"type": "string",
				"enum": priorityValues,
			},
			"signals": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Positive indicators to look for",
			},
			"anti_signals": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Red flags that count against the trait",
			},
		},
		"required":             []string{"session_id", "name", "description", "priority"},
		"additionalProperties": false,
	}
}

// CreateTraitInput represents the input for trait creation
type CreateTraitInput struct {
	SessionID   string   `json:"session_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Signals     []string `json:"signals"`
	AntiSignals []string `json:"anti_signals"`
}

func (t *CreateTraitTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in CreateTraitInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, created, err := t.engine.CreateTrait(ctx, in.SessionID, models.Trait{
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		Signals:     in.Signals,
		AntiSignals: in.AntiSignals,
	})
	if err != nil {
		return NewErrorResult(err.Error())
	}

	ack := fmt.Sprintf("Added trait %q.", in.Name)
	if !created {
		ack = fmt.Sprintf("Replaced the existing trait %q.", in.Name)
	}
	return NewSuccessResult(models.ToolAck{Acknowledgment: ack, Status: status})
}

// UpdateTraitTool modifies fields of an existing trait
type UpdateTraitTool struct {
	engine *engine.Engine
}

// NewUpdateTraitTool creates a new trait update tool
func NewUpdateTraitTool(eng *engine.Engine) *UpdateTraitTool {
	return &UpdateTraitTool{engine: eng}
}

func (t *UpdateTraitTool) Name() string {
	return "update_trait"
}

func (t *UpdateTraitTool) Description() string {
	return `Change fields of an existing trait, looked up by name (case-insensitive).
Pass only the fields to change; omitted fields keep their current value.
Fails if no trait with that name exists. Use create_trait to add a new one.`
}

func (t *UpdateTraitTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the trait to update",
			},
			"description": map[string]interface{}{"type": "string"},
			"priority": map[string]interface{}{
				"type": "string",
				"enum": priorityValues,
			},
			"signals": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"anti_signals": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required":             []string{"session_id", "name"},
		"additionalProperties": false,
	}
}

// UpdateTraitInput represents the input for a trait update. Pointer fields
// distinguish "not passed" from "set to empty".
type UpdateTraitInput struct {
	SessionID   string   `json:"session_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Priority    *string  `json:"priority"`
	Signals     []string `json:"signals"`
	AntiSignals []string `json:"anti_signals"`
}

func (t *UpdateTraitTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in UpdateTraitInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.UpdateTrait(ctx, in.SessionID, in.Name, engine.TraitPatch{
		Description: in.Description,
		Priority:    in.Priority,
		Signals:     in.Signals,
		AntiSignals: in.AntiSignals,
	})
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Updated trait %q.", in.Name),
		Status:         status,
	})
}

// DeleteTraitTool removes a trait by name
type DeleteTraitTool struct {
	engine *engine.Engine
}

// NewDeleteTraitTool creates a new trait deletion tool
func NewDeleteTraitTool(eng *engine.Engine) *DeleteTraitTool {
	return &DeleteTraitTool{engine: eng}
}

func (t *DeleteTraitTool) Name() string {
	return "delete_trait"
}

func (t *DeleteTraitTool) Description() string {
	return `Remove a trait by name (case-insensitive).
Deleting a trait that does not exist is a harmless no-op, so retries are safe.`
}

func (t *DeleteTraitTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the trait to remove",
			},
		},
		"required":             []string{"session_id", "name"},
		"additionalProperties": false,
	}
}

// DeleteTraitInput represents the input for trait deletion
type DeleteTraitInput struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

func (t *DeleteTraitTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in DeleteTraitInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, existed, err := t.engine.DeleteTrait(ctx, in.SessionID, in.Name)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	ack := fmt.Sprintf("Removed trait %q.", in.Name)
	if !existed {
		ack = fmt.Sprintf("There was no trait named %q; nothing removed.", in.Name)
	}
	return NewSuccessResult(models.ToolAck{Acknowledgment: ack, Status: status})
}
