package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/research"
)

// MarkFieldCompleteTool confirms a low-confidence value as correct
type MarkFieldCompleteTool struct {
	engine *engine.Engine
}

// NewMarkFieldCompleteTool creates a new field confirmation tool
func NewMarkFieldCompleteTool(eng *engine.Engine) *MarkFieldCompleteTool {
	return &MarkFieldCompleteTool{engine: eng}
}

func (t *MarkFieldCompleteTool) Name() string {
	return "mark_field_complete"
}

func (t *MarkFieldCompleteTool) Description() string {
	return `Confirm that a field's current value is correct after the recruiter verified it out loud.
Use this when a value came from research or a pasted document at low confidence and the recruiter confirmed it.
The value itself does not change; its confidence is raised so it no longer needs confirmation.`
}

func (t *MarkFieldCompleteTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"field": map[string]interface{}{
				"type":        "string",
				"description": "Field to confirm, e.g. \"salary_min\" or \"company.industry\"",
			},
		},
		"required":             []string{"session_id", "field"},
		"additionalProperties": false,
	}
}

// MarkFieldCompleteInput represents the input for field confirmation
type MarkFieldCompleteInput struct {
	SessionID string `json:"session_id"`
	Field     string `json:"field"`
}

func (t *MarkFieldCompleteTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in MarkFieldCompleteInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.MarkFieldComplete(ctx, in.SessionID, in.Field)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Confirmed %s.", in.Field),
		Status:         status,
	})
}

// CompleteOnboardingTool finalizes the session once every checklist item is
// covered
type CompleteOnboardingTool struct {
	engine  *engine.Engine
	manager *research.Manager
}

// NewCompleteOnboardingTool creates a new completion tool. The manager is
// optional; when present, a successful completion kicks off an outreach
// draft in the background.
func NewCompleteOnboardingTool(eng *engine.Engine, manager *research.Manager) *CompleteOnboardingTool {
	return &CompleteOnboardingTool{engine: eng, manager: manager}
}

func (t *CompleteOnboardingTool) Name() string {
	return "complete_onboarding"
}

func (t *CompleteOnboardingTool) Description() string {
	return `Finish the onboarding session. Only call this after get_profile_status shows nothing missing
and the recruiter agreed to wrap up. Refused while required items are missing; the error lists what remains.
Completion is final and is announced to every connected client.`
}

func (t *CompleteOnboardingTool) InputSchema() map[string]interface{} {
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

// CompleteOnboardingInput represents the input for onboarding completion
type CompleteOnboardingInput struct {
	SessionID string `json:"session_id"`
}

func (t *CompleteOnboardingTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in CompleteOnboardingInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, completed, err := t.engine.CompleteOnboarding(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, engine.ErrNotComplete) {
			return NewErrorResult(fmt.Sprintf("Not yet: %v. Keep going and try again once everything is covered.", err))
		}
		return NewErrorResult(err.Error())
	}

	if !completed {
		return NewSuccessResult(models.ToolAck{
			Acknowledgment: "Onboarding was already complete.",
			Status:         status,
		})
	}

	ack := "Onboarding complete. The profile is ready for handoff."
	if t.manager != nil {
		t.manager.KickoffOutreach(in.SessionID)
		ack = "Onboarding complete. The profile is ready for handoff, and a draft outreach message is being prepared."
	}
	return NewSuccessResult(models.ToolAck{Acknowledgment: ack, Status: status})
}
