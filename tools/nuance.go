package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

var nuanceCategories = []string{
	models.NuanceCulture, models.NuanceTeam, models.NuanceCompensation,
	models.NuanceProcess, models.NuanceCandidate, models.NuanceOther,
}

// CaptureNuanceTool records a qualitative observation from the conversation
type CaptureNuanceTool struct {
	engine *engine.Engine
}

// NewCaptureNuanceTool creates a new nuance capture tool
func NewCaptureNuanceTool(eng *engine.Engine) *CaptureNuanceTool {
	return &CaptureNuanceTool{engine: eng}
}

func (t *CaptureNuanceTool) Name() string {
	return "capture_nuance"
}

func (t *CaptureNuanceTool) Description() string {
	return `Capture a qualitative detail that does not fit a structured field, e.g. "the founder values written communication".
Nuances are appended as stated and never merged or deduplicated, so capture each observation once.`
}

func (t *CaptureNuanceTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"category": map[string]interface{}{
				"type":        "string",
				"enum":        nuanceCategories,
				"description": "What the observation is about",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The observation, in the recruiter's words",
			},
		},
		"required":             []string{"session_id", "category", "text"},
		"additionalProperties": false,
	}
}

// CaptureNuanceInput represents the input for nuance capture
type CaptureNuanceInput struct {
	SessionID string `json:"session_id"`
	Category  string `json:"category"`
	Text      string `json:"text"`
}

func (t *CaptureNuanceTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in CaptureNuanceInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.CaptureNuance(ctx, in.SessionID, in.Category, in.Text)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Noted that under %s.", in.Category),
		Status:         status,
	})
}
