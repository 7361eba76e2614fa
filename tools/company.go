package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

// UpdateCompanyFieldTool records a single company detail stated in the
// conversation
type UpdateCompanyFieldTool struct {
	engine *engine.Engine
}

// NewUpdateCompanyFieldTool creates a new company field tool
func NewUpdateCompanyFieldTool(eng *engine.Engine) *UpdateCompanyFieldTool {
	return &UpdateCompanyFieldTool{engine: eng}
}

func (t *UpdateCompanyFieldTool) Name() string {
	return "update_company_field"
}

func (t *UpdateCompanyFieldTool) Description() string {
	return `Record one company detail the recruiter stated, e.g. the company name, industry or funding stage.
Use this when the recruiter corrects or confirms something about the company itself.
Conversation input always wins over background research.`
}

func (t *UpdateCompanyFieldTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"field": map[string]interface{}{
				"type":        "string",
				"enum":        models.CompanyFieldNames,
				"description": "Which company field to set",
			},
			"value": map[string]interface{}{
				"description": "The value the recruiter stated. Strings for most fields; culture, tech_stack and recent_news accept a list of strings.",
			},
		},
		"required":             []string{"session_id", "field", "value"},
		"additionalProperties": false,
	}
}

// UpdateCompanyFieldInput represents the input for a company field update
type UpdateCompanyFieldInput struct {
	SessionID string      `json:"session_id"`
	Field     string      `json:"field"`
	Value     interface{} `json:"value"`
}

func (t *UpdateCompanyFieldTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in UpdateCompanyFieldInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.UpdateCompanyField(ctx, in.SessionID, in.Field, in.Value)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Recorded the company %s.", in.Field),
		Status:         status,
	})
}
