package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
)

// UpdateRequirementsTool records one or more hard requirements of the role
type UpdateRequirementsTool struct {
	engine *engine.Engine
}

// NewUpdateRequirementsTool creates a new requirements tool
func NewUpdateRequirementsTool(eng *engine.Engine) *UpdateRequirementsTool {
	return &UpdateRequirementsTool{engine: eng}
}

func (t *UpdateRequirementsTool) Name() string {
	return "update_requirements"
}

func (t *UpdateRequirementsTool) Description() string {
	return `Record one or more hard requirements of the role: title, location, experience, salary, visa sponsorship, equity.
Pass only the fields the recruiter actually stated. All passed fields are validated together;
an invalid value rejects the whole call and nothing is applied.`
}

func (t *UpdateRequirementsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Onboarding session identifier",
			},
			"fields": map[string]interface{}{
				"type":        "object",
				"description": "Requirement fields to set, keyed by field name",
				"properties": map[string]interface{}{
					"job_title": map[string]interface{}{"type": "string"},
					"location_type": map[string]interface{}{
						"type": "string",
						"enum": []string{models.LocationRemote, models.LocationHybrid, models.LocationOnsite},
					},
					"experience_min":   map[string]interface{}{"type": "integer", "minimum": 0},
					"experience_max":   map[string]interface{}{"type": "integer", "minimum": 0},
					"salary_min":       map[string]interface{}{"type": "integer", "minimum": 0},
					"salary_max":       map[string]interface{}{"type": "integer", "minimum": 0},
					"currency":         map[string]interface{}{"type": "string"},
					"visa_sponsorship": map[string]interface{}{"type": "boolean"},
					"equity_offered":   map[string]interface{}{"type": "boolean"},
				},
				"additionalProperties": false,
				"minProperties":        1,
			},
		},
		"required":             []string{"session_id", "fields"},
		"additionalProperties": false,
	}
}

// UpdateRequirementsInput represents the input for a requirements update
type UpdateRequirementsInput struct {
	SessionID string                 `json:"session_id"`
	Fields    map[string]interface{} `json:"fields"`
}

func (t *UpdateRequirementsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in UpdateRequirementsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	status, err := t.engine.UpdateRequirements(ctx, in.SessionID, in.Fields)
	if err != nil {
		return NewErrorResult(err.Error())
	}

	names := make([]string, 0, len(in.Fields))
	for k := range in.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	return NewSuccessResult(models.ToolAck{
		Acknowledgment: fmt.Sprintf("Updated %s.", strings.Join(names, ", ")),
		Status:         status,
	})
}
