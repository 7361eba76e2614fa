package gemini

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolebrief/backend/models"
)

func TestOutreachPromptEmbedsProfile(t *testing.T) {
	profile := models.NewJobProfile("sess-1")
	profile.Company.Name = "Acme Robotics"
	profile.Requirements.JobTitle = "Staff Engineer"

	prompt, err := outreachPrompt(profile)
	require.NoError(t, err)

	encoded, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.Contains(t, prompt, string(encoded))
	assert.Contains(t, prompt, "outreach.tone")
	assert.Contains(t, prompt, "outreach.key_hook")
	assert.Contains(t, prompt, "outreach.subject")
	assert.Contains(t, prompt, "outreach.body")
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"fields": []}`, `{"fields": []}`},
		{"json fence", "```json\n{\"fields\": []}\n```", `{"fields": []}`},
		{"plain fence", "```\n{\"fields\": []}\n```", `{"fields": []}`},
		{"surrounding whitespace", "  {\"fields\": []}\n", `{"fields": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanJSON(tc.in))
		})
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"summary":`), genai.Text(` "x"}`)}},
		}},
	}
	assert.Equal(t, `{"summary": "x"}`, extractText(resp))

	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))
}
