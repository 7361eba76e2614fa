package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/rolebrief/backend/config"
	"github.com/rolebrief/backend/models"
)

// Client wraps the Vertex AI Gemini client
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
	modelName string
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)

	// Configure model parameters
	model.SetTemperature(0.2) // Lower temperature for more consistent outputs
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(8192)

	return &Client{
		client:    client,
		model:     model,
		projectID: cfg.ProjectID,
		location:  cfg.Location,
		modelName: cfg.GeminiModel,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// ResearchCompany distills fetched web content into company profile fields
// with per-field confidence scores.
func (c *Client) ResearchCompany(ctx context.Context, companyName, website, pageText string) (*models.ProviderReport, error) {
	// Truncate page content if too long
	maxLen := 50000
	if len(pageText) > maxLen {
		pageText = pageText[:maxLen]
	}

	prompt := fmt.Sprintf(`Research this company from the fetched website content below.
Return a JSON object with the following structure:

{
  "summary": "2-3 sentence overview of the company",
  "fields": [
    {"field": "company.industry", "value": "...", "confidence": 0.9},
    {"field": "company.funding_stage", "value": "seed|series_a|series_b|series_c|public|bootstrapped", "confidence": 0.7},
    {"field": "company.team_size", "value": "e.g. 10-50", "confidence": 0.6},
    {"field": "company.mission", "value": "one sentence mission", "confidence": 0.8},
    {"field": "company.culture", "value": ["value1", "value2"], "confidence": 0.6},
    {"field": "company.tech_stack", "value": ["tech1", "tech2"], "confidence": 0.7},
    {"field": "company.recent_news", "value": ["news item 1"], "confidence": 0.5}
  ]
}

IMPORTANT for confidence scores:
- 0.9-1.0: stated explicitly in the content
- 0.6-0.8: strongly implied but not stated outright
- 0.3-0.5: inferred or uncertain
- Omit a field entirely rather than guessing below 0.3

Only use field names from the list above. Skip fields the content says nothing about.

COMPANY: %s
WEBSITE: %s

WEBSITE CONTENT:
%s

Return ONLY the JSON object, no markdown formatting, no explanation.`, companyName, website, pageText)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	text := extractText(resp)
	text = cleanJSON(text)

	var report models.ProviderReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		log.Printf("Failed to parse research response: %s", text)
		return nil, fmt.Errorf("failed to parse research JSON: %w", err)
	}

	log.Printf("[Gemini] Researched company '%s': %d fields", companyName, len(report.Fields))
	return &report, nil
}

// ExtractJobProfile extracts structured profile fields from a pasted job
// description.
func (c *Client) ExtractJobProfile(ctx context.Context, documentText string) (*models.ProviderReport, error) {
	maxLen := 50000
	if len(documentText) > maxLen {
		documentText = documentText[:maxLen]
	}

	prompt := fmt.Sprintf(`Extract structured hiring information from this job description.
Return a JSON object with the following structure:

{
  "summary": "1-2 sentence overview of the role",
  "fields": [
    {"field": "requirements.job_title", "value": "...", "confidence": 0.9},
    {"field": "requirements.location_type", "value": "remote|hybrid|onsite", "confidence": 0.8},
    {"field": "requirements.experience_min", "value": 5, "confidence": 0.8},
    {"field": "requirements.experience_max", "value": 10, "confidence": 0.6},
    {"field": "requirements.salary_min", "value": 180000, "confidence": 0.9},
    {"field": "requirements.salary_max", "value": 230000, "confidence": 0.9},
    {"field": "requirements.currency", "value": "USD", "confidence": 0.9},
    {"field": "requirements.visa_sponsorship", "value": true, "confidence": 0.7},
    {"field": "requirements.equity_offered", "value": true, "confidence": 0.7},
    {"field": "company.name", "value": "...", "confidence": 0.9},
    {"field": "company.tech_stack", "value": ["tech1", "tech2"], "confidence": 0.8},
    {"field": "traits", "confidence": 0.7, "value": [
      {"name": "Trait name", "description": "what it means for this role", "priority": "must_have|nice_to_have",
       "signals": ["positive indicator"], "anti_signals": ["negative indicator"]}
    ]},
    {"field": "interview_stages", "confidence": 0.6, "value": [
      {"name": "Stage name", "description": "...", "duration_minutes": 45, "interviewer_role": "..."}
    ]},
    {"field": "nuances", "confidence": 0.6, "value": [
      {"category": "culture|team|compensation|process|candidate|other", "text": "qualitative detail worth remembering"}
    ]}
  ]
}

IMPORTANT for confidence scores:
- 0.9-1.0: stated explicitly in the text
- 0.6-0.8: strongly implied
- 0.3-0.5: inferred
- Omit fields the text says nothing about; never invent numbers

Salary values must be plain integers in the posting's currency, no separators.
Experience values are whole years. visa_sponsorship and equity_offered are
booleans only when the text actually addresses them.

JOB DESCRIPTION:
%s

Return ONLY the JSON object, no markdown formatting, no explanation.`, documentText)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	text := extractText(resp)
	text = cleanJSON(text)

	var report models.ProviderReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		log.Printf("Failed to parse extraction response: %s", text)
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	log.Printf("[Gemini] Extracted job profile: %d fields", len(report.Fields))
	return &report, nil
}

// DraftOutreach writes a candidate outreach draft grounded in the completed
// profile.
func (c *Client) DraftOutreach(ctx context.Context, profile *models.JobProfile) (*models.ProviderReport, error) {
	prompt, err := outreachPrompt(profile)
	if err != nil {
		return nil, err
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text := extractText(resp)
	text = cleanJSON(text)

	var report models.ProviderReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		log.Printf("Failed to parse outreach response: %s", text)
		return nil, fmt.Errorf("failed to parse outreach JSON: %w", err)
	}

	return &report, nil
}

// outreachPrompt embeds the full profile JSON in the drafting prompt.
func outreachPrompt(profile *models.JobProfile) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	return fmt.Sprintf(`Write a candidate outreach draft for this role.

JOB PROFILE:
%s

Return a JSON object with:
{
  "summary": "one line describing the angle taken",
  "fields": [
    {"field": "outreach.tone", "value": "e.g. warm, direct", "confidence": 0.9},
    {"field": "outreach.key_hook", "value": "the single most compelling thing about this role", "confidence": 0.9},
    {"field": "outreach.subject", "value": "email subject line", "confidence": 0.9},
    {"field": "outreach.body", "value": "120-180 word outreach email body", "confidence": 0.9}
  ]
}

Ground every claim in the profile. Mention the company by name, lead with the
key hook, and close with a low-pressure ask. No placeholders like [Name].

Return ONLY the JSON object.`, profileJSON), nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}

func cleanJSON(text string) string {
	// Remove markdown code blocks if present
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	return text
}
