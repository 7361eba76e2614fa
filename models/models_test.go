package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringSliceUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `{"culture": ["move fast", "ship weekly"]}`, []string{"move fast", "ship weekly"}},
		{"single string", `{"culture": "move fast"}`, []string{"move fast"}},
		{"empty string", `{"culture": ""}`, []string{}},
		{"wrong type", `{"culture": 42}`, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var company Company
			require.NoError(t, json.Unmarshal([]byte(tc.in), &company))
			assert.Equal(t, FlexibleStringSlice(tc.want), company.Culture)
		})
	}
}

func TestNewJobProfile(t *testing.T) {
	p := NewJobProfile("sess-1")

	assert.Equal(t, "sess-1", p.SessionID)
	assert.NotNil(t, p.Traits)
	assert.NotNil(t, p.InterviewStages)
	assert.NotNil(t, p.Nuances)
	assert.NotNil(t, p.FieldConfidence)
	assert.Equal(t, ResearchNone, p.Research.Status)
	assert.False(t, p.IsComplete)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestCloneIsolation(t *testing.T) {
	salary := 180000
	visa := false
	duration := 45

	original := NewJobProfile("sess-1")
	original.Company.Name = "Acme Robotics"
	original.Company.Culture = FlexibleStringSlice{"move fast"}
	original.Requirements.SalaryMin = &salary
	original.Requirements.VisaSponsorship = &visa
	original.Traits = []Trait{{Name: "Grit", Priority: PriorityMustHave, Signals: []string{"side projects"}}}
	original.InterviewStages = []InterviewStage{{Order: 1, Name: "Phone Screen", DurationMinutes: &duration}}
	original.Nuances = []Nuance{{Category: NuanceCulture, Text: "written culture"}}
	original.FieldConfidence = []FieldConfidenceEntry{{Field: "company.name", Confidence: 0.9}}
	original.Outreach = &Outreach{Subject: "Join Acme"}

	clone := original.Clone()

	clone.Company.Name = "Changed"
	clone.Company.Culture[0] = "changed"
	*clone.Requirements.SalaryMin = 1
	*clone.Requirements.VisaSponsorship = true
	clone.Traits[0].Name = "Changed"
	clone.Traits[0].Signals[0] = "changed"
	*clone.InterviewStages[0].DurationMinutes = 1
	clone.Nuances = append(clone.Nuances, Nuance{Text: "extra"})
	clone.FieldConfidence[0].Confidence = 0.1
	clone.Outreach.Subject = "Changed"

	assert.Equal(t, "Acme Robotics", original.Company.Name)
	assert.Equal(t, "move fast", original.Company.Culture[0])
	assert.Equal(t, 180000, *original.Requirements.SalaryMin)
	assert.False(t, *original.Requirements.VisaSponsorship)
	assert.Equal(t, "Grit", original.Traits[0].Name)
	assert.Equal(t, "side projects", original.Traits[0].Signals[0])
	assert.Equal(t, 45, *original.InterviewStages[0].DurationMinutes)
	assert.Len(t, original.Nuances, 1)
	assert.Equal(t, 0.9, original.FieldConfidence[0].Confidence)
	assert.Equal(t, "Join Acme", original.Outreach.Subject)
}

func TestCloneKeepsNilPointers(t *testing.T) {
	clone := NewJobProfile("sess-1").Clone()

	assert.Nil(t, clone.Requirements.SalaryMin)
	assert.Nil(t, clone.Outreach)
	assert.Nil(t, clone.CompletedAt)
}

func TestFindTraitCaseInsensitive(t *testing.T) {
	p := NewJobProfile("sess-1")
	p.Traits = []Trait{{Name: "Distributed Systems"}, {Name: "Grit"}}

	assert.Equal(t, 0, p.FindTrait("distributed systems"))
	assert.Equal(t, 1, p.FindTrait("  GRIT  "))
	assert.Equal(t, -1, p.FindTrait("Empathy"))
}

func TestFindStageCaseInsensitive(t *testing.T) {
	p := NewJobProfile("sess-1")
	p.InterviewStages = []InterviewStage{{Order: 1, Name: "Phone Screen"}}

	assert.Equal(t, 0, p.FindStage("PHONE SCREEN"))
	assert.Equal(t, -1, p.FindStage("Onsite Loop"))
}

func TestLatestConfidenceScansBackward(t *testing.T) {
	p := NewJobProfile("sess-1")
	p.FieldConfidence = []FieldConfidenceEntry{
		{Field: "company.name", Confidence: 0.4, Source: SourceParallelAI},
		{Field: "requirements.salary_min", Confidence: 0.8, Source: SourceJDPaste},
		{Field: "company.name", Confidence: 0.95, Source: SourceConversation},
	}

	got, ok := p.LatestConfidence("company.name")
	require.True(t, ok)
	assert.Equal(t, 0.95, got)

	_, ok = p.LatestConfidence("requirements.job_title")
	assert.False(t, ok)
}

func TestIsCompanyField(t *testing.T) {
	assert.True(t, IsCompanyField("industry"))
	assert.True(t, IsCompanyField("tech_stack"))
	assert.False(t, IsCompanyField("stock_ticker"))
	assert.False(t, IsCompanyField("Industry"))
}

func TestNormalizeLocationType(t *testing.T) {
	cases := map[string]string{
		"Remote":           LocationRemote,
		"fully remote":     LocationRemote,
		"WFH":              LocationRemote,
		"Hybrid":           LocationHybrid,
		"partially remote": LocationHybrid,
		"On-Site":          LocationOnsite,
		"in-office":        LocationOnsite,
		"asteroid":         "asteroid",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeLocationType(in), "input %q", in)
	}
}

func TestNormalizePriority(t *testing.T) {
	cases := map[string]string{
		"Must-Have":    PriorityMustHave,
		"required":     PriorityMustHave,
		"nice to have": PriorityNiceToHave,
		"Preferred":    PriorityNiceToHave,
		"sometime":     "sometime",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizePriority(in), "input %q", in)
	}
}

func TestNormalizeNuanceCategory(t *testing.T) {
	cases := map[string]string{
		"Values":    NuanceCulture,
		"org":       NuanceTeam,
		"Salary":    NuanceCompensation,
		"interview": NuanceProcess,
		"profile":   NuanceCandidate,
		"misc":      NuanceOther,
		"vibes":     "vibes",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeNuanceCategory(in), "input %q", in)
	}
}

func TestNewChangeEventEnvelope(t *testing.T) {
	status := StatusSummary{CompletionPct: 50, Missing: []string{"traits"}}

	event := NewChangeEvent("sess-1", EventTraitCreated, Trait{Name: "Grit"}, status)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, EventTraitCreated, event.Type)
	assert.Equal(t, status, event.Status)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)

	second := NewChangeEvent("sess-1", EventTraitCreated, nil, status)
	assert.NotEqual(t, event.ID, second.ID)
}
