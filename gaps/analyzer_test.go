package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolebrief/backend/models"
)

func TestAnalyzeEmptyProfile(t *testing.T) {
	p := models.NewJobProfile("s1")

	r := Analyze(p)

	assert.Equal(t, 0, r.CompletionPct)
	assert.False(t, r.Complete())
	assert.Equal(t, []string{
		ItemJobTitle,
		ItemLocationType,
		ItemExperienceMin,
		ItemSalaryMin,
		ItemVisaSponsorship,
		ItemEquityOffered,
		ItemTraits,
		ItemInterviewStages,
	}, r.Missing, "missing items must come back in checklist order")
}

func TestAnalyzeCountsExplicitFalse(t *testing.T) {
	p := models.NewJobProfile("s1")
	no := false
	p.Requirements.VisaSponsorship = &no
	p.Requirements.EquityOffered = &no

	r := Analyze(p)

	assert.NotContains(t, r.Missing, ItemVisaSponsorship, "an explicit false covers the item")
	assert.NotContains(t, r.Missing, ItemEquityOffered)
	assert.Equal(t, 25, r.CompletionPct)
}

func TestAnalyzeCountsZeroExperience(t *testing.T) {
	p := models.NewJobProfile("s1")
	zero := 0
	p.Requirements.ExperienceMin = &zero

	r := Analyze(p)

	assert.NotContains(t, r.Missing, ItemExperienceMin, "zero years is a valid explicit minimum")
}

func TestAnalyzeSixOfEight(t *testing.T) {
	p := profileMissing(t, ItemSalaryMin, ItemEquityOffered)

	r := Analyze(p)

	assert.Equal(t, []string{ItemSalaryMin, ItemEquityOffered}, r.Missing)
	assert.Equal(t, 75, r.CompletionPct)
	assert.Equal(t, 1, r.TraitsCount)
	assert.Equal(t, 1, r.StagesCount)
}

func TestAnalyzeComplete(t *testing.T) {
	p := profileMissing(t)

	r := Analyze(p)

	assert.Empty(t, r.Missing)
	assert.True(t, r.Complete())
	assert.Equal(t, 100, r.CompletionPct)
}

func TestSummaryCarriesIsComplete(t *testing.T) {
	p := profileMissing(t)
	p.IsComplete = true

	s := Summary(p)

	assert.True(t, s.IsComplete)
	assert.Equal(t, 100, s.CompletionPct)
	assert.NotNil(t, s.Missing)
}

// profileMissing builds a profile covering every checklist item except the
// named ones.
func profileMissing(t *testing.T, except ...string) *models.JobProfile {
	t.Helper()

	skip := make(map[string]bool, len(except))
	for _, item := range except {
		skip[item] = true
	}

	p := models.NewJobProfile("s1")
	if !skip[ItemJobTitle] {
		p.Requirements.JobTitle = "Backend Engineer"
	}
	if !skip[ItemLocationType] {
		p.Requirements.LocationType = models.LocationRemote
	}
	if !skip[ItemExperienceMin] {
		years := 4
		p.Requirements.ExperienceMin = &years
	}
	if !skip[ItemSalaryMin] {
		salary := 120000
		p.Requirements.SalaryMin = &salary
	}
	if !skip[ItemVisaSponsorship] {
		yes := true
		p.Requirements.VisaSponsorship = &yes
	}
	if !skip[ItemEquityOffered] {
		yes := true
		p.Requirements.EquityOffered = &yes
	}
	if !skip[ItemTraits] {
		p.Traits = append(p.Traits, models.Trait{Name: "Ownership", Description: "d", Priority: models.PriorityMustHave})
	}
	if !skip[ItemInterviewStages] {
		p.InterviewStages = append(p.InterviewStages, models.InterviewStage{Order: 1, Name: "Phone Screen"})
	}

	require.NotNil(t, p)
	return p
}
