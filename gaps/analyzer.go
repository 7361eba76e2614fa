// Package gaps computes profile completeness against the fixed onboarding
// checklist. The checklist is deliberately small: it names the minimum a
// recruiter must pin down before sourcing can start.
package gaps

import (
	"math"

	"github.com/rolebrief/backend/models"
)

// Checklist items, reported in this order. Boolean and numeric items count as
// covered once explicitly set, whatever the value: "no visa sponsorship" is an
// answer, a nil pointer is not.
const (
	ItemJobTitle        = "job_title"
	ItemLocationType    = "location_type"
	ItemExperienceMin   = "experience_min"
	ItemSalaryMin       = "salary_min"
	ItemVisaSponsorship = "visa_sponsorship"
	ItemEquityOffered   = "equity_offered"
	ItemTraits          = "traits"
	ItemInterviewStages = "interview_stages"
)

// ChecklistSize is the number of items completion is measured against.
const ChecklistSize = 8

// Result is one completeness measurement of a profile.
type Result struct {
	Missing       []string `json:"missing"`
	CompletionPct int      `json:"completion_pct"`
	TraitsCount   int      `json:"traits_count"`
	StagesCount   int      `json:"stages_count"`
}

// Complete reports whether every checklist item is covered.
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Analyze measures p against the checklist. Missing preserves checklist order
// and is never nil.
func Analyze(p *models.JobProfile) Result {
	missing := make([]string, 0, ChecklistSize)

	if p.Requirements.JobTitle == "" {
		missing = append(missing, ItemJobTitle)
	}
	if p.Requirements.LocationType == "" {
		missing = append(missing, ItemLocationType)
	}
	if p.Requirements.ExperienceMin == nil {
		missing = append(missing, ItemExperienceMin)
	}
	if p.Requirements.SalaryMin == nil {
		missing = append(missing, ItemSalaryMin)
	}
	if p.Requirements.VisaSponsorship == nil {
		missing = append(missing, ItemVisaSponsorship)
	}
	if p.Requirements.EquityOffered == nil {
		missing = append(missing, ItemEquityOffered)
	}
	if len(p.Traits) == 0 {
		missing = append(missing, ItemTraits)
	}
	if len(p.InterviewStages) == 0 {
		missing = append(missing, ItemInterviewStages)
	}

	covered := ChecklistSize - len(missing)
	pct := int(math.Round(float64(covered) / float64(ChecklistSize) * 100))

	return Result{
		Missing:       missing,
		CompletionPct: pct,
		TraitsCount:   len(p.Traits),
		StagesCount:   len(p.InterviewStages),
	}
}

// Summary converts a measurement into the event envelope form.
func Summary(p *models.JobProfile) models.StatusSummary {
	r := Analyze(p)
	return models.StatusSummary{
		CompletionPct: r.CompletionPct,
		Missing:       r.Missing,
		TraitsCount:   r.TraitsCount,
		StagesCount:   r.StagesCount,
		IsComplete:    p.IsComplete,
	}
}
