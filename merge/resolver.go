// Package merge reconciles proposed field updates against the current profile
// state using confidence scores and source precedence. It is pure: callers own
// locking and persistence.
package merge

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rolebrief/backend/models"
)

// Kind identifies what a FieldUpdate does. Updates are a closed set of
// operation kinds so invalid proposals are caught at the boundary.
type Kind int

const (
	KindSetField Kind = iota
	KindUpsertTrait
	KindUpsertStage
	KindAppendNuance
	KindDeleteTrait
	KindDeleteStage
)

// FieldUpdate is one proposed mutation tagged with its origin and confidence.
type FieldUpdate struct {
	Kind       Kind
	Field      string // logical field path, KindSetField only
	Value      interface{}
	Trait      *models.Trait
	Stage      *models.InterviewStage
	Nuance     *models.Nuance
	Name       string // upsert/delete identity key
	Confidence float64
	Source     string
}

// NewSet builds a scalar field update.
func NewSet(field string, value interface{}, confidence float64, source string) FieldUpdate {
	return FieldUpdate{Kind: KindSetField, Field: field, Value: value, Confidence: confidence, Source: source}
}

// NewTraitUpsert builds a trait create-or-replace update keyed by the trait name.
func NewTraitUpsert(t models.Trait, confidence float64, source string) FieldUpdate {
	return FieldUpdate{Kind: KindUpsertTrait, Trait: &t, Name: t.Name, Confidence: confidence, Source: source}
}

// NewStageUpsert builds a stage create-or-replace update keyed by the stage name.
func NewStageUpsert(s models.InterviewStage, confidence float64, source string) FieldUpdate {
	return FieldUpdate{Kind: KindUpsertStage, Stage: &s, Name: s.Name, Confidence: confidence, Source: source}
}

// NewNuanceAppend builds an append-only nuance update.
func NewNuanceAppend(n models.Nuance, confidence float64, source string) FieldUpdate {
	return FieldUpdate{Kind: KindAppendNuance, Nuance: &n, Confidence: confidence, Source: source}
}

// NewTraitDelete builds an idempotent trait removal by name.
func NewTraitDelete(name, source string) FieldUpdate {
	return FieldUpdate{Kind: KindDeleteTrait, Name: name, Confidence: 1.0, Source: source}
}

// NewStageDelete builds an idempotent stage removal by name.
func NewStageDelete(name, source string) FieldUpdate {
	return FieldUpdate{Kind: KindDeleteStage, Name: name, Confidence: 1.0, Source: source}
}

// Applied describes one update that took effect.
type Applied struct {
	Update  FieldUpdate
	Field   string // ledger key written for this update
	Created bool   // upserts: inserted rather than replaced
	Noop    bool   // idempotent delete that found no target
}

// Rejected describes one update that was refused, with a reason the caller can
// surface verbatim.
type Rejected struct {
	Update FieldUpdate
	Reason string
}

// Outcome is the result of a merge pass. Applied drives broadcasting: rejected
// proposals never reach subscribers.
type Outcome struct {
	Applied  []Applied
	Rejected []Rejected
}

// Apply reconciles updates against the profile in order, mutating it in place.
// Each update is all-or-nothing: a failed update is recorded as rejected and
// the profile is untouched by it; earlier applied updates are never rolled back.
//
// The overwrite policy: a proposal wins when the field is currently unset, or
// its confidence is at least the field's latest ledger confidence, or its
// source is the live conversation (a human explicitly stated the value).
func Apply(p *models.JobProfile, updates []FieldUpdate) Outcome {
	var out Outcome
	now := time.Now().UTC()

	for _, u := range updates {
		var (
			applied Applied
			err     error
		)

		switch u.Kind {
		case KindSetField:
			applied, err = applySet(p, u)
		case KindUpsertTrait:
			applied, err = applyTrait(p, u, now)
		case KindUpsertStage:
			applied, err = applyStage(p, u, now)
		case KindAppendNuance:
			applied, err = applyNuance(p, u, now)
		case KindDeleteTrait:
			applied = deleteTrait(p, u)
		case KindDeleteStage:
			applied = deleteStage(p, u)
		default:
			err = fmt.Errorf("unknown update kind %d", u.Kind)
		}

		if err != nil {
			out.Rejected = append(out.Rejected, Rejected{Update: u, Reason: err.Error()})
			continue
		}

		if !applied.Noop {
			if applied.Field != "" {
				p.FieldConfidence = append(p.FieldConfidence, models.FieldConfidenceEntry{
					Field:             applied.Field,
					Confidence:        u.Confidence,
					Source:            u.Source,
					NeedsConfirmation: u.Confidence < models.ConfirmationThreshold,
					RecordedAt:        now,
				})
			}
			p.UpdatedAt = now
		}
		out.Applied = append(out.Applied, applied)
	}

	return out
}

// errLostMerge is the rejection reason for proposals beaten by the ledger.
func errLostMerge(field string, proposed, current float64) error {
	return fmt.Errorf("field %s kept existing value: proposed confidence %.2f below current %.2f", field, proposed, current)
}

// wins evaluates the overwrite policy for one field.
func wins(p *models.JobProfile, field string, u FieldUpdate, isSet bool) error {
	if u.Source == models.SourceConversation {
		return nil
	}
	if !isSet {
		return nil
	}
	current, ok := p.LatestConfidence(field)
	if !ok {
		return nil
	}
	if u.Confidence >= current {
		return nil
	}
	return errLostMerge(field, u.Confidence, current)
}

func applySet(p *models.JobProfile, u FieldUpdate) (Applied, error) {
	setter, ok := fieldSetters[u.Field]
	if !ok {
		return Applied{}, fmt.Errorf("unknown field %q", u.Field)
	}

	// Validate and coerce before consulting the policy so a malformed value
	// is always a rejection, never a partial write.
	apply, err := setter.prepare(u.Value)
	if err != nil {
		return Applied{}, fmt.Errorf("field %s: %w", u.Field, err)
	}

	if err := wins(p, u.Field, u, setter.isSet(p)); err != nil {
		return Applied{}, err
	}

	apply(p)
	return Applied{Update: u, Field: u.Field}, nil
}

func applyTrait(p *models.JobProfile, u FieldUpdate, now time.Time) (Applied, error) {
	t := u.Trait
	if t == nil || strings.TrimSpace(t.Name) == "" {
		return Applied{}, fmt.Errorf("trait name is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Applied{}, fmt.Errorf("trait %q: description is required", t.Name)
	}
	if !models.ValidPriority(t.Priority) {
		return Applied{}, fmt.Errorf("trait %q: priority must be %s or %s, got %q",
			t.Name, models.PriorityMustHave, models.PriorityNiceToHave, t.Priority)
	}

	field := TraitField(t.Name)
	idx := p.FindTrait(t.Name)
	if err := wins(p, field, u, idx >= 0); err != nil {
		return Applied{}, err
	}

	if idx >= 0 {
		existing := &p.Traits[idx]
		existing.Name = t.Name
		existing.Description = t.Description
		existing.Priority = t.Priority
		existing.Signals = append([]string(nil), t.Signals...)
		existing.AntiSignals = append([]string(nil), t.AntiSignals...)
		existing.UpdatedAt = now
		return Applied{Update: u, Field: field}, nil
	}

	nt := *t
	nt.Signals = append([]string(nil), t.Signals...)
	nt.AntiSignals = append([]string(nil), t.AntiSignals...)
	nt.CreatedAt = now
	nt.UpdatedAt = now
	p.Traits = append(p.Traits, nt)
	return Applied{Update: u, Field: field, Created: true}, nil
}

func applyStage(p *models.JobProfile, u FieldUpdate, now time.Time) (Applied, error) {
	s := u.Stage
	if s == nil || strings.TrimSpace(s.Name) == "" {
		return Applied{}, fmt.Errorf("stage name is required")
	}
	if s.DurationMinutes != nil && *s.DurationMinutes <= 0 {
		return Applied{}, fmt.Errorf("stage %q: duration_minutes must be positive", s.Name)
	}

	field := StageField(s.Name)
	idx := p.FindStage(s.Name)
	if err := wins(p, field, u, idx >= 0); err != nil {
		return Applied{}, err
	}

	if idx >= 0 {
		existing := &p.InterviewStages[idx]
		existing.Name = s.Name
		existing.Description = s.Description
		existing.DurationMinutes = s.DurationMinutes
		existing.InterviewerRole = s.InterviewerRole
		existing.Actions = append([]string(nil), s.Actions...)
		existing.UpdatedAt = now
		return Applied{Update: u, Field: field}, nil
	}

	ns := *s
	ns.Actions = append([]string(nil), s.Actions...)
	ns.Order = len(p.InterviewStages) + 1
	ns.CreatedAt = now
	ns.UpdatedAt = now
	p.InterviewStages = append(p.InterviewStages, ns)
	return Applied{Update: u, Field: field, Created: true}, nil
}

func applyNuance(p *models.JobProfile, u FieldUpdate, now time.Time) (Applied, error) {
	n := u.Nuance
	if n == nil || strings.TrimSpace(n.Text) == "" {
		return Applied{}, fmt.Errorf("nuance text is required")
	}
	if !models.ValidNuanceCategory(n.Category) {
		return Applied{}, fmt.Errorf("nuance category %q is not recognized", n.Category)
	}

	nn := *n
	if nn.Source == "" {
		nn.Source = u.Source
	}
	if nn.CapturedAt.IsZero() {
		nn.CapturedAt = now
	}
	p.Nuances = append(p.Nuances, nn)
	return Applied{Update: u, Field: "nuances", Created: true}, nil
}

func deleteTrait(p *models.JobProfile, u FieldUpdate) Applied {
	idx := p.FindTrait(u.Name)
	if idx < 0 {
		return Applied{Update: u, Noop: true}
	}
	p.Traits = append(p.Traits[:idx], p.Traits[idx+1:]...)
	return Applied{Update: u}
}

func deleteStage(p *models.JobProfile, u FieldUpdate) Applied {
	idx := p.FindStage(u.Name)
	if idx < 0 {
		return Applied{Update: u, Noop: true}
	}
	p.InterviewStages = append(p.InterviewStages[:idx], p.InterviewStages[idx+1:]...)
	for i := range p.InterviewStages {
		p.InterviewStages[i].Order = i + 1
	}
	return Applied{Update: u}
}

// TraitField returns the ledger key for a trait name.
func TraitField(name string) string {
	return "traits." + strings.ToLower(strings.TrimSpace(name))
}

// StageField returns the ledger key for a stage name.
func StageField(name string) string {
	return "interview_stages." + strings.ToLower(strings.TrimSpace(name))
}

// Validate checks a scalar field path and value without touching any profile.
// Callers use it to fail a whole request before applying any part of it.
func Validate(field string, value interface{}) error {
	setter, ok := fieldSetters[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	if _, err := setter.prepare(value); err != nil {
		return fmt.Errorf("field %s: %w", field, err)
	}
	return nil
}

// KnownField reports whether field is a ledger key the engine accepts for
// explicit confirmation.
func KnownField(field string) bool {
	if _, ok := fieldSetters[field]; ok {
		return true
	}
	return strings.HasPrefix(field, "traits.") || strings.HasPrefix(field, "interview_stages.")
}

// fieldSetter validates a raw value for one scalar field and reports whether
// the field currently holds a value.
type fieldSetter struct {
	isSet   func(p *models.JobProfile) bool
	prepare func(value interface{}) (func(p *models.JobProfile), error)
}

var fieldSetters = map[string]fieldSetter{
	"company.name": stringField(
		func(p *models.JobProfile) bool { return p.Company.Name != "" },
		func(p *models.JobProfile, v string) { p.Company.Name = v },
	),
	"company.website": stringField(
		func(p *models.JobProfile) bool { return p.Company.Website != "" },
		func(p *models.JobProfile, v string) { p.Company.Website = v },
	),
	"company.industry": stringField(
		func(p *models.JobProfile) bool { return p.Company.Industry != "" },
		func(p *models.JobProfile, v string) { p.Company.Industry = v },
	),
	"company.funding_stage": stringField(
		func(p *models.JobProfile) bool { return p.Company.FundingStage != "" },
		func(p *models.JobProfile, v string) { p.Company.FundingStage = v },
	),
	"company.team_size": stringField(
		func(p *models.JobProfile) bool { return p.Company.TeamSize != "" },
		func(p *models.JobProfile, v string) { p.Company.TeamSize = v },
	),
	"company.mission": stringField(
		func(p *models.JobProfile) bool { return p.Company.Mission != "" },
		func(p *models.JobProfile, v string) { p.Company.Mission = v },
	),
	"company.culture": stringListField(
		func(p *models.JobProfile) bool { return len(p.Company.Culture) > 0 },
		func(p *models.JobProfile, v []string) { p.Company.Culture = v },
	),
	"company.tech_stack": stringListField(
		func(p *models.JobProfile) bool { return len(p.Company.TechStack) > 0 },
		func(p *models.JobProfile, v []string) { p.Company.TechStack = v },
	),
	"company.recent_news": stringListField(
		func(p *models.JobProfile) bool { return len(p.Company.RecentNews) > 0 },
		func(p *models.JobProfile, v []string) { p.Company.RecentNews = v },
	),
	"requirements.job_title": stringField(
		func(p *models.JobProfile) bool { return p.Requirements.JobTitle != "" },
		func(p *models.JobProfile, v string) { p.Requirements.JobTitle = v },
	),
	"requirements.location_type": {
		isSet: func(p *models.JobProfile) bool { return p.Requirements.LocationType != "" },
		prepare: func(value interface{}) (func(p *models.JobProfile), error) {
			s, err := stringValue(value)
			if err != nil {
				return nil, err
			}
			if !models.ValidLocationType(s) {
				return nil, fmt.Errorf("location_type must be one of %s, %s, %s, got %q",
					models.LocationRemote, models.LocationHybrid, models.LocationOnsite, s)
			}
			return func(p *models.JobProfile) { p.Requirements.LocationType = s }, nil
		},
	},
	"requirements.experience_min": intField(
		func(p *models.JobProfile) bool { return p.Requirements.ExperienceMin != nil },
		func(p *models.JobProfile, v int) { p.Requirements.ExperienceMin = &v },
	),
	"requirements.experience_max": intField(
		func(p *models.JobProfile) bool { return p.Requirements.ExperienceMax != nil },
		func(p *models.JobProfile, v int) { p.Requirements.ExperienceMax = &v },
	),
	"requirements.salary_min": intField(
		func(p *models.JobProfile) bool { return p.Requirements.SalaryMin != nil },
		func(p *models.JobProfile, v int) { p.Requirements.SalaryMin = &v },
	),
	"requirements.salary_max": intField(
		func(p *models.JobProfile) bool { return p.Requirements.SalaryMax != nil },
		func(p *models.JobProfile, v int) { p.Requirements.SalaryMax = &v },
	),
	"requirements.currency": stringField(
		func(p *models.JobProfile) bool { return p.Requirements.Currency != "" },
		func(p *models.JobProfile, v string) { p.Requirements.Currency = v },
	),
	"requirements.visa_sponsorship": boolField(
		func(p *models.JobProfile) bool { return p.Requirements.VisaSponsorship != nil },
		func(p *models.JobProfile, v bool) { p.Requirements.VisaSponsorship = &v },
	),
	"requirements.equity_offered": boolField(
		func(p *models.JobProfile) bool { return p.Requirements.EquityOffered != nil },
		func(p *models.JobProfile, v bool) { p.Requirements.EquityOffered = &v },
	),
}

func stringField(isSet func(*models.JobProfile) bool, set func(*models.JobProfile, string)) fieldSetter {
	return fieldSetter{
		isSet: isSet,
		prepare: func(value interface{}) (func(p *models.JobProfile), error) {
			s, err := stringValue(value)
			if err != nil {
				return nil, err
			}
			return func(p *models.JobProfile) { set(p, s) }, nil
		},
	}
}

func stringListField(isSet func(*models.JobProfile) bool, set func(*models.JobProfile, []string)) fieldSetter {
	return fieldSetter{
		isSet: isSet,
		prepare: func(value interface{}) (func(p *models.JobProfile), error) {
			list, err := stringListValue(value)
			if err != nil {
				return nil, err
			}
			return func(p *models.JobProfile) { set(p, list) }, nil
		},
	}
}

func intField(isSet func(*models.JobProfile) bool, set func(*models.JobProfile, int)) fieldSetter {
	return fieldSetter{
		isSet: isSet,
		prepare: func(value interface{}) (func(p *models.JobProfile), error) {
			n, err := intValue(value)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("value must not be negative, got %d", n)
			}
			return func(p *models.JobProfile) { set(p, n) }, nil
		},
	}
}

func boolField(isSet func(*models.JobProfile) bool, set func(*models.JobProfile, bool)) fieldSetter {
	return fieldSetter{
		isSet: isSet,
		prepare: func(value interface{}) (func(p *models.JobProfile), error) {
			b, err := boolValue(value)
			if err != nil {
				return nil, err
			}
			return func(p *models.JobProfile) { set(p, b) }, nil
		},
	}
}

func stringValue(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("value must not be empty")
	}
	return s, nil
}

// intValue accepts native ints and integral JSON numbers (which decode as
// float64).
func intValue(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected a whole number, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func boolValue(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
	return b, nil
}

// stringListValue accepts []string, a JSON array, or a single bare string.
func stringListValue(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		if len(list) == 0 {
			return nil, fmt.Errorf("value must not be empty")
		}
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, found %T", item)
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("value must not be empty")
		}
		return out, nil
	case string:
		if strings.TrimSpace(list) == "" {
			return nil, fmt.Errorf("value must not be empty")
		}
		return []string{list}, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}
