package models

import (
	"encoding/json"
	"strings"
	"time"
)

// FlexibleStringSlice can unmarshal from either a string or []string
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as []string first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}

	// Try to unmarshal as string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str != "" {
			*f = []string{str}
		} else {
			*f = []string{}
		}
		return nil
	}

	// If both fail, return empty slice
	*f = []string{}
	return nil
}

// Source constants identify the origin of a field update
const (
	SourceConversation = "conversation"
	SourceParallelAI   = "parallel_ai"
	SourceJDPaste      = "jd_paste"
)

// LocationType constants
const (
	LocationRemote = "remote"
	LocationHybrid = "hybrid"
	LocationOnsite = "onsite"
)

// TraitPriority constants
const (
	PriorityMustHave   = "must_have"
	PriorityNiceToHave = "nice_to_have"
)

// NuanceCategory constants
const (
	NuanceCulture      = "culture"
	NuanceTeam         = "team"
	NuanceCompensation = "compensation"
	NuanceProcess      = "process"
	NuanceCandidate    = "candidate"
	NuanceOther        = "other"
)

// ResearchStatus constants track the background enrichment state of a profile
const (
	ResearchNone     = "none"
	ResearchRunning  = "running"
	ResearchComplete = "complete"
	ResearchDegraded = "degraded"
)

// ConfirmationThreshold is the confidence below which a merged value is
// flagged for verbal confirmation by the agent.
const ConfirmationThreshold = 0.7

// Company holds asynchronously-enriched company intelligence.
// Every field is optional; research fills these in over time.
type Company struct {
	Name         string              `json:"name,omitempty" firestore:"name,omitempty" example:"Acme Robotics"`
	Website      string              `json:"website,omitempty" firestore:"website,omitempty" example:"https://acme.dev"`
	Industry     string              `json:"industry,omitempty" firestore:"industry,omitempty" example:"industrial automation"`
	FundingStage string              `json:"funding_stage,omitempty" firestore:"fundingStage,omitempty" example:"series_b"`
	TeamSize     string              `json:"team_size,omitempty" firestore:"teamSize,omitempty" example:"50-100"`
	Mission      string              `json:"mission,omitempty" firestore:"mission,omitempty"`
	Culture      FlexibleStringSlice `json:"culture,omitempty" firestore:"culture,omitempty"`
	TechStack    FlexibleStringSlice `json:"tech_stack,omitempty" firestore:"techStack,omitempty"`
	RecentNews   FlexibleStringSlice `json:"recent_news,omitempty" firestore:"recentNews,omitempty"`
}

// CompanyFieldNames is the whitelist of company fields addressable by
// update_company_field and bulk ingest, in canonical order.
var CompanyFieldNames = []string{
	"name", "website", "industry", "funding_stage", "team_size",
	"mission", "culture", "tech_stack", "recent_news",
}

// IsCompanyField reports whether name is an addressable company field.
func IsCompanyField(name string) bool {
	for _, f := range CompanyFieldNames {
		if f == name {
			return true
		}
	}
	return false
}

// Requirements holds the hard constraints of the role. Pointer fields
// distinguish "explicitly set" from merely zero: visa_sponsorship=false is a
// decision, a nil value is an open question.
type Requirements struct {
	JobTitle        string `json:"job_title,omitempty" firestore:"jobTitle,omitempty" example:"Staff Engineer"`
	LocationType    string `json:"location_type,omitempty" firestore:"locationType,omitempty" example:"remote"`
	ExperienceMin   *int   `json:"experience_min,omitempty" firestore:"experienceMin,omitempty" example:"5"`
	ExperienceMax   *int   `json:"experience_max,omitempty" firestore:"experienceMax,omitempty" example:"10"`
	SalaryMin       *int   `json:"salary_min,omitempty" firestore:"salaryMin,omitempty" example:"180000"`
	SalaryMax       *int   `json:"salary_max,omitempty" firestore:"salaryMax,omitempty" example:"230000"`
	Currency        string `json:"currency,omitempty" firestore:"currency,omitempty" example:"USD"`
	VisaSponsorship *bool  `json:"visa_sponsorship,omitempty" firestore:"visaSponsorship,omitempty" example:"false"`
	EquityOffered   *bool  `json:"equity_offered,omitempty" firestore:"equityOffered,omitempty" example:"true"`
}

// Trait is one candidate-evaluation criterion. Name is the identity key,
// unique per profile (case-insensitive).
type Trait struct {
	Name        string    `json:"name" firestore:"name" example:"Distributed Systems"`
	Description string    `json:"description" firestore:"description" example:"Has designed and operated systems spanning many nodes"`
	Priority    string    `json:"priority" firestore:"priority" example:"must_have"`
	Signals     []string  `json:"signals,omitempty" firestore:"signals,omitempty"`
	AntiSignals []string  `json:"anti_signals,omitempty" firestore:"antiSignals,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// InterviewStage is one step of the interview process. Order is dense 1..N
// and always matches list position; Name is the identity key (case-insensitive).
type InterviewStage struct {
	Order           int       `json:"order" firestore:"order" example:"1"`
	Name            string    `json:"name" firestore:"name" example:"Phone Screen"`
	Description     string    `json:"description,omitempty" firestore:"description,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" firestore:"durationMinutes,omitempty" example:"45"`
	InterviewerRole string    `json:"interviewer_role,omitempty" firestore:"interviewerRole,omitempty" example:"hiring manager"`
	Actions         []string  `json:"actions,omitempty" firestore:"actions,omitempty"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Nuance is a free-text qualitative observation. Nuances are append-only:
// never merged, never deduplicated.
type Nuance struct {
	Category   string    `json:"category" firestore:"category" example:"culture"`
	Text       string    `json:"text" firestore:"text" example:"Founder cares deeply about written communication"`
	Source     string    `json:"source,omitempty" firestore:"source,omitempty" example:"conversation"`
	CapturedAt time.Time `json:"captured_at" firestore:"capturedAt"`
}

// Outreach is a derived candidate-outreach draft. Optional, generated after
// completion, never required for it.
type Outreach struct {
	Tone    string `json:"tone,omitempty" firestore:"tone,omitempty" example:"warm, direct"`
	KeyHook string `json:"key_hook,omitempty" firestore:"keyHook,omitempty"`
	Subject string `json:"subject,omitempty" firestore:"subject,omitempty"`
	Body    string `json:"body,omitempty" firestore:"body,omitempty"`
}

// FieldConfidenceEntry is one row of the append-only confidence ledger.
// The latest entry per field is authoritative for merge decisions.
type FieldConfidenceEntry struct {
	Field             string    `json:"field" firestore:"field" example:"requirements.salary_min"`
	Confidence        float64   `json:"confidence" firestore:"confidence" example:"0.9"`
	Source            string    `json:"source" firestore:"source" example:"jd_paste"`
	NeedsConfirmation bool      `json:"needs_confirmation" firestore:"needsConfirmation"`
	RecordedAt        time.Time `json:"recorded_at" firestore:"recordedAt"`
}

// ResearchState records the outcome of background enrichment for observability.
type ResearchState struct {
	Status    string    `json:"status" firestore:"status" example:"complete"`
	Detail    string    `json:"detail,omitempty" firestore:"detail,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

// JobProfile is the unit of work: one per session, built incrementally from
// company research, document extraction, and the live conversation.
// @Description Job profile under construction for one onboarding session
type JobProfile struct {
	SessionID       string                 `json:"session_id" firestore:"sessionId" example:"0b9dc7a2-5c4e-4f0a-9f14-2d1f8a9be301"`
	Company         Company                `json:"company" firestore:"company"`
	Requirements    Requirements           `json:"requirements" firestore:"requirements"`
	Traits          []Trait                `json:"traits" firestore:"traits"`
	InterviewStages []InterviewStage       `json:"interview_stages" firestore:"interviewStages"`
	Nuances         []Nuance               `json:"nuances" firestore:"nuances"`
	Outreach        *Outreach              `json:"outreach,omitempty" firestore:"outreach,omitempty"`
	FieldConfidence []FieldConfidenceEntry `json:"field_confidence" firestore:"fieldConfidence"`
	Research        ResearchState          `json:"research" firestore:"research"`
	IsComplete      bool                   `json:"is_complete" firestore:"isComplete"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`

	// Cached Gap Analyzer output, recomputed after every mutation.
	// Never trusted as source of truth.
	MissingRequiredFields []string `json:"missing_required_fields" firestore:"missingRequiredFields"`
	CompletionPct         int      `json:"completion_pct" firestore:"completionPct" example:"75"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// NewJobProfile creates an empty profile for a session.
func NewJobProfile(sessionID string) *JobProfile {
	now := time.Now().UTC()
	return &JobProfile{
		SessionID:       sessionID,
		Traits:          []Trait{},
		InterviewStages: []InterviewStage{},
		Nuances:         []Nuance{},
		FieldConfidence: []FieldConfidenceEntry{},
		Research:        ResearchState{Status: ResearchNone},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// FindTrait returns the index of the trait whose name matches case-insensitively,
// or -1 if absent.
func (p *JobProfile) FindTrait(name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	for i := range p.Traits {
		if strings.ToLower(p.Traits[i].Name) == key {
			return i
		}
	}
	return -1
}

// FindStage returns the index of the stage whose name matches case-insensitively,
// or -1 if absent.
func (p *JobProfile) FindStage(name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	for i := range p.InterviewStages {
		if strings.ToLower(p.InterviewStages[i].Name) == key {
			return i
		}
	}
	return -1
}

// LatestConfidence returns the most recent ledger confidence for a field.
// The second result is false when the field has no ledger history.
func (p *JobProfile) LatestConfidence(field string) (float64, bool) {
	for i := len(p.FieldConfidence) - 1; i >= 0; i-- {
		if p.FieldConfidence[i].Field == field {
			return p.FieldConfidence[i].Confidence, true
		}
	}
	return 0, false
}

// Clone returns a deep copy of the profile so callers can mutate freely
// without aliasing stored state.
func (p *JobProfile) Clone() *JobProfile {
	cp := *p

	cp.Company.Culture = append(FlexibleStringSlice(nil), p.Company.Culture...)
	cp.Company.TechStack = append(FlexibleStringSlice(nil), p.Company.TechStack...)
	cp.Company.RecentNews = append(FlexibleStringSlice(nil), p.Company.RecentNews...)

	cp.Requirements.ExperienceMin = cloneInt(p.Requirements.ExperienceMin)
	cp.Requirements.ExperienceMax = cloneInt(p.Requirements.ExperienceMax)
	cp.Requirements.SalaryMin = cloneInt(p.Requirements.SalaryMin)
	cp.Requirements.SalaryMax = cloneInt(p.Requirements.SalaryMax)
	cp.Requirements.VisaSponsorship = cloneBool(p.Requirements.VisaSponsorship)
	cp.Requirements.EquityOffered = cloneBool(p.Requirements.EquityOffered)

	cp.Traits = make([]Trait, len(p.Traits))
	for i, t := range p.Traits {
		t.Signals = append([]string(nil), t.Signals...)
		t.AntiSignals = append([]string(nil), t.AntiSignals...)
		cp.Traits[i] = t
	}

	cp.InterviewStages = make([]InterviewStage, len(p.InterviewStages))
	for i, s := range p.InterviewStages {
		s.DurationMinutes = cloneInt(s.DurationMinutes)
		s.Actions = append([]string(nil), s.Actions...)
		cp.InterviewStages[i] = s
	}

	cp.Nuances = append([]Nuance(nil), p.Nuances...)
	cp.FieldConfidence = append([]FieldConfidenceEntry(nil), p.FieldConfidence...)
	cp.MissingRequiredFields = append([]string(nil), p.MissingRequiredFields...)

	if p.Outreach != nil {
		o := *p.Outreach
		cp.Outreach = &o
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		cp.CompletedAt = &t
	}

	return &cp
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ValidLocationType reports whether s is one of the location type constants.
func ValidLocationType(s string) bool {
	return s == LocationRemote || s == LocationHybrid || s == LocationOnsite
}

// ValidPriority reports whether s is one of the trait priority constants.
func ValidPriority(s string) bool {
	return s == PriorityMustHave || s == PriorityNiceToHave
}

// ValidNuanceCategory reports whether s is one of the nuance category constants.
func ValidNuanceCategory(s string) bool {
	switch s {
	case NuanceCulture, NuanceTeam, NuanceCompensation, NuanceProcess, NuanceCandidate, NuanceOther:
		return true
	default:
		return false
	}
}

// NormalizeLocationType normalizes provider spellings to standard values.
// Unknown values pass through unchanged so validation can reject them.
func NormalizeLocationType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "remote", "fully remote", "wfh", "work from home":
		return LocationRemote
	case "hybrid", "flexible", "partially remote":
		return LocationHybrid
	case "onsite", "on-site", "on site", "office", "in-office", "wfo", "work from office":
		return LocationOnsite
	default:
		return raw
	}
}

// NormalizePriority normalizes provider spellings of trait priority.
func NormalizePriority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "must_have", "must-have", "must have", "required", "critical":
		return PriorityMustHave
	case "nice_to_have", "nice-to-have", "nice to have", "optional", "bonus", "preferred":
		return PriorityNiceToHave
	default:
		return raw
	}
}

// NormalizeNuanceCategory normalizes provider spellings of nuance categories.
func NormalizeNuanceCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "culture", "values":
		return NuanceCulture
	case "team", "org", "organization":
		return NuanceTeam
	case "compensation", "comp", "salary", "benefits":
		return NuanceCompensation
	case "process", "interview", "hiring":
		return NuanceProcess
	case "candidate", "profile", "background":
		return NuanceCandidate
	case "other", "misc", "general":
		return NuanceOther
	default:
		return raw
	}
}
