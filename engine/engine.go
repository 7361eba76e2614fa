// Package engine owns every profile state transition. Each mutating operation
// follows the same contract: serialize on the session, validate before
// touching anything, merge, persist, then broadcast. Rejected input never
// reaches the store or subscribers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rolebrief/backend/gaps"
	"github.com/rolebrief/backend/hub"
	"github.com/rolebrief/backend/merge"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/storage"
)

// seedConfidence is recorded for values copied from the session creation
// request. It sits below the confirmation threshold so seeded values stay
// open to correction by research or the conversation.
const seedConfidence = 0.6

// ErrNotComplete reports a completion attempt while checklist items are still
// missing. Callers treat it as a refusal, not a failure.
var ErrNotComplete = errors.New("profile is not complete")

// Engine coordinates the store, the merge policy, and the event hub.
type Engine struct {
	store storage.ProfileStore
	hub   *hub.Hub
	locks *sessionLocks
}

// New wires an Engine over a profile store and an event hub.
func New(store storage.ProfileStore, h *hub.Hub) *Engine {
	return &Engine{
		store: store,
		hub:   h,
		locks: newSessionLocks(),
	}
}

// TraitPatch holds the optional fields of a trait update. Nil means leave the
// current value alone; an empty slice clears it.
type TraitPatch struct {
	Description *string
	Priority    *string
	Signals     []string
	AntiSignals []string
}

// StagePatch holds the optional fields of an interview stage update.
type StagePatch struct {
	Description     *string
	DurationMinutes *int
	InterviewerRole *string
	Actions         []string
}

// CreateSession returns the profile for the session, creating it when absent.
// The boolean reports whether a new profile was created. Company name, website
// and job title from the request seed the new profile at low confidence.
func (e *Engine) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.JobProfile, bool, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := e.store.Get(ctx, sessionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	p := models.NewJobProfile(sessionID)

	var seeds []merge.FieldUpdate
	if v := strings.TrimSpace(req.CompanyName); v != "" {
		seeds = append(seeds, merge.NewSet("company.name", v, seedConfidence, models.SourceConversation))
	}
	if v := strings.TrimSpace(req.CompanyWebsite); v != "" {
		seeds = append(seeds, merge.NewSet("company.website", v, seedConfidence, models.SourceConversation))
	}
	if v := strings.TrimSpace(req.JobTitle); v != "" {
		seeds = append(seeds, merge.NewSet("requirements.job_title", v, seedConfidence, models.SourceConversation))
	}
	merge.Apply(p, seeds)
	e.refreshCompletion(p)

	if err := e.store.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[Engine] Created session %s (company=%q)", sessionID, p.Company.Name)
	return p, true, nil
}

// GetProfile returns the full profile snapshot for a session.
func (e *Engine) GetProfile(ctx context.Context, sessionID string) (*models.JobProfile, error) {
	return e.load(ctx, sessionID)
}

// ListSessions returns compact summaries of the most recently touched sessions.
func (e *Engine) ListSessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	profiles, err := e.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SessionSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, models.SessionSummary{
			SessionID:     p.SessionID,
			CompanyName:   p.Company.Name,
			JobTitle:      p.Requirements.JobTitle,
			CompletionPct: p.CompletionPct,
			IsComplete:    p.IsComplete,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return summaries, nil
}

// Status measures the profile against the checklist without mutating anything.
func (e *Engine) Status(ctx context.Context, sessionID string) (models.StatusSummary, models.ResearchState, error) {
	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, models.ResearchState{}, err
	}
	return gaps.Summary(p), p.Research, nil
}

// UpdateCompanyField sets one company field from the conversation.
func (e *Engine) UpdateCompanyField(ctx context.Context, sessionID, field string, value interface{}) (models.StatusSummary, error) {
	if !models.IsCompanyField(field) {
		return models.StatusSummary{}, fmt.Errorf("unknown company field %q", field)
	}
	path := "company." + field
	if err := merge.Validate(path, value); err != nil {
		return models.StatusSummary{}, err
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewSet(path, value, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, errors.New(out.Rejected[0].Reason)
	}

	return e.saveAndPublish(ctx, p, models.EventCompany, p.Company)
}

// UpdateRequirements sets one or more requirement fields from the
// conversation. Every field is validated before any is applied, so an invalid
// enum or type rejects the whole call.
func (e *Engine) UpdateRequirements(ctx context.Context, sessionID string, fields map[string]interface{}) (models.StatusSummary, error) {
	if len(fields) == 0 {
		return models.StatusSummary{}, errors.New("no requirement fields provided")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]merge.FieldUpdate, 0, len(keys))
	for _, k := range keys {
		path := "requirements." + k
		if err := merge.Validate(path, fields[k]); err != nil {
			return models.StatusSummary{}, err
		}
		updates = append(updates, merge.NewSet(path, fields[k], 1.0, models.SourceConversation))
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	out := merge.Apply(p, updates)
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, errors.New(out.Rejected[0].Reason)
	}

	return e.saveAndPublish(ctx, p, models.EventRequirements, p.Requirements)
}

// CreateTrait adds a candidate trait, replacing any existing trait with the
// same name. The boolean reports whether the trait was newly created.
func (e *Engine) CreateTrait(ctx context.Context, sessionID string, trait models.Trait) (models.StatusSummary, bool, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewTraitUpsert(trait, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, false, errors.New(out.Rejected[0].Reason)
	}

	created := out.Applied[0].Created
	eventType := models.EventTraitUpdated
	if created {
		eventType = models.EventTraitCreated
	}

	status, err := e.saveAndPublish(ctx, p, eventType, p.Traits[p.FindTrait(trait.Name)])
	return status, created, err
}

// UpdateTrait patches an existing trait by name. Missing traits are an error;
// use CreateTrait to add one.
func (e *Engine) UpdateTrait(ctx context.Context, sessionID, name string, patch TraitPatch) (models.StatusSummary, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	idx := p.FindTrait(name)
	if idx < 0 {
		return models.StatusSummary{}, fmt.Errorf("trait %q not found", name)
	}

	next := p.Traits[idx]
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.Signals != nil {
		next.Signals = patch.Signals
	}
	if patch.AntiSignals != nil {
		next.AntiSignals = patch.AntiSignals
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewTraitUpsert(next, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, errors.New(out.Rejected[0].Reason)
	}

	return e.saveAndPublish(ctx, p, models.EventTraitUpdated, p.Traits[idx])
}

// DeleteTrait removes a trait by name. Deleting a trait that does not exist is
// not an error; the boolean reports whether anything was removed.
func (e *Engine) DeleteTrait(ctx context.Context, sessionID, name string) (models.StatusSummary, bool, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{merge.NewTraitDelete(name, models.SourceConversation)})
	if out.Applied[0].Noop {
		return gaps.Summary(p), false, nil
	}

	status, err := e.saveAndPublish(ctx, p, models.EventTraitDeleted, map[string]string{"name": name})
	return status, true, err
}

// CreateInterviewStage appends an interview stage, replacing any existing
// stage with the same name in place. New stages take the next order number.
func (e *Engine) CreateInterviewStage(ctx context.Context, sessionID string, stage models.InterviewStage) (models.StatusSummary, bool, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewStageUpsert(stage, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, false, errors.New(out.Rejected[0].Reason)
	}

	created := out.Applied[0].Created
	eventType := models.EventStageUpdated
	if created {
		eventType = models.EventStageCreated
	}

	status, err := e.saveAndPublish(ctx, p, eventType, p.InterviewStages[p.FindStage(stage.Name)])
	return status, created, err
}

// UpdateInterviewStage patches an existing stage by name. Stage order never
// changes here; it only moves when a stage is deleted.
func (e *Engine) UpdateInterviewStage(ctx context.Context, sessionID, name string, patch StagePatch) (models.StatusSummary, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	idx := p.FindStage(name)
	if idx < 0 {
		return models.StatusSummary{}, fmt.Errorf("interview stage %q not found", name)
	}

	next := p.InterviewStages[idx]
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		next.DurationMinutes = patch.DurationMinutes
	}
	if patch.InterviewerRole != nil {
		next.InterviewerRole = *patch.InterviewerRole
	}
	if patch.Actions != nil {
		next.Actions = patch.Actions
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewStageUpsert(next, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, errors.New(out.Rejected[0].Reason)
	}

	return e.saveAndPublish(ctx, p, models.EventStageUpdated, p.InterviewStages[idx])
}

// DeleteInterviewStage removes a stage by name and renumbers the remaining
// stages so orders stay dense. Unknown names are not an error.
func (e *Engine) DeleteInterviewStage(ctx context.Context, sessionID, name string) (models.StatusSummary, bool, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{merge.NewStageDelete(name, models.SourceConversation)})
	if out.Applied[0].Noop {
		return gaps.Summary(p), false, nil
	}

	status, err := e.saveAndPublish(ctx, p, models.EventStageDeleted, map[string]string{"name": name})
	return status, true, err
}

// CaptureNuance appends a free-form observation. Nuances are never merged or
// deduplicated.
func (e *Engine) CaptureNuance(ctx context.Context, sessionID, category, text string) (models.StatusSummary, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	out := merge.Apply(p, []merge.FieldUpdate{
		merge.NewNuanceAppend(models.Nuance{Category: category, Text: text}, 1.0, models.SourceConversation),
	})
	if len(out.Rejected) > 0 {
		return models.StatusSummary{}, errors.New(out.Rejected[0].Reason)
	}

	return e.saveAndPublish(ctx, p, models.EventNuanceCaptured, p.Nuances[len(p.Nuances)-1])
}

// MarkFieldComplete records that the recruiter confirmed a field's current
// value. The confirmation is a full-confidence ledger entry, so earlier
// low-confidence entries stop asking for confirmation.
func (e *Engine) MarkFieldComplete(ctx context.Context, sessionID, field string) (models.StatusSummary, error) {
	path, ok := resolveFieldPath(field)
	if !ok {
		return models.StatusSummary{}, fmt.Errorf("unknown field %q", field)
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, err
	}

	now := time.Now().UTC()
	p.FieldConfidence = append(p.FieldConfidence, models.FieldConfidenceEntry{
		Field:      path,
		Confidence: 1.0,
		Source:     models.SourceConversation,
		RecordedAt: now,
	})
	p.UpdatedAt = now

	return e.saveAndPublish(ctx, p, models.EventFieldComplete, map[string]string{"field": path})
}

// CompleteOnboarding transitions the profile to complete. The checklist is
// re-measured here, under the session lock, so a stale caller cannot complete
// a profile that lost a required item since it last looked. Completion happens
// at most once; repeat calls succeed without broadcasting.
func (e *Engine) CompleteOnboarding(ctx context.Context, sessionID string) (models.StatusSummary, bool, error) {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	if p.IsComplete {
		return gaps.Summary(p), false, nil
	}

	result := gaps.Analyze(p)
	if !result.Complete() {
		return models.StatusSummary{}, false, fmt.Errorf("%w: missing %s", ErrNotComplete, strings.Join(result.Missing, ", "))
	}

	now := time.Now().UTC()
	p.IsComplete = true
	p.CompletedAt = &now
	p.UpdatedAt = now

	status, err := e.saveAndPublish(ctx, p, models.EventOnboardingComplete, map[string]interface{}{
		"completed_at": now,
	})
	if err != nil {
		return models.StatusSummary{}, false, err
	}

	log.Printf("[Engine] Session %s onboarding complete", sessionID)
	return status, true, nil
}

// load fetches the profile, translating a missing document into a wrapped
// storage.ErrNotFound callers can test with errors.Is.
func (e *Engine) load(ctx context.Context, sessionID string) (*models.JobProfile, error) {
	p, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return p, nil
}

// refreshCompletion denormalizes the checklist measurement onto the profile so
// snapshot reads carry it without recomputing.
func (e *Engine) refreshCompletion(p *models.JobProfile) models.StatusSummary {
	status := gaps.Summary(p)
	p.MissingRequiredFields = status.Missing
	p.CompletionPct = status.CompletionPct
	return status
}

// saveAndPublish persists the profile and, only after a successful save,
// broadcasts the change so subscribers never see state that was not stored.
func (e *Engine) saveAndPublish(ctx context.Context, p *models.JobProfile, eventType string, data interface{}) (models.StatusSummary, error) {
	status := e.refreshCompletion(p)

	if err := e.store.Save(ctx, p); err != nil {
		return models.StatusSummary{}, fmt.Errorf("failed to save profile: %w", err)
	}

	e.hub.Publish(models.NewChangeEvent(p.SessionID, eventType, data, status))
	return status, nil
}

// resolveFieldPath accepts either a full ledger key or a bare company or
// requirements field name.
func resolveFieldPath(field string) (string, bool) {
	f := strings.TrimSpace(field)
	if f == "" {
		return "", false
	}
	if merge.KnownField(f) {
		return f, true
	}
	if !strings.Contains(f, ".") {
		for _, prefix := range []string{"requirements.", "company."} {
			if merge.KnownField(prefix + f) {
				return prefix + f, true
			}
		}
	}
	return "", false
}
