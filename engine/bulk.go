package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rolebrief/backend/gaps"
	"github.com/rolebrief/backend/merge"
	"github.com/rolebrief/backend/models"
)

// ApplyBulkUpdate ingests a batch of provider-proposed fields. Each proposal
// stands alone: a malformed or outvoted proposal is reported and skipped while
// the rest of the batch lands. Provider enum spellings are normalized before
// validation; values that are still invalid afterwards are rejected, never
// coerced.
func (e *Engine) ApplyBulkUpdate(ctx context.Context, sessionID, source string, proposals []models.ProposedField) (*models.BulkUpdateResponse, error) {
	if source != models.SourceParallelAI && source != models.SourceJDPaste {
		return nil, fmt.Errorf("unknown bulk source %q", source)
	}
	if len(proposals) == 0 {
		return nil, fmt.Errorf("no updates provided")
	}

	var (
		updates []merge.FieldUpdate
		reasons []string
	)
	for _, prop := range proposals {
		translated, err := translateProposal(prop, source)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", prop.Field, err))
			continue
		}
		updates = append(updates, translated...)
	}

	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// A completed profile is frozen against background providers. The agent
	// can still edit through the conversation tools.
	if p.IsComplete {
		return &models.BulkUpdateResponse{
			Rejected: len(proposals),
			Reasons:  []string{"profile already complete; background updates ignored"},
			Status:   gaps.Summary(p),
		}, nil
	}

	nuancesBefore := len(p.Nuances)
	out := merge.Apply(p, updates)
	for _, r := range out.Rejected {
		reasons = append(reasons, r.Reason)
	}

	resp := &models.BulkUpdateResponse{
		Applied:  len(out.Applied),
		Rejected: len(reasons),
		Reasons:  reasons,
	}

	if len(out.Applied) == 0 {
		resp.Status = gaps.Summary(p)
		return resp, nil
	}

	status := e.refreshCompletion(p)
	if err := e.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	resp.Status = status

	e.publishBulkEvents(p, out, status, nuancesBefore)

	log.Printf("[Engine] Bulk update from %s on session %s: %d applied, %d rejected",
		source, sessionID, resp.Applied, len(reasons))
	return resp, nil
}

// SaveOutreach stores a drafted outreach message on the profile. Outreach is
// derived content, not onboarding data: it bypasses the merge policy, lands
// even on completed profiles, and does not broadcast.
func (e *Engine) SaveOutreach(ctx context.Context, sessionID string, outreach models.Outreach) error {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return err
	}

	p.Outreach = &outreach
	p.UpdatedAt = time.Now().UTC()

	if err := e.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save outreach: %w", err)
	}
	return nil
}

// SetResearchState records the background research lifecycle on the profile.
// State changes are visible through status reads; they do not broadcast.
func (e *Engine) SetResearchState(ctx context.Context, sessionID, state, detail string) error {
	lock := e.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p, err := e.load(ctx, sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.Research = models.ResearchState{Status: state, Detail: detail, UpdatedAt: now}
	p.UpdatedAt = now

	if err := e.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save research state: %w", err)
	}

	log.Printf("[Engine] Session %s research state: %s", sessionID, state)
	return nil
}

// translateProposal converts one provider proposal into merge updates.
// Collection fields (traits, interview_stages, nuances) accept a single
// object or an array of objects; scalar fields accept full ledger paths or
// bare field names.
func translateProposal(prop models.ProposedField, source string) ([]merge.FieldUpdate, error) {
	confidence := clampConfidence(prop.Confidence)
	field := strings.TrimSpace(prop.Field)

	switch field {
	case "traits":
		items, err := collectionItems(prop.Value)
		if err != nil {
			return nil, err
		}
		updates := make([]merge.FieldUpdate, 0, len(items))
		for _, item := range items {
			var trait models.Trait
			if err := decodeInto(item, &trait); err != nil {
				return nil, fmt.Errorf("malformed trait: %w", err)
			}
			trait.Priority = models.NormalizePriority(trait.Priority)
			if trait.Priority == "" {
				trait.Priority = models.PriorityNiceToHave
			}
			updates = append(updates, merge.NewTraitUpsert(trait, confidence, source))
		}
		return updates, nil

	case "interview_stages":
		items, err := collectionItems(prop.Value)
		if err != nil {
			return nil, err
		}
		updates := make([]merge.FieldUpdate, 0, len(items))
		for _, item := range items {
			var stage models.InterviewStage
			if err := decodeInto(item, &stage); err != nil {
				return nil, fmt.Errorf("malformed interview stage: %w", err)
			}
			updates = append(updates, merge.NewStageUpsert(stage, confidence, source))
		}
		return updates, nil

	case "nuances":
		items, err := collectionItems(prop.Value)
		if err != nil {
			return nil, err
		}
		updates := make([]merge.FieldUpdate, 0, len(items))
		for _, item := range items {
			var nuance models.Nuance
			if err := decodeInto(item, &nuance); err != nil {
				return nil, fmt.Errorf("malformed nuance: %w", err)
			}
			nuance.Category = models.NormalizeNuanceCategory(nuance.Category)
			if nuance.Category == "" {
				nuance.Category = models.NuanceOther
			}
			updates = append(updates, merge.NewNuanceAppend(nuance, confidence, source))
		}
		return updates, nil
	}

	path, ok := resolveFieldPath(field)
	if !ok {
		return nil, fmt.Errorf("unknown field")
	}
	value := normalizeBulkValue(path, prop.Value)
	if err := merge.Validate(path, value); err != nil {
		return nil, err
	}
	return []merge.FieldUpdate{merge.NewSet(path, value, confidence, source)}, nil
}

// publishBulkEvents turns applied updates into change events. Scalar company
// and requirements changes coalesce into one event each; collection changes
// broadcast per item.
func (e *Engine) publishBulkEvents(p *models.JobProfile, out merge.Outcome, status models.StatusSummary, nuancesBefore int) {
	companyChanged := false
	requirementsChanged := false

	for _, a := range out.Applied {
		switch a.Update.Kind {
		case merge.KindSetField:
			switch {
			case strings.HasPrefix(a.Field, "company."):
				companyChanged = true
			case strings.HasPrefix(a.Field, "requirements."):
				requirementsChanged = true
			}
		case merge.KindUpsertTrait:
			eventType := models.EventTraitUpdated
			if a.Created {
				eventType = models.EventTraitCreated
			}
			if idx := p.FindTrait(a.Update.Name); idx >= 0 {
				e.hub.Publish(models.NewChangeEvent(p.SessionID, eventType, p.Traits[idx], status))
			}
		case merge.KindUpsertStage:
			eventType := models.EventStageUpdated
			if a.Created {
				eventType = models.EventStageCreated
			}
			if idx := p.FindStage(a.Update.Name); idx >= 0 {
				e.hub.Publish(models.NewChangeEvent(p.SessionID, eventType, p.InterviewStages[idx], status))
			}
		}
	}

	if companyChanged {
		e.hub.Publish(models.NewChangeEvent(p.SessionID, models.EventCompany, p.Company, status))
	}
	if requirementsChanged {
		e.hub.Publish(models.NewChangeEvent(p.SessionID, models.EventRequirements, p.Requirements, status))
	}
	for _, nuance := range p.Nuances[nuancesBefore:] {
		e.hub.Publish(models.NewChangeEvent(p.SessionID, models.EventNuanceCaptured, nuance, status))
	}
}

// normalizeBulkValue maps common provider spellings of enum values onto the
// canonical ones. Unknown spellings pass through for validation to reject.
func normalizeBulkValue(path string, value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch path {
	case "requirements.location_type":
		return models.NormalizeLocationType(s)
	default:
		return value
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// collectionItems accepts a JSON array or a single object.
func collectionItems(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty collection")
		}
		return v, nil
	case map[string]interface{}:
		return []interface{}{v}, nil
	default:
		return nil, fmt.Errorf("expected an object or an array of objects, got %T", value)
	}
}

// decodeInto round-trips a decoded JSON value into a typed struct.
func decodeInto(value, target interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
