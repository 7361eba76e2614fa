package models

import (
	"time"

	"github.com/google/uuid"
)

// Change event types broadcast to session subscribers
const (
	EventCompany            = "company"
	EventRequirements       = "requirements"
	EventTraitCreated       = "trait_created"
	EventTraitUpdated       = "trait_updated"
	EventTraitDeleted       = "trait_deleted"
	EventStageCreated       = "stage_created"
	EventStageUpdated       = "stage_updated"
	EventStageDeleted       = "stage_deleted"
	EventNuanceCaptured     = "nuance_captured"
	EventFieldComplete      = "field_complete"
	EventOnboardingComplete = "onboarding_complete"
)

// StatusSummary is the completion snapshot attached to every change event and
// returned by the status endpoints.
// @Description Completion status of a profile
type StatusSummary struct {
	CompletionPct int      `json:"completion_pct" example:"75"`
	Missing       []string `json:"missing" example:"traits,interview_stages"`
	TraitsCount   int      `json:"traits_count" example:"3"`
	StagesCount   int      `json:"stages_count" example:"4"`
	IsComplete    bool     `json:"is_complete" example:"false"`
}

// ChangeEvent is one incremental profile change fanned out to subscribers.
// Data is typed per the event's Type; Status rides along so clients can update
// completion meters without a refetch.
// @Description Incremental profile change event
type ChangeEvent struct {
	ID        string        `json:"id" example:"7f9c24e8-48f0-4ad3-b192-74ef1a9f10c4"`
	SessionID string        `json:"session_id"`
	Type      string        `json:"type" example:"trait_created"`
	Data      interface{}   `json:"data"`
	Status    StatusSummary `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewChangeEvent builds an event envelope with a fresh id and timestamp.
func NewChangeEvent(sessionID, eventType string, data interface{}, status StatusSummary) ChangeEvent {
	return ChangeEvent{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Type:      eventType,
		Data:      data,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
