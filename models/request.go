package models

import (
	"encoding/json"
	"time"
)

// ProposedField is one provider-proposed value for a logical field, shared by
// the bulk-ingest surface and both provider reports.
// @Description Proposed value for one profile field with provider confidence
type ProposedField struct {
	Field      string      `json:"field" binding:"required" example:"requirements.salary_min"`
	Value      interface{} `json:"value" example:"180000"`
	Confidence float64     `json:"confidence" example:"0.8"`
}

// ProviderReport is the structured output of a research or extraction provider.
type ProviderReport struct {
	Summary string          `json:"summary,omitempty"`
	Fields  []ProposedField `json:"fields"`
}

// CreateSessionRequest starts (or resumes) an onboarding session.
// @Description Session creation request; company info triggers background research
type CreateSessionRequest struct {
	SessionID      string `json:"session_id,omitempty" example:"0b9dc7a2-5c4e-4f0a-9f14-2d1f8a9be301"`
	CompanyName    string `json:"company_name,omitempty" example:"Acme Robotics"`
	CompanyWebsite string `json:"company_website,omitempty" example:"https://acme.dev"`
	JobTitle       string `json:"job_title,omitempty" example:"Staff Engineer"`
}

// SessionSummary is one row of the session listing.
// @Description Compact session overview
type SessionSummary struct {
	SessionID     string    `json:"session_id"`
	CompanyName   string    `json:"company_name,omitempty" example:"Acme Robotics"`
	JobTitle      string    `json:"job_title,omitempty" example:"Staff Engineer"`
	CompletionPct int       `json:"completion_pct" example:"75"`
	IsComplete    bool      `json:"is_complete"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SessionListResponse wraps the session listing.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Count    int              `json:"count" example:"2"`
}

// BulkUpdateRequest is the ingest payload pushed by research/extraction
// collaborators. Source applies to the whole batch.
// @Description Bulk field updates from an automated provider
type BulkUpdateRequest struct {
	Source  string          `json:"source" binding:"required" example:"parallel_ai"`
	Updates []ProposedField `json:"updates" binding:"required"`
}

// BulkUpdateResponse reports how a bulk batch fared.
type BulkUpdateResponse struct {
	Applied  int           `json:"applied" example:"6"`
	Rejected int           `json:"rejected" example:"1"`
	Reasons  []string      `json:"reasons,omitempty"`
	Status   StatusSummary `json:"status"`
}

// DocumentIngestRequest carries a pasted job description for extraction.
// @Description Pasted job description text
type DocumentIngestRequest struct {
	Text string `json:"text" binding:"required" example:"We are hiring a Staff Engineer to lead our platform team..."`
}

// DocumentIngestResponse acknowledges an accepted document.
type DocumentIngestResponse struct {
	Message     string `json:"message" example:"Document accepted; extraction in progress"`
	ArtifactURL string `json:"artifact_url,omitempty"`
}

// StatusResponse is the read-side snapshot of a session: completion checklist
// plus the background research state.
// @Description Completion status and research state for one session
type StatusResponse struct {
	SessionID string        `json:"session_id"`
	Status    StatusSummary `json:"status"`
	Research  ResearchState `json:"research"`
}

// ToolCallRequest is the REST form of a tool invocation.
// @Description Direct tool invocation for agent platforms using plain HTTP
type ToolCallRequest struct {
	Name      string          `json:"name" binding:"required" example:"create_trait"`
	Arguments json.RawMessage `json:"arguments"`
	CallID    string          `json:"call_id,omitempty" example:"call_8f2c1"`
}

// ToolAck is the success payload of every mutating tool: a short utterance the
// agent may speak plus the fresh completion status.
type ToolAck struct {
	Acknowledgment string        `json:"acknowledgment" example:"Added trait \"Distributed Systems\"."`
	Status         StatusSummary `json:"status"`
}

// ErrorResponse represents an API error response
// @Description Standard error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Code    int    `json:"code" example:"400"`
	Details string `json:"details,omitempty" example:"location_type must be one of remote, hybrid, onsite"`
}

// HealthResponse represents health check response
// @Description Server health status
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	Timestamp string `json:"timestamp" example:"2025-06-15T10:30:00Z"`
}
