package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/research"
)

// completeProfile drives a session through every checklist item.
func completeProfile(t *testing.T, eng *engine.Engine, sid string) {
	t.Helper()
	ctx := context.Background()

	_, err := eng.UpdateRequirements(ctx, sid, map[string]interface{}{
		"job_title":        "Staff Engineer",
		"location_type":    models.LocationRemote,
		"experience_min":   5,
		"salary_min":       180000,
		"visa_sponsorship": false,
		"equity_offered":   true,
	})
	require.NoError(t, err)

	_, _, err = eng.CreateTrait(ctx, sid, models.Trait{
		Name:        "Grit",
		Description: "Pushes through ambiguity",
		Priority:    models.PriorityMustHave,
	})
	require.NoError(t, err)

	_, _, err = eng.CreateInterviewStage(ctx, sid, models.InterviewStage{Name: "Phone Screen"})
	require.NoError(t, err)
}

func TestUpdateCompanyFieldTool(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "update_company_field",
		json.RawMessage(`{"session_id":"s1","field":"industry","value":"robotics"}`), "")
	require.NoError(t, err)
	ack := decodeAck(t, unwrap(t, raw))
	assert.Contains(t, ack.Acknowledgment, "industry")

	p, err := eng.GetProfile(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "robotics", p.Company.Industry)
}

func TestUpdateCompanyFieldRejectsUnknownField(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "update_company_field",
		json.RawMessage(`{"session_id":"s1","field":"stock_ticker","value":"ACME"}`), "")
	require.NoError(t, err)
	assert.False(t, unwrap(t, raw).Success)
}

func TestUpdateRequirementsTool(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "update_requirements",
		json.RawMessage(`{"session_id":"s1","fields":{"job_title":"Staff Engineer","salary_min":180000}}`), "")
	require.NoError(t, err)
	ack := decodeAck(t, unwrap(t, raw))
	assert.Contains(t, ack.Acknowledgment, "job_title")
	assert.Contains(t, ack.Acknowledgment, "salary_min")
	assert.NotContains(t, ack.Status.Missing, "job_title")
	assert.NotContains(t, ack.Status.Missing, "salary_min")
}

func TestUpdateRequirementsSchemaCatchesBadEnum(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "update_requirements",
		json.RawMessage(`{"session_id":"s1","fields":{"job_title":"SRE","location_type":"asteroid"}}`), "")
	require.NoError(t, err)
	assert.False(t, unwrap(t, raw).Success)

	p, err := eng.GetProfile(context.Background(), sid)
	require.NoError(t, err)
	assert.Empty(t, p.Requirements.JobTitle, "a rejected batch applies nothing")
}

func TestTraitToolLifecycle(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)
	ctx := context.Background()

	create := json.RawMessage(`{"session_id":"s1","name":"Grit","description":"Pushes through","priority":"must_have"}`)
	raw, err := r.Dispatch(ctx, "create_trait", create, "")
	require.NoError(t, err)
	assert.Contains(t, decodeAck(t, unwrap(t, raw)).Acknowledgment, "Added")

	raw, err = r.Dispatch(ctx, "create_trait", create, "")
	require.NoError(t, err)
	assert.Contains(t, decodeAck(t, unwrap(t, raw)).Acknowledgment, "Replaced")

	raw, err = r.Dispatch(ctx, "update_trait",
		json.RawMessage(`{"session_id":"s1","name":"Resilience","description":"x"}`), "")
	require.NoError(t, err)
	res := unwrap(t, raw)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not found")

	raw, err = r.Dispatch(ctx, "delete_trait", json.RawMessage(`{"session_id":"s1","name":"grit"}`), "")
	require.NoError(t, err)
	assert.Contains(t, decodeAck(t, unwrap(t, raw)).Acknowledgment, "Removed")

	// Idempotent: a second delete still succeeds.
	raw, err = r.Dispatch(ctx, "delete_trait", json.RawMessage(`{"session_id":"s1","name":"grit"}`), "")
	require.NoError(t, err)
	assert.Contains(t, decodeAck(t, unwrap(t, raw)).Acknowledgment, "nothing removed")
}

func TestStageToolLifecycle(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	r := newRegistry(eng)
	ctx := context.Background()

	raw, err := r.Dispatch(ctx, "create_interview_stage",
		json.RawMessage(`{"session_id":"s1","name":"Phone Screen","duration_minutes":30}`), "")
	require.NoError(t, err)
	decodeAck(t, unwrap(t, raw))

	raw, err = r.Dispatch(ctx, "create_interview_stage",
		json.RawMessage(`{"session_id":"s1","name":"Onsite"}`), "")
	require.NoError(t, err)
	decodeAck(t, unwrap(t, raw))

	raw, err = r.Dispatch(ctx, "update_interview_stage",
		json.RawMessage(`{"session_id":"s1","name":"onsite","interviewer_role":"CTO"}`), "")
	require.NoError(t, err)
	decodeAck(t, unwrap(t, raw))

	raw, err = r.Dispatch(ctx, "delete_interview_stage",
		json.RawMessage(`{"session_id":"s1","name":"Phone Screen"}`), "")
	require.NoError(t, err)
	decodeAck(t, unwrap(t, raw))

	p, err := eng.GetProfile(ctx, sid)
	require.NoError(t, err)
	require.Len(t, p.InterviewStages, 1)
	assert.Equal(t, "Onsite", p.InterviewStages[0].Name)
	assert.Equal(t, 1, p.InterviewStages[0].Order, "orders stay dense after deletion")
	assert.Equal(t, "CTO", p.InterviewStages[0].InterviewerRole)
}

func TestStageSchemaRejectsZeroDuration(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "create_interview_stage",
		json.RawMessage(`{"session_id":"s1","name":"Screen","duration_minutes":0}`), "")
	require.NoError(t, err)
	assert.False(t, unwrap(t, raw).Success)
}

func TestMarkFieldCompleteTool(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	r := newRegistry(eng)
	ctx := context.Background()

	// A low-confidence value arrives from a pasted document.
	_, err := eng.ApplyBulkUpdate(ctx, sid, models.SourceJDPaste, []models.ProposedField{
		{Field: "requirements.salary_min", Value: float64(170000), Confidence: 0.5},
	})
	require.NoError(t, err)

	raw, err := r.Dispatch(ctx, "mark_field_complete",
		json.RawMessage(`{"session_id":"s1","field":"salary_min"}`), "")
	require.NoError(t, err)
	ack := decodeAck(t, unwrap(t, raw))
	assert.Contains(t, ack.Acknowledgment, "salary_min")

	p, err := eng.GetProfile(ctx, sid)
	require.NoError(t, err)
	conf, ok := p.LatestConfidence("requirements.salary_min")
	require.True(t, ok)
	assert.Equal(t, 1.0, conf)
	require.NotNil(t, p.Requirements.SalaryMin)
	assert.Equal(t, 170000, *p.Requirements.SalaryMin, "confirming does not change the value")
}

func TestCompleteOnboardingToolRefusesIncomplete(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "complete_onboarding",
		json.RawMessage(`{"session_id":"s1"}`), "")
	require.NoError(t, err)
	res := unwrap(t, raw)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "missing")
	assert.Contains(t, res.Error, "traits")
}

func TestCompleteOnboardingToolKicksOffOutreach(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	completeProfile(t, eng, sid)

	drafter := &toolStubDrafter{report: &models.ProviderReport{
		Fields: []models.ProposedField{
			{Field: "outreach.subject", Value: "Join Acme"},
			{Field: "outreach.body", Value: "Hello..."},
		},
	}}
	mgr := research.NewManager(eng, nil, nil, drafter, nil, time.Second)

	r := NewToolRegistry()
	r.Register(NewCompleteOnboardingTool(eng, mgr))

	raw, err := r.Dispatch(context.Background(), "complete_onboarding",
		json.RawMessage(`{"session_id":"s1"}`), "")
	require.NoError(t, err)
	ack := decodeAck(t, unwrap(t, raw))
	assert.Contains(t, ack.Acknowledgment, "outreach")
	assert.True(t, ack.Status.IsComplete)

	mgr.Wait()
	p, err := eng.GetProfile(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, p.Outreach)
	assert.Equal(t, "Join Acme", p.Outreach.Subject)
}

func TestCompleteOnboardingToolIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	sid := newSession(t, eng)
	completeProfile(t, eng, sid)
	r := newRegistry(eng)
	ctx := context.Background()

	raw, err := r.Dispatch(ctx, "complete_onboarding", json.RawMessage(`{"session_id":"s1"}`), "")
	require.NoError(t, err)
	decodeAck(t, unwrap(t, raw))

	raw, err = r.Dispatch(ctx, "complete_onboarding", json.RawMessage(`{"session_id":"s1"}`), "")
	require.NoError(t, err)
	ack := decodeAck(t, unwrap(t, raw))
	assert.Contains(t, ack.Acknowledgment, "already complete")
}

func TestGetProfileStatusTool(t *testing.T) {
	eng := newTestEngine(t)
	newSession(t, eng)
	r := newRegistry(eng)

	raw, err := r.Dispatch(context.Background(), "get_profile_status",
		json.RawMessage(`{"session_id":"s1"}`), "")
	require.NoError(t, err)
	res := unwrap(t, raw)
	require.True(t, res.Success)

	var status models.StatusResponse
	require.NoError(t, json.Unmarshal(res.Data, &status))
	assert.Equal(t, "s1", status.SessionID)
	assert.Equal(t, 0, status.Status.CompletionPct)
	assert.Len(t, status.Status.Missing, 8)
	assert.Equal(t, models.ResearchNone, status.Research.Status)
}

type toolStubDrafter struct {
	report *models.ProviderReport
}

func (s *toolStubDrafter) Draft(_ context.Context, _ *models.JobProfile) (*models.ProviderReport, error) {
	return s.report, nil
}
