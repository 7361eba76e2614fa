package research

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/storage"
)

// fallbackConfidence is recorded for the minimal data applied when a research
// run fails outright. Low enough that any later source wins.
const fallbackConfidence = 0.2

// Manager runs providers in detached goroutines so requests return
// immediately. Each job carries its own timeout; results flow back through
// the engine's bulk-ingest path and lose merges like any other provider.
type Manager struct {
	engine     *engine.Engine
	researcher CompanyResearcher
	extractor  DocumentExtractor
	drafter    OutreachDrafter
	artifacts  *storage.ArtifactStore
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewManager wires a Manager. Any provider may be nil, which disables the
// corresponding kickoff; artifacts may be nil to skip report archiving.
func NewManager(eng *engine.Engine, researcher CompanyResearcher, extractor DocumentExtractor, drafter OutreachDrafter, artifacts *storage.ArtifactStore, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Manager{
		engine:     eng,
		researcher: researcher,
		extractor:  extractor,
		drafter:    drafter,
		artifacts:  artifacts,
		timeout:    timeout,
	}
}

// Wait blocks until every in-flight background job finishes. Called during
// shutdown and by tests.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// KickoffResearch starts company research in the background. The research
// state is marked running before this returns, so an immediate status read
// already sees it.
func (m *Manager) KickoffResearch(sessionID, companyName, website string) {
	if m.researcher == nil || strings.TrimSpace(companyName) == "" {
		return
	}

	m.setState(sessionID, models.ResearchRunning, "company research")
	log.Printf("[Research] Kicking off company research for session %s (%s)", sessionID, companyName)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		report, err := m.researcher.Research(ctx, companyName, website)
		if err != nil {
			log.Printf("[Research] Company research failed for session %s: %v", sessionID, err)
			m.applyFallback(sessionID, companyName)
			m.setState(sessionID, models.ResearchDegraded, "company research failed: "+err.Error())
			return
		}

		m.archive(sessionID, "company_research", report)

		applyCtx, applyCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer applyCancel()
		resp, err := m.engine.ApplyBulkUpdate(applyCtx, sessionID, models.SourceParallelAI, report.Fields)
		if err != nil {
			log.Printf("[Research] Failed to apply research for session %s: %v", sessionID, err)
			m.setState(sessionID, models.ResearchDegraded, "company research produced no usable fields")
			return
		}

		log.Printf("[Research] Research applied for session %s: %d fields, %d rejected",
			sessionID, resp.Applied, resp.Rejected)
		m.setState(sessionID, models.ResearchComplete, "")
	}()
}

// KickoffExtraction starts document extraction in the background.
func (m *Manager) KickoffExtraction(sessionID, documentText string) {
	if m.extractor == nil || strings.TrimSpace(documentText) == "" {
		return
	}

	m.setState(sessionID, models.ResearchRunning, "document extraction")
	log.Printf("[Research] Kicking off extraction for session %s (%d bytes)", sessionID, len(documentText))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		report, err := m.extractor.Extract(ctx, documentText)
		if err != nil {
			log.Printf("[Research] Extraction failed for session %s: %v", sessionID, err)
			m.setState(sessionID, models.ResearchDegraded, "document extraction failed: "+err.Error())
			return
		}

		m.archive(sessionID, "document_extraction", report)

		applyCtx, applyCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer applyCancel()
		resp, err := m.engine.ApplyBulkUpdate(applyCtx, sessionID, models.SourceJDPaste, report.Fields)
		if err != nil {
			log.Printf("[Research] Failed to apply extraction for session %s: %v", sessionID, err)
			m.setState(sessionID, models.ResearchDegraded, "document extraction produced no usable fields")
			return
		}

		log.Printf("[Research] Extraction applied for session %s: %d fields, %d rejected",
			sessionID, resp.Applied, resp.Rejected)
		m.setState(sessionID, models.ResearchComplete, "")
	}()
}

// KickoffOutreach drafts outreach copy for a completed profile. Failures are
// logged and dropped: outreach is a bonus, never a blocker.
func (m *Manager) KickoffOutreach(sessionID string) {
	if m.drafter == nil {
		return
	}

	log.Printf("[Research] Kicking off outreach draft for session %s", sessionID)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		profile, err := m.engine.GetProfile(ctx, sessionID)
		if err != nil {
			log.Printf("[Research] Outreach draft aborted for session %s: %v", sessionID, err)
			return
		}

		report, err := m.drafter.Draft(ctx, profile)
		if err != nil {
			log.Printf("[Research] Outreach draft failed for session %s: %v", sessionID, err)
			return
		}

		m.archive(sessionID, "outreach_draft", report)

		outreach := outreachFromReport(report)
		if outreach == (models.Outreach{}) {
			log.Printf("[Research] Outreach draft for session %s came back empty", sessionID)
			return
		}

		saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer saveCancel()
		if err := m.engine.SaveOutreach(saveCtx, sessionID, outreach); err != nil {
			log.Printf("[Research] Failed to save outreach for session %s: %v", sessionID, err)
		}
	}()
}

// applyFallback records the minimum the profile should carry after a failed
// research run. A low-confidence company name loses to any seed or later
// source.
func (m *Manager) applyFallback(sessionID, companyName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.engine.ApplyBulkUpdate(ctx, sessionID, models.SourceParallelAI, []models.ProposedField{
		{Field: "company.name", Value: companyName, Confidence: fallbackConfidence},
	})
	if err != nil {
		log.Printf("[Research] Failed to apply research fallback for session %s: %v", sessionID, err)
	}
}

func (m *Manager) setState(sessionID, state, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.engine.SetResearchState(ctx, sessionID, state, detail); err != nil {
		log.Printf("[Research] Failed to set research state for session %s: %v", sessionID, err)
	}
}

func (m *Manager) archive(sessionID, kind string, report *models.ProviderReport) {
	if m.artifacts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url, err := m.artifacts.SaveReport(ctx, sessionID, kind, report)
	if err != nil {
		log.Printf("[Research] Failed to archive %s report for session %s: %v", kind, sessionID, err)
		return
	}
	log.Printf("[Research] Archived %s report for session %s: %s", kind, sessionID, url)
}

// outreachFromReport collects the outreach fields of a report. Field names
// may be fully qualified or bare.
func outreachFromReport(report *models.ProviderReport) models.Outreach {
	var o models.Outreach
	for _, f := range report.Fields {
		s, ok := f.Value.(string)
		if !ok {
			continue
		}
		switch strings.TrimPrefix(f.Field, "outreach.") {
		case "tone":
			o.Tone = s
		case "key_hook":
			o.KeyHook = s
		case "subject":
			o.Subject = s
		case "body":
			o.Body = s
		}
	}
	return o
}
