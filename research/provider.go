// Package research runs background enrichment: company research after session
// creation, document extraction for pasted job descriptions, and outreach
// drafting after onboarding completes. All of it is best-effort and detached
// from the request that triggered it.
package research

import (
	"context"

	"github.com/rolebrief/backend/models"
)

// CompanyResearcher produces company intelligence as scored field proposals.
type CompanyResearcher interface {
	Research(ctx context.Context, companyName, website string) (*models.ProviderReport, error)
}

// DocumentExtractor turns a pasted document into scored field proposals.
type DocumentExtractor interface {
	Extract(ctx context.Context, text string) (*models.ProviderReport, error)
}

// OutreachDrafter writes candidate outreach copy from a completed profile.
type OutreachDrafter interface {
	Draft(ctx context.Context, profile *models.JobProfile) (*models.ProviderReport, error)
}
