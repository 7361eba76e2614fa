package research

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rolebrief/backend/gemini"
	"github.com/rolebrief/backend/models"
)

// candidatePaths are fetched off the company website root, in addition to the
// root itself. Careers and about pages carry most of what the research prompt
// looks for.
var candidatePaths = []string{"", "/careers", "/about"}

// GeminiProvider implements all three provider roles on top of one Gemini
// client. Company research fetches the website first so the model reasons
// over real content instead of its own priors.
type GeminiProvider struct {
	client *gemini.Client
	http   *http.Client
}

// NewGeminiProvider wires a provider over a Gemini client and an HTTP client
// for page fetches.
func NewGeminiProvider(client *gemini.Client, httpClient *http.Client) *GeminiProvider {
	return &GeminiProvider{client: client, http: httpClient}
}

// Research fetches the company website and distills it into field proposals.
func (p *GeminiProvider) Research(ctx context.Context, companyName, website string) (*models.ProviderReport, error) {
	pageText := "(no website content available)"
	if website != "" {
		if fetched := p.fetchSitePages(ctx, website); fetched != "" {
			pageText = fetched
		}
	}

	return p.client.ResearchCompany(ctx, companyName, website, pageText)
}

// Extract delegates a pasted document to the extraction prompt.
func (p *GeminiProvider) Extract(ctx context.Context, text string) (*models.ProviderReport, error) {
	return p.client.ExtractJobProfile(ctx, text)
}

// Draft delegates outreach writing to the drafting prompt.
func (p *GeminiProvider) Draft(ctx context.Context, profile *models.JobProfile) (*models.ProviderReport, error) {
	return p.client.DraftOutreach(ctx, profile)
}

// fetchSitePages fetches the website root and its careers/about pages
// concurrently. Individual fetch failures are logged and skipped; the result
// is whatever could be read, separated per page.
func (p *GeminiProvider) fetchSitePages(ctx context.Context, website string) string {
	base := strings.TrimSuffix(strings.TrimSpace(website), "/")

	urls := make([]string, 0, len(candidatePaths))
	for _, path := range candidatePaths {
		urls = append(urls, base+path)
	}

	results := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, pageURL := range urls {
		g.Go(func() error {
			text, err := p.fetchPage(gctx, pageURL)
			if err != nil {
				log.Printf("[Research] Failed to fetch %s: %v", pageURL, err)
				return nil
			}
			results[i] = text
			return nil
		})
	}
	g.Wait()

	var sb strings.Builder
	for i, text := range results {
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- %s ---\n%s\n\n", urls[i], text)
	}
	return strings.TrimSpace(sb.String())
}

func (p *GeminiProvider) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic a browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	// Read body with limit
	maxBytes := int64(2 * 1024 * 1024)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return cleanHTML(string(body)), nil
}

// cleanHTML strips script and style blocks and collapses whitespace so the
// prompt spends its context on content.
func cleanHTML(html string) string {
	for {
		start := strings.Index(strings.ToLower(html), "<script")
		if start == -1 {
			break
		}
		end := strings.Index(strings.ToLower(html[start:]), "</script>")
		if end == -1 {
			break
		}
		html = html[:start] + html[start+end+9:]
	}

	for {
		start := strings.Index(strings.ToLower(html), "<style")
		if start == -1 {
			break
		}
		end := strings.Index(strings.ToLower(html[start:]), "</style>")
		if end == -1 {
			break
		}
		html = html[:start] + html[start+end+8:]
	}

	for strings.Contains(html, "  ") {
		html = strings.ReplaceAll(html, "  ", " ")
	}
	for strings.Contains(html, "\n\n\n") {
		html = strings.ReplaceAll(html, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(html)
}
