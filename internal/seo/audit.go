package seo

import (
	"context"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// AuditPage is one entry of the fixed page inventory the audit walks.
type AuditPage struct {
	URL     string
	Content string
	Meta    domain.PageMeta
}

// AuditResult reports the outcome of analyzing one page.
type AuditResult struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DefaultAuditPages returns the page inventory covered by the scheduled
// audit. New public pages belong here as they are created.
func DefaultAuditPages() []AuditPage {
	return []AuditPage{
		{
			URL:     "/",
			Content: "Homepage with hero, about, products, ethical AI, and contact sections",
			Meta: domain.PageMeta{
				Title:       "Armada MD - Healthcare Innovation",
				Description: "Physician-led team reimagining healthcare through ethical AI and patient-centered technology.",
			},
		},
	}
}

// RunAudit analyzes every page in the inventory. Per-page failures are
// recorded in the results and do not stop the run.
func (a *Analyzer) RunAudit(ctx context.Context, pages []AuditPage) []AuditResult {
	results := make([]AuditResult, 0, len(pages))

	for _, page := range pages {
		result := AuditResult{URL: page.URL, Success: true}
		if _, err := a.Analyze(ctx, page.URL, page.Content, page.Meta); err != nil {
			a.log.Error("Page audit failed",
				logger.String("url", page.URL),
				logger.Error(err),
			)
			result.Success = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	return results
}
