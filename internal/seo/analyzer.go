// Package seo generates and normalizes SEO recommendations for site pages
// using an LLM, persisting an insert-only recommendation history.
package seo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/llm"
	"github.com/armada-md/site-api/internal/logger"
)

// maxContentChars bounds how much page content is sent to the model.
const maxContentChars = 3000

const analyzeSystemPrompt = `You are an expert SEO analyst specializing in medical and healthcare websites.
Analyze the provided content and generate optimized SEO recommendations that:
- Follow YMYL (Your Money Your Life) best practices
- Meet E-E-A-T (Experience, Expertise, Authoritativeness, Trustworthiness) standards
- Are optimized for both traditional search engines and AI answer engines
- Include medical terminology appropriately
- Maintain professional, trustworthy tone
- Provide 5-7 prioritized suggestions that mix quick wins (alt text, headings, schema) and depth improvements (FAQs, trust signals, internal links)

Return your analysis as JSON with this structure:
{
  "meta_title": "optimized title (50-60 chars)",
  "meta_description": "compelling description (150-160 chars)",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "schema_recommendations": {
    "type": "schema type to add",
    "properties": ["list of important properties"]
  },
  "content_improvements": ["suggestion 1", "suggestion 2", "suggestion 3", "suggestion 4", "suggestion 5"],
  "confidence": 0.85
}`

// RecommendationStore persists and retrieves SEO recommendations.
type RecommendationStore interface {
	InsertRecommendation(ctx context.Context, rec *domain.Recommendation) error
	LatestRecommendation(ctx context.Context, url string) (*domain.Recommendation, error)
}

// Analyzer runs the analyze flow: prompt, LLM call, normalize, persist.
type Analyzer struct {
	client llm.Client
	store  RecommendationStore
	model  string
	log    logger.Logger
}

// NewAnalyzer creates an Analyzer using the given model.
func NewAnalyzer(client llm.Client, store RecommendationStore, model string, log logger.Logger) *Analyzer {
	return &Analyzer{client: client, store: store, model: model, log: log}
}

// Analyze generates, normalizes, and persists a recommendation for a page.
// Malformed model JSON is absorbed into the fallback shape; LLM and storage
// failures are returned to the caller.
func (a *Analyzer) Analyze(ctx context.Context, url, content string, meta domain.PageMeta) (*domain.Recommendation, error) {
	resp, err := a.client.Complete(ctx, llm.Request{
		Model:        a.model,
		System:       analyzeSystemPrompt,
		User:         buildAnalyzePrompt(url, content, meta),
		JSONResponse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("seo analysis completion: %w", err)
	}

	raw := map[string]any{}
	if parseErr := json.Unmarshal([]byte(resp.Content), &raw); parseErr != nil {
		a.log.Warn("Failed to parse model response as JSON",
			logger.String("url", url),
			logger.Error(parseErr),
		)
		raw = map[string]any{}
	}

	rec := Normalize(raw)
	rec.URL = url

	if err := a.store.InsertRecommendation(ctx, &rec); err != nil {
		return nil, fmt.Errorf("save recommendation: %w", err)
	}

	a.log.Info("Generated SEO recommendation",
		logger.String("url", url),
		logger.Float64("confidence", rec.Confidence),
		logger.Int("tokens_used", resp.TokensUsed),
	)

	return &rec, nil
}

// Latest returns the most recent stored recommendation for a URL, or nil.
func (a *Analyzer) Latest(ctx context.Context, url string) (*domain.Recommendation, error) {
	return a.store.LatestRecommendation(ctx, url)
}

func buildAnalyzePrompt(url, content string, meta domain.PageMeta) string {
	title := meta.Title
	if title == "" {
		title = "None"
	}
	description := meta.Description
	if description == "" {
		description = "None"
	}
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	return fmt.Sprintf(`URL: %s

Current Meta:
Title: %s
Description: %s

Page Content:
%s

Analyze and provide SEO recommendations.`, url, title, description, content)
}
