// Package content implements AI draft generation for the site: prompt
// construction, sequential LLM calls for body/title/excerpt/keywords, and
// persistence of drafts with a generation audit log.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/llm"
	"github.com/armada-md/site-api/internal/logger"
)

const (
	bodyTemperature    = 0.7
	bodyMaxTokens      = 2000
	titleSourceChars   = 500
	keywordTemperature = 0.3
)

const brandContext = `Context about Armada MD:
- Founded by Dr. Ali Ghahary, a board-certified physician with 20+ years of experience
- Focuses on ethical AI in healthcare
- Products: Armada Housecall (virtual care), Armada AssistMD (AI documentation), Armada ArkPass (patient data management)
- Core values: Patient-centricity, clinician-centricity, data sovereignty, compliance
- Presented "The KNGHT Doctrine" at World Economic Forum on AI ethics in healthcare

Write in a professional, authoritative tone that reflects medical expertise and technological innovation.`

// defaultKeywords is used when the keyword extraction call returns
// unparseable output.
var defaultKeywords = []string{"healthcare", "AI", "innovation"}

// DraftStore persists drafts, templates, and the generation log.
type DraftStore interface {
	InsertDraft(ctx context.Context, draft *domain.ContentDraft) error
	ActiveTemplate(ctx context.Context, contentType domain.DraftType) (*domain.PromptTemplate, error)
	InsertGenerationLog(ctx context.Context, entry *domain.GenerationLogEntry) error
	CountDraftsSince(ctx context.Context, since time.Time) (int, error)
}

// GenerateInput describes one content generation request.
type GenerateInput struct {
	Type         domain.DraftType
	Topic        string
	CustomPrompt string
	Variables    map[string]string
}

// Generator produces content drafts through sequential LLM calls.
type Generator struct {
	client llm.Client
	store  DraftStore
	model  string
	log    logger.Logger
}

// NewGenerator creates a Generator using the given model.
func NewGenerator(client llm.Client, store DraftStore, model string, log logger.Logger) *Generator {
	return &Generator{client: client, store: store, model: model, log: log}
}

// Generate runs the full draft pipeline: body, title, excerpt, and keywords
// are produced by sequential completions, then the draft is persisted with
// status "draft" and the attempt recorded in the generation log. Any LLM or
// storage failure aborts the run with no partial draft saved.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*domain.ContentDraft, error) {
	prompt, err := g.buildPrompt(ctx, input)
	if err != nil {
		return nil, err
	}
	contextPrompt := prompt + "\n\n" + brandContext

	body, bodyTokens, err := g.generateBody(ctx, contextPrompt)
	if err != nil {
		g.logAttempt(ctx, "", contextPrompt, 0, err)
		return nil, err
	}

	title, err := g.generateTitle(ctx, body, input.Topic)
	if err != nil {
		g.logAttempt(ctx, "", contextPrompt, bodyTokens, err)
		return nil, err
	}

	excerpt, err := g.generateExcerpt(ctx, body)
	if err != nil {
		g.logAttempt(ctx, "", contextPrompt, bodyTokens, err)
		return nil, err
	}

	keywords, err := g.generateKeywords(ctx, body)
	if err != nil {
		g.logAttempt(ctx, "", contextPrompt, bodyTokens, err)
		return nil, err
	}

	draft := &domain.ContentDraft{
		Type:          input.Type,
		Title:         title,
		Slug:          Slugify(title),
		Content:       body,
		Excerpt:       excerpt,
		Keywords:      keywords,
		InternalLinks: SuggestInternalLinks(body),
		Status:        domain.StatusDraft,
		Metadata: map[string]any{
			"topic":        input.Topic,
			"generated_at": time.Now().Format(time.RFC3339),
		},
	}
	if len(input.Variables) > 0 {
		draft.Metadata["variables"] = input.Variables
	}

	if err := g.store.InsertDraft(ctx, draft); err != nil {
		g.logAttempt(ctx, "", contextPrompt, bodyTokens, err)
		return nil, fmt.Errorf("save draft: %w", err)
	}

	g.logAttempt(ctx, draft.ID, contextPrompt, bodyTokens, nil)

	return draft, nil
}

func (g *Generator) buildPrompt(ctx context.Context, input GenerateInput) (string, error) {
	if input.CustomPrompt != "" {
		return input.CustomPrompt, nil
	}

	tpl, err := g.store.ActiveTemplate(ctx, input.Type)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	if tpl == nil {
		return fmt.Sprintf(
			"Write a professional %s about %s for a healthcare AI company. Focus on innovation, ethics, and real-world impact.",
			input.Type, input.Topic,
		), nil
	}

	prompt := tpl.Template
	prompt = strings.ReplaceAll(prompt, "{topic}", input.Topic)
	for key, value := range input.Variables {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}
	return prompt, nil
}

func (g *Generator) generateBody(ctx context.Context, contextPrompt string) (string, int, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      "You are an expert medical writer and healthcare technology thought leader. Write clear, engaging, and authoritative content about healthcare AI and innovation.",
		User:        contextPrompt,
		Temperature: bodyTemperature,
		MaxTokens:   bodyMaxTokens,
	})
	if err != nil {
		return "", 0, fmt.Errorf("generate content: %w", err)
	}
	return resp.Content, resp.TokensUsed, nil
}

func (g *Generator) generateTitle(ctx context.Context, body, topic string) (string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      "Generate a compelling, SEO-friendly title for this content. Return only the title, no quotes or extra text.",
		User:        truncate(body, titleSourceChars),
		Temperature: bodyTemperature,
		MaxTokens:   100,
	})
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}

	title := strings.TrimSpace(resp.Content)
	if title == "" {
		title = topic
	}
	return title, nil
}

func (g *Generator) generateExcerpt(ctx context.Context, body string) (string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      "Generate a compelling 2-3 sentence excerpt/summary for this content.",
		User:        truncate(body, titleSourceChars),
		Temperature: bodyTemperature,
		MaxTokens:   150,
	})
	if err != nil {
		return "", fmt.Errorf("generate excerpt: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

func (g *Generator) generateKeywords(ctx context.Context, body string) ([]string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      "Extract 5-7 relevant SEO keywords from this content. Return as a JSON array of strings.",
		User:        body,
		Temperature: keywordTemperature,
		MaxTokens:   100,
	})
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}

	var keywords []string
	if parseErr := json.Unmarshal([]byte(resp.Content), &keywords); parseErr != nil || len(keywords) == 0 {
		return defaultKeywords, nil
	}
	return keywords, nil
}

// logAttempt records a generation attempt best-effort; log failures are
// reported but never override the generation outcome.
func (g *Generator) logAttempt(ctx context.Context, contentID, prompt string, tokens int, genErr error) {
	entry := &domain.GenerationLogEntry{
		ContentID:  contentID,
		Prompt:     prompt,
		Model:      g.model,
		TokensUsed: tokens,
		Success:    genErr == nil,
	}
	if genErr != nil {
		entry.ErrorMessage = genErr.Error()
	}

	if err := g.store.InsertGenerationLog(ctx, entry); err != nil {
		g.log.Warn("Failed to record generation log entry", logger.Error(err))
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
