package content

import (
	"context"
	"math/rand"
	"time"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// weeklyDraftQuota caps how many drafts the scheduled run may create per
// trailing week, counting manually generated drafts against the quota.
const weeklyDraftQuota = 3

// AutoTopic pairs a content type with a topic from the rotation pool.
type AutoTopic struct {
	Type  domain.DraftType
	Topic string
}

// autoTopics is the fixed pool scheduled generation draws from.
var autoTopics = []AutoTopic{
	{Type: domain.DraftTypeBlog, Topic: "Latest advances in AI-powered clinical documentation"},
	{Type: domain.DraftTypeBlog, Topic: "Ethical considerations in healthcare AI implementation"},
	{Type: domain.DraftTypeBlog, Topic: "Improving patient outcomes through virtual care technology"},
	{Type: domain.DraftTypeBlog, Topic: "Data privacy and security in modern healthcare systems"},
	{Type: domain.DraftTypeProductUpdate, Topic: "New features improving clinical workflow efficiency"},
	{Type: domain.DraftTypeCaseStudy, Topic: "How AI is transforming primary care delivery"},
}

// AutoResult reports one scheduled generation attempt.
type AutoResult struct {
	Type    domain.DraftType `json:"type"`
	Title   string           `json:"title,omitempty"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
}

// AutoGenerate creates drafts from the topic pool up to the weekly quota.
// Per-topic failures are recorded in the results and do not abort the run;
// the returned count is the number of drafts actually created.
func (g *Generator) AutoGenerate(ctx context.Context) (int, []AutoResult, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	recent, err := g.store.CountDraftsSince(ctx, weekAgo)
	if err != nil {
		return 0, nil, err
	}

	toGenerate := weeklyDraftQuota - recent
	if toGenerate <= 0 {
		return 0, []AutoResult{}, nil
	}

	pool := make([]AutoTopic, len(autoTopics))
	copy(pool, autoTopics)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if toGenerate < len(pool) {
		pool = pool[:toGenerate]
	}

	generated := 0
	results := make([]AutoResult, 0, len(pool))
	for _, selection := range pool {
		result := AutoResult{Type: selection.Type}

		draft, genErr := g.Generate(ctx, GenerateInput{Type: selection.Type, Topic: selection.Topic})
		if genErr != nil {
			g.log.Error("Scheduled draft generation failed",
				logger.String("type", string(selection.Type)),
				logger.String("topic", selection.Topic),
				logger.Error(genErr),
			)
			result.Error = genErr.Error()
		} else {
			result.Success = true
			result.Title = draft.Title
			generated++
		}

		results = append(results, result)
	}

	return generated, results, nil
}
