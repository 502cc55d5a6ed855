package seo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/llm"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/seo"
)

type fakeRecommendationStore struct {
	inserted []domain.Recommendation
	latest   *domain.Recommendation
	err      error
}

func (f *fakeRecommendationStore) InsertRecommendation(_ context.Context, rec *domain.Recommendation) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, *rec)
	return nil
}

func (f *fakeRecommendationStore) LatestRecommendation(_ context.Context, _ string) (*domain.Recommendation, error) {
	return f.latest, f.err
}

func TestAnalyzer_Analyze(t *testing.T) {
	client := &llm.Fake{
		Responses: []llm.Response{{
			Content:    `{"meta_title":"Armada MD | Ethical AI in Healthcare","meta_description":"Physician-led AI.","keywords":["ethical ai"],"schema_recommendations":{"type":"MedicalOrganization","properties":["name"]},"content_improvements":["Add an about section."],"confidence":0.9}`,
			TokensUsed: 350,
		}},
	}
	store := &fakeRecommendationStore{}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	rec, err := analyzer.Analyze(context.Background(), "/", "Homepage content", domain.PageMeta{Title: "Armada MD"})
	require.NoError(t, err)

	assert.Equal(t, "/", rec.URL)
	assert.Equal(t, "Armada MD | Ethical AI in Healthcare", rec.MetaTitle)
	assert.Equal(t, "MedicalOrganization", rec.Schema.Type)
	assert.GreaterOrEqual(t, len(rec.ContentImprovements), 6)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "/", store.inserted[0].URL)

	require.Len(t, client.Requests, 1)
	assert.Equal(t, "gpt-4o-mini", client.Requests[0].Model)
	assert.True(t, client.Requests[0].JSONResponse)
	assert.Contains(t, client.Requests[0].User, "URL: /")
	assert.Contains(t, client.Requests[0].User, "Homepage content")
}

func TestAnalyzer_AnalyzeMalformedModelJSON(t *testing.T) {
	client := &llm.Fake{
		Responses: []llm.Response{{Content: "sorry, here are my thoughts instead"}},
	}
	store := &fakeRecommendationStore{}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	rec, err := analyzer.Analyze(context.Background(), "/", "content", domain.PageMeta{})
	require.NoError(t, err)

	assert.Equal(t, "Add the correct meta title", rec.MetaTitle)
	assert.GreaterOrEqual(t, len(rec.ContentImprovements), 6)
	assert.Len(t, store.inserted, 1)
}

func TestAnalyzer_AnalyzeLLMError(t *testing.T) {
	client := &llm.Fake{Err: errors.New("upstream timeout")}
	store := &fakeRecommendationStore{}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	_, err := analyzer.Analyze(context.Background(), "/", "content", domain.PageMeta{})
	require.Error(t, err)
	assert.Empty(t, store.inserted)
}

func TestAnalyzer_AnalyzeStorageError(t *testing.T) {
	client := &llm.Fake{Responses: []llm.Response{{Content: `{}`}}}
	store := &fakeRecommendationStore{err: errors.New("connection refused")}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	_, err := analyzer.Analyze(context.Background(), "/", "content", domain.PageMeta{})
	require.Error(t, err)
}

func TestAnalyzer_RunAudit(t *testing.T) {
	client := &llm.Fake{Responses: []llm.Response{{Content: `{}`}}}
	store := &fakeRecommendationStore{}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	results := analyzer.RunAudit(context.Background(), seo.DefaultAuditPages())

	require.Len(t, results, 1)
	assert.Equal(t, "/", results[0].URL)
	assert.True(t, results[0].Success)
	assert.Len(t, store.inserted, 1)
}

func TestAnalyzer_RunAuditContinuesAfterFailure(t *testing.T) {
	client := &llm.Fake{Err: errors.New("rate limited")}
	store := &fakeRecommendationStore{}
	analyzer := seo.NewAnalyzer(client, store, "gpt-4o-mini", logger.NewNop())

	pages := []seo.AuditPage{
		{URL: "/", Content: "home"},
		{URL: "/about", Content: "about"},
	}
	results := analyzer.RunAudit(context.Background(), pages)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	}
}
