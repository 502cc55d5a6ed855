package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// SEOStore manages SEO recommendations and search-console page metrics.
type SEOStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSEOStore creates an SEOStore backed by db.
func NewSEOStore(db *sql.DB, log logger.Logger) *SEOStore {
	return &SEOStore{db: db, log: log}
}

// InsertRecommendation stores a normalized SEO recommendation. List-valued
// fields are persisted as JSONB.
func (s *SEOStore) InsertRecommendation(ctx context.Context, rec *domain.Recommendation) error {
	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now()

	keywordsJSON, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	schemaJSON, err := json.Marshal(rec.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema recommendations: %w", err)
	}
	improvementsJSON, err := json.Marshal(rec.ContentImprovements)
	if err != nil {
		return fmt.Errorf("marshal content improvements: %w", err)
	}

	query := `
		INSERT INTO ai_recommendations (
			id, url, meta_title, meta_description, keywords,
			schema, content_improvements, confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.URL,
		rec.MetaTitle,
		rec.MetaDescription,
		keywordsJSON,
		schemaJSON,
		improvementsJSON,
		rec.Confidence,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert seo recommendation: %w", err)
	}

	return nil
}

// LatestRecommendation returns the most recent recommendation for a URL, or
// nil when none exists.
func (s *SEOStore) LatestRecommendation(ctx context.Context, url string) (*domain.Recommendation, error) {
	query := `
		SELECT id, url, meta_title, meta_description, keywords,
		       schema, content_improvements, confidence, created_at
		FROM ai_recommendations
		WHERE url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		rec              domain.Recommendation
		keywordsJSON     []byte
		schemaJSON       []byte
		improvementsJSON []byte
	)

	err := s.db.QueryRowContext(ctx, query, url).Scan(
		&rec.ID,
		&rec.URL,
		&rec.MetaTitle,
		&rec.MetaDescription,
		&keywordsJSON,
		&schemaJSON,
		&improvementsJSON,
		&rec.Confidence,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query seo recommendation: %w", err)
	}

	if err := json.Unmarshal(keywordsJSON, &rec.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal(schemaJSON, &rec.Schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema recommendations: %w", err)
	}
	if err := json.Unmarshal(improvementsJSON, &rec.ContentImprovements); err != nil {
		return nil, fmt.Errorf("unmarshal content improvements: %w", err)
	}

	return &rec, nil
}

// InsertPageMetric stores one search-console metric row for a URL and date.
func (s *SEOStore) InsertPageMetric(ctx context.Context, metric *domain.PageMetric) error {
	metric.ID = uuid.New().String()
	metric.CreatedAt = time.Now()

	queries := metric.Queries
	if queries == nil {
		queries = []string{}
	}
	queriesJSON, err := json.Marshal(queries)
	if err != nil {
		return fmt.Errorf("marshal queries: %w", err)
	}

	query := `
		INSERT INTO page_metrics (
			id, url, date, clicks, impressions, queries, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		metric.ID,
		metric.URL,
		metric.Date,
		metric.Clicks,
		metric.Impressions,
		queriesJSON,
		metric.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert page metric: %w", err)
	}

	return nil
}

// PageMetricsForURL returns the metric rows for a URL recorded at or after
// the cutoff, newest first, along with their click and impression totals.
func (s *SEOStore) PageMetricsForURL(ctx context.Context, url string, since time.Time) ([]domain.PageMetric, domain.MetricTotals, error) {
	query := `
		SELECT id, url, date, clicks, impressions, queries, created_at
		FROM page_metrics
		WHERE url = $1 AND created_at >= $2
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, url, since)
	if err != nil {
		return nil, domain.MetricTotals{}, fmt.Errorf("query page metrics: %w", err)
	}
	defer rows.Close()

	var (
		metrics []domain.PageMetric
		totals  domain.MetricTotals
	)
	for rows.Next() {
		var (
			m           domain.PageMetric
			queriesJSON []byte
		)
		if scanErr := rows.Scan(&m.ID, &m.URL, &m.Date, &m.Clicks, &m.Impressions, &queriesJSON, &m.CreatedAt); scanErr != nil {
			return nil, domain.MetricTotals{}, fmt.Errorf("scan page metric: %w", scanErr)
		}
		if unmarshalErr := json.Unmarshal(queriesJSON, &m.Queries); unmarshalErr != nil {
			return nil, domain.MetricTotals{}, fmt.Errorf("unmarshal queries: %w", unmarshalErr)
		}

		totals.Clicks += m.Clicks
		totals.Impressions += m.Impressions
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.MetricTotals{}, fmt.Errorf("iterate page metrics: %w", err)
	}

	return metrics, totals, nil
}
