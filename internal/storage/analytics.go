// Package storage implements the PostgreSQL repositories for analytics,
// SEO, and content data.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// AnalyticsStore manages the append-only analytics tables.
type AnalyticsStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewAnalyticsStore creates an AnalyticsStore backed by db.
func NewAnalyticsStore(db *sql.DB, log logger.Logger) *AnalyticsStore {
	return &AnalyticsStore{db: db, log: log}
}

// InsertEvent stores a single analytics event.
func (s *AnalyticsStore) InsertEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO analytics_events (
			id, event_type, event_name, page_url, session_id,
			metadata, user_agent, referrer, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.EventName,
		event.PageURL,
		event.SessionID,
		metadataJSON,
		event.UserAgent,
		event.Referrer,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}

	return nil
}

// InsertMetrics stores a batch of performance metrics in one statement.
// The caller is responsible for filtering out non-finite values first.
func (s *AnalyticsStore) InsertMetrics(ctx context.Context, metrics []domain.PerformanceMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	const columnsPerRow = 6

	query := "INSERT INTO page_performance (id, page_url, metric_name, metric_value, user_agent, created_at) VALUES "
	args := make([]any, 0, len(metrics)*columnsPerRow)

	now := time.Now()
	for i := range metrics {
		if i > 0 {
			query += ", "
		}
		base := i * columnsPerRow
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)

		args = append(args,
			uuid.New().String(),
			metrics[i].PageURL,
			metrics[i].MetricName,
			metrics[i].MetricValue,
			metrics[i].UserAgent,
			now,
		)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert performance metrics: %w", err)
	}

	s.log.Debug("Inserted performance metrics",
		logger.Int("count", len(metrics)),
	)

	return nil
}

// InsertScroll stores a single scroll-depth sample.
func (s *AnalyticsStore) InsertScroll(ctx context.Context, sample *domain.ScrollSample) error {
	sample.ID = uuid.New().String()
	sample.CreatedAt = time.Now()

	query := `
		INSERT INTO scroll_tracking (
			id, page_url, max_scroll_percentage, time_on_page, session_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		sample.ID,
		sample.PageURL,
		sample.MaxScrollPercent,
		sample.TimeOnPageSeconds,
		sample.SessionID,
		sample.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scroll sample: %w", err)
	}

	return nil
}

// EventsSince returns the event type, name, and page URL of every event
// created at or after the cutoff.
func (s *AnalyticsStore) EventsSince(ctx context.Context, since time.Time) ([]domain.AnalyticsEvent, error) {
	query := `
		SELECT event_type, event_name, page_url
		FROM analytics_events
		WHERE created_at >= $1
	`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.AnalyticsEvent
	for rows.Next() {
		var e domain.AnalyticsEvent
		if scanErr := rows.Scan(&e.EventType, &e.EventName, &e.PageURL); scanErr != nil {
			return nil, fmt.Errorf("scan event: %w", scanErr)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// ScrollsSince returns all scroll samples created at or after the cutoff.
func (s *AnalyticsStore) ScrollsSince(ctx context.Context, since time.Time) ([]domain.ScrollSample, error) {
	query := `
		SELECT max_scroll_percentage, time_on_page
		FROM scroll_tracking
		WHERE created_at >= $1
	`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query scroll samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.ScrollSample
	for rows.Next() {
		var sample domain.ScrollSample
		if scanErr := rows.Scan(&sample.MaxScrollPercent, &sample.TimeOnPageSeconds); scanErr != nil {
			return nil, fmt.Errorf("scan scroll sample: %w", scanErr)
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scroll samples: %w", err)
	}

	return samples, nil
}

// MetricsSince returns all performance metrics created at or after the cutoff.
func (s *AnalyticsStore) MetricsSince(ctx context.Context, since time.Time) ([]domain.PerformanceMetric, error) {
	query := `
		SELECT metric_name, metric_value
		FROM page_performance
		WHERE created_at >= $1
	`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query performance metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.PerformanceMetric
	for rows.Next() {
		var m domain.PerformanceMetric
		if scanErr := rows.Scan(&m.MetricName, &m.MetricValue); scanErr != nil {
			return nil, fmt.Errorf("scan performance metric: %w", scanErr)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance metrics: %w", err)
	}

	return metrics, nil
}
