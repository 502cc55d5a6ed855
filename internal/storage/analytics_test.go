package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/storage"
)

func TestAnalyticsStore_InsertEvent(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewAnalyticsStore(db, logger.NewNop())
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successfully inserts event",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO analytics_events").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "database error returns error",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO analytics_events").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			event := &domain.AnalyticsEvent{
				EventType: "interaction",
				EventName: "cta_click",
				PageURL:   "/products/housecall",
				SessionID: "session-1",
			}

			callErr := store.InsertEvent(ctx, event)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("InsertEvent() error = %v, wantErr %v", callErr, tc.wantErr)
			}
			if !tc.wantErr && event.ID == "" {
				t.Error("expected event ID to be assigned")
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestAnalyticsStore_InsertMetrics(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewAnalyticsStore(db, logger.NewNop())
	ctx := context.Background()

	t.Run("empty batch is a no-op", func(t *testing.T) {
		if err := store.InsertMetrics(ctx, nil); err != nil {
			t.Errorf("InsertMetrics() error = %v, want nil", err)
		}
	})

	t.Run("inserts batch in one statement", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO page_performance").
			WillReturnResult(sqlmock.NewResult(0, 2))

		metrics := []domain.PerformanceMetric{
			{PageURL: "/", MetricName: "LCP", MetricValue: 1820.5},
			{PageURL: "/", MetricName: "CLS", MetricValue: 0.04},
		}
		if err := store.InsertMetrics(ctx, metrics); err != nil {
			t.Errorf("InsertMetrics() error = %v, want nil", err)
		}

		if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
			t.Errorf("unfulfilled expectations: %v", expectErr)
		}
	})

	t.Run("database error returns error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO page_performance").
			WillReturnError(sql.ErrConnDone)

		metrics := []domain.PerformanceMetric{
			{PageURL: "/", MetricName: "TTFB", MetricValue: 210},
		}
		if err := store.InsertMetrics(ctx, metrics); err == nil {
			t.Error("InsertMetrics() error = nil, want error")
		}
	})
}

func TestAnalyticsStore_InsertScroll(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewAnalyticsStore(db, logger.NewNop())
	ctx := context.Background()

	// Scroll depth and dwell time arrive as floats and must be written
	// through unchanged, fractions included.
	mock.ExpectExec("INSERT INTO scroll_tracking").
		WithArgs(sqlmock.AnyArg(), "/about", 75.5, 12.4, "session-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sample := &domain.ScrollSample{
		PageURL:           "/about",
		MaxScrollPercent:  75.5,
		TimeOnPageSeconds: 12.4,
		SessionID:         "session-2",
	}
	if err := store.InsertScroll(ctx, sample); err != nil {
		t.Errorf("InsertScroll() error = %v, want nil", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestAnalyticsStore_EventsSince(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewAnalyticsStore(db, logger.NewNop())
	ctx := context.Background()
	since := time.Now().AddDate(0, 0, -30)

	t.Run("returns matching events", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"event_type", "event_name", "page_url"}).
			AddRow("page_view", "page_view", "/").
			AddRow("interaction", "cta_click", "/products/assistmd")

		mock.ExpectQuery("SELECT event_type, event_name, page_url").
			WithArgs(since).
			WillReturnRows(rows)

		events, err := store.EventsSince(ctx, since)
		if err != nil {
			t.Fatalf("EventsSince() error = %v", err)
		}
		if len(events) != 2 {
			t.Errorf("EventsSince() returned %d events, want 2", len(events))
		}
		if events[1].EventName != "cta_click" {
			t.Errorf("unexpected event name %q", events[1].EventName)
		}
	})

	t.Run("query error returns error", func(t *testing.T) {
		mock.ExpectQuery("SELECT event_type, event_name, page_url").
			WithArgs(since).
			WillReturnError(sql.ErrConnDone)

		if _, err := store.EventsSince(ctx, since); err == nil {
			t.Error("EventsSince() error = nil, want error")
		}
	})
}

func TestAnalyticsStore_ScrollsSince(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewAnalyticsStore(db, logger.NewNop())
	ctx := context.Background()
	since := time.Now().AddDate(0, 0, -30)

	rows := sqlmock.NewRows([]string{"max_scroll_percentage", "time_on_page"}).
		AddRow(80.0, 35.0).
		AddRow(40.0, 12.5)

	mock.ExpectQuery("SELECT max_scroll_percentage, time_on_page").
		WithArgs(since).
		WillReturnRows(rows)

	samples, err := store.ScrollsSince(ctx, since)
	if err != nil {
		t.Fatalf("ScrollsSince() error = %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("ScrollsSince() returned %d samples, want 2", len(samples))
	}
	if samples[0].MaxScrollPercent != 80 {
		t.Errorf("unexpected scroll percent %v", samples[0].MaxScrollPercent)
	}
}
