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

func TestSEOStore_InsertRecommendation(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewSEOStore(db, logger.NewNop())
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successfully inserts recommendation",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO ai_recommendations").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: false,
		},
		{
			name: "database error returns error",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO ai_recommendations").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			rec := &domain.Recommendation{
				URL:             "/products/housecall",
				MetaTitle:       "Armada Housecall | AI Documentation",
				MetaDescription: "Ambient clinical documentation for physicians.",
				Keywords:        []string{"clinical documentation", "ai scribe"},
				Schema: domain.SchemaRecommendation{
					Type:       "MedicalWebPage",
					Properties: []string{"name", "description"},
				},
				ContentImprovements: []string{"Add an FAQ section"},
				Confidence:          0.9,
			}

			callErr := store.InsertRecommendation(ctx, rec)
			if (callErr != nil) != tc.wantErr {
				t.Errorf("InsertRecommendation() error = %v, wantErr %v", callErr, tc.wantErr)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestSEOStore_LatestRecommendation(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewSEOStore(db, logger.NewNop())
	ctx := context.Background()
	url := "/products/assistmd"

	columns := []string{
		"id", "url", "meta_title", "meta_description", "keywords",
		"schema", "content_improvements", "confidence", "created_at",
	}

	t.Run("returns most recent recommendation", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).AddRow(
			"rec-1",
			url,
			"Armada AssistMD",
			"Clinical decision support.",
			[]byte(`["decision support"]`),
			[]byte(`{"type":"MedicalWebPage","properties":["name"]}`),
			[]byte(`["Add testimonials"]`),
			0.85,
			time.Now(),
		)

		mock.ExpectQuery("SELECT (.+) FROM ai_recommendations").
			WithArgs(url).
			WillReturnRows(rows)

		rec, err := store.LatestRecommendation(ctx, url)
		if err != nil {
			t.Fatalf("LatestRecommendation() error = %v", err)
		}
		if rec == nil {
			t.Fatal("LatestRecommendation() returned nil recommendation")
		}
		if rec.MetaTitle != "Armada AssistMD" {
			t.Errorf("unexpected meta title %q", rec.MetaTitle)
		}
		if rec.Schema.Type != "MedicalWebPage" {
			t.Errorf("unexpected schema type %q", rec.Schema.Type)
		}
		if len(rec.ContentImprovements) != 1 {
			t.Errorf("unexpected improvements %v", rec.ContentImprovements)
		}
	})

	t.Run("no rows returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM ai_recommendations").
			WithArgs(url).
			WillReturnError(sql.ErrNoRows)

		rec, err := store.LatestRecommendation(ctx, url)
		if err != nil {
			t.Errorf("LatestRecommendation() error = %v, want nil", err)
		}
		if rec != nil {
			t.Errorf("LatestRecommendation() = %v, want nil", rec)
		}
	})
}

func TestSEOStore_InsertPageMetric(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewSEOStore(db, logger.NewNop())
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO page_metrics").
		WillReturnResult(sqlmock.NewResult(0, 1))

	metric := &domain.PageMetric{
		URL:         "/",
		Date:        "2026-08-20",
		Clicks:      14,
		Impressions: 480,
	}
	if err := store.InsertPageMetric(ctx, metric); err != nil {
		t.Errorf("InsertPageMetric() error = %v, want nil", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestSEOStore_PageMetricsForURL(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewSEOStore(db, logger.NewNop())
	ctx := context.Background()
	url := "/"
	since := time.Now().AddDate(0, 0, -30)

	columns := []string{"id", "url", "date", "clicks", "impressions", "queries", "created_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("m-1", url, "2026-08-21", 10, 300, []byte(`["armada md"]`), time.Now()).
		AddRow("m-2", url, "2026-08-20", 5, 200, []byte(`[]`), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM page_metrics").
		WithArgs(url, since).
		WillReturnRows(rows)

	metrics, totals, err := store.PageMetricsForURL(ctx, url, since)
	if err != nil {
		t.Fatalf("PageMetricsForURL() error = %v", err)
	}
	if len(metrics) != 2 {
		t.Errorf("PageMetricsForURL() returned %d rows, want 2", len(metrics))
	}
	if totals.Clicks != 15 || totals.Impressions != 500 {
		t.Errorf("unexpected totals %+v", totals)
	}
	if got := totals.CTRPercent(); got != 3.0 {
		t.Errorf("CTRPercent() = %v, want 3.0", got)
	}
}
