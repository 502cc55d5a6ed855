package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/storage"
)

var draftColumns = []string{
	"id", "type", "title", "slug", "content", "excerpt", "keywords",
	"internal_links", "metadata", "status", "reviewed_by", "created_at",
	"updated_at", "published_at",
}

func draftRow(rows *sqlmock.Rows, id string, status domain.DraftStatus) *sqlmock.Rows {
	return rows.AddRow(
		id,
		domain.DraftTypeBlog,
		"AI in Rural Healthcare",
		"ai-in-rural-healthcare",
		"Body text.",
		"Excerpt.",
		[]byte(`["healthcare","AI"]`),
		[]byte(`["/products/housecall"]`),
		[]byte(`{}`),
		status,
		nil,
		time.Now(),
		time.Now(),
		nil,
	)
}

func TestContentStore_InsertDraft(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO content_drafts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	draft := &domain.ContentDraft{
		Type:     domain.DraftTypeBlog,
		Title:    "AI in Rural Healthcare",
		Slug:     "ai-in-rural-healthcare",
		Content:  "Body text.",
		Excerpt:  "Excerpt.",
		Keywords: []string{"healthcare", "AI"},
		Status:   domain.StatusDraft,
	}
	if err := store.InsertDraft(ctx, draft); err != nil {
		t.Fatalf("InsertDraft() error = %v", err)
	}
	if draft.ID == "" {
		t.Error("expected draft ID to be assigned")
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestContentStore_ListDrafts(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	t.Run("no filters uses default limit", func(t *testing.T) {
		rows := sqlmock.NewRows(draftColumns)
		draftRow(rows, "d-1", domain.StatusDraft)
		draftRow(rows, "d-2", domain.StatusReview)

		mock.ExpectQuery("SELECT (.+) FROM content_drafts").
			WithArgs(20).
			WillReturnRows(rows)

		drafts, err := store.ListDrafts(ctx, "", "", 0)
		if err != nil {
			t.Fatalf("ListDrafts() error = %v", err)
		}
		if len(drafts) != 2 {
			t.Errorf("ListDrafts() returned %d drafts, want 2", len(drafts))
		}
	})

	t.Run("status and type filters are applied", func(t *testing.T) {
		rows := sqlmock.NewRows(draftColumns)
		draftRow(rows, "d-3", domain.StatusApproved)

		mock.ExpectQuery("SELECT (.+) FROM content_drafts").
			WithArgs(domain.StatusApproved, domain.DraftTypeBlog, 5).
			WillReturnRows(rows)

		drafts, err := store.ListDrafts(ctx, domain.StatusApproved, domain.DraftTypeBlog, 5)
		if err != nil {
			t.Fatalf("ListDrafts() error = %v", err)
		}
		if len(drafts) != 1 {
			t.Errorf("ListDrafts() returned %d drafts, want 1", len(drafts))
		}
		if drafts[0].Status != domain.StatusApproved {
			t.Errorf("unexpected status %q", drafts[0].Status)
		}
	})
}

func TestContentStore_GetDraft(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	t.Run("returns draft by id", func(t *testing.T) {
		rows := sqlmock.NewRows(draftColumns)
		draftRow(rows, "d-1", domain.StatusDraft)

		mock.ExpectQuery("SELECT (.+) FROM content_drafts").
			WithArgs("d-1").
			WillReturnRows(rows)

		draft, err := store.GetDraft(ctx, "d-1")
		if err != nil {
			t.Fatalf("GetDraft() error = %v", err)
		}
		if draft.Slug != "ai-in-rural-healthcare" {
			t.Errorf("unexpected slug %q", draft.Slug)
		}
	})

	t.Run("missing draft returns ErrDraftNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM content_drafts").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := store.GetDraft(ctx, "missing")
		if !errors.Is(err, storage.ErrDraftNotFound) {
			t.Errorf("GetDraft() error = %v, want ErrDraftNotFound", err)
		}
	})
}

func TestContentStore_UpdateDraft(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	t.Run("status change updates row", func(t *testing.T) {
		mock.ExpectExec("UPDATE content_drafts").
			WillReturnResult(sqlmock.NewResult(0, 1))

		status := domain.StatusReview
		err := store.UpdateDraft(ctx, "d-1", domain.DraftUpdate{Status: &status})
		if err != nil {
			t.Errorf("UpdateDraft() error = %v, want nil", err)
		}
	})

	t.Run("publishing stamps published_at", func(t *testing.T) {
		mock.ExpectExec("UPDATE content_drafts").
			WithArgs(domain.StatusPublished, sqlmock.AnyArg(), sqlmock.AnyArg(), "d-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		status := domain.StatusPublished
		err := store.UpdateDraft(ctx, "d-1", domain.DraftUpdate{Status: &status})
		if err != nil {
			t.Errorf("UpdateDraft() error = %v, want nil", err)
		}

		if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
			t.Errorf("unfulfilled expectations: %v", expectErr)
		}
	})

	t.Run("missing draft returns ErrDraftNotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE content_drafts").
			WillReturnResult(sqlmock.NewResult(0, 0))

		status := domain.StatusReview
		err := store.UpdateDraft(ctx, "missing", domain.DraftUpdate{Status: &status})
		if !errors.Is(err, storage.ErrDraftNotFound) {
			t.Errorf("UpdateDraft() error = %v, want ErrDraftNotFound", err)
		}
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		if err := store.UpdateDraft(ctx, "d-1", domain.DraftUpdate{}); err != nil {
			t.Errorf("UpdateDraft() error = %v, want nil", err)
		}
	})
}

func TestContentStore_ActiveTemplate(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	t.Run("returns active template", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "type", "prompt_template", "variables"}).
			AddRow("t-1", domain.DraftTypeBlog, "Write a blog post about {topic}.", []byte(`["topic"]`))

		mock.ExpectQuery("SELECT (.+) FROM content_templates").
			WithArgs(domain.DraftTypeBlog).
			WillReturnRows(rows)

		tpl, err := store.ActiveTemplate(ctx, domain.DraftTypeBlog)
		if err != nil {
			t.Fatalf("ActiveTemplate() error = %v", err)
		}
		if tpl == nil {
			t.Fatal("ActiveTemplate() returned nil template")
		}
		if len(tpl.Variables) != 1 || tpl.Variables[0] != "topic" {
			t.Errorf("unexpected variables %v", tpl.Variables)
		}
	})

	t.Run("no template returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM content_templates").
			WithArgs(domain.DraftTypeCaseStudy).
			WillReturnError(sql.ErrNoRows)

		tpl, err := store.ActiveTemplate(ctx, domain.DraftTypeCaseStudy)
		if err != nil {
			t.Errorf("ActiveTemplate() error = %v, want nil", err)
		}
		if tpl != nil {
			t.Errorf("ActiveTemplate() = %v, want nil", tpl)
		}
	})
}

func TestContentStore_CountDraftsSince(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()
	since := time.Now().AddDate(0, 0, -7)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.CountDraftsSince(ctx, since)
	if err != nil {
		t.Fatalf("CountDraftsSince() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountDraftsSince() = %d, want 3", count)
	}
}

func TestContentStore_ListPublishedSlugs(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	store := storage.NewContentStore(db, logger.NewNop())
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"slug", "type", "published_at"}).
		AddRow("ai-in-rural-healthcare", domain.DraftTypeBlog, time.Now()).
		AddRow("housecall-pilot-results", domain.DraftTypeCaseStudy, time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT slug, type, published_at").
		WithArgs(domain.StatusPublished).
		WillReturnRows(rows)

	pages, err := store.ListPublishedSlugs(ctx)
	if err != nil {
		t.Fatalf("ListPublishedSlugs() error = %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("ListPublishedSlugs() returned %d pages, want 2", len(pages))
	}
	if pages[0].Slug != "ai-in-rural-healthcare" {
		t.Errorf("unexpected slug %q", pages[0].Slug)
	}
}
