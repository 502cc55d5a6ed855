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

// ErrDraftNotFound is returned when a draft lookup or update matches no row.
var ErrDraftNotFound = errors.New("draft not found")

// ContentStore manages content drafts, prompt templates, and the
// generation audit log.
type ContentStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewContentStore creates a ContentStore backed by db.
func NewContentStore(db *sql.DB, log logger.Logger) *ContentStore {
	return &ContentStore{db: db, log: log}
}

// InsertDraft stores a newly generated content draft.
func (s *ContentStore) InsertDraft(ctx context.Context, draft *domain.ContentDraft) error {
	draft.ID = uuid.New().String()
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	keywordsJSON, err := json.Marshal(draft.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	linksJSON, err := json.Marshal(draft.InternalLinks)
	if err != nil {
		return fmt.Errorf("marshal internal links: %w", err)
	}
	metadata := draft.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO content_drafts (
			id, type, title, slug, content, excerpt, keywords,
			internal_links, metadata, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		draft.ID,
		draft.Type,
		draft.Title,
		draft.Slug,
		draft.Content,
		draft.Excerpt,
		keywordsJSON,
		linksJSON,
		metadataJSON,
		draft.Status,
		draft.CreatedAt,
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert content draft: %w", err)
	}

	s.log.Info("Created content draft",
		logger.String("draft_id", draft.ID),
		logger.String("type", string(draft.Type)),
		logger.String("slug", draft.Slug),
	)

	return nil
}

// ListDrafts returns drafts newest first, optionally filtered by status and
// content type. A non-positive limit defaults to 20.
func (s *ContentStore) ListDrafts(ctx context.Context, status domain.DraftStatus, contentType domain.DraftType, limit int) ([]domain.ContentDraft, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, type, title, slug, content, excerpt, keywords,
		       internal_links, metadata, status, reviewed_by, created_at,
		       updated_at, published_at
		FROM content_drafts
		WHERE 1=1
	`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if contentType != "" {
		args = append(args, contentType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.ContentDraft
	for rows.Next() {
		draft, scanErr := scanDraft(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		drafts = append(drafts, *draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}

	return drafts, nil
}

// GetDraft returns a single draft by ID, or ErrDraftNotFound.
func (s *ContentStore) GetDraft(ctx context.Context, id string) (*domain.ContentDraft, error) {
	query := `
		SELECT id, type, title, slug, content, excerpt, keywords,
		       internal_links, metadata, status, reviewed_by, created_at,
		       updated_at, published_at
		FROM content_drafts
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	draft, err := scanDraft(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	return draft, nil
}

// UpdateDraft applies the non-nil fields of update to a draft. Moving a
// draft to published stamps published_at. The caller is responsible for
// validating the status transition first.
func (s *ContentStore) UpdateDraft(ctx context.Context, id string, update domain.DraftUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))

		if *update.Status == domain.StatusPublished {
			args = append(args, time.Now())
			sets = append(sets, fmt.Sprintf("published_at = $%d", len(args)))
		}
	}
	if update.Content != nil {
		args = append(args, *update.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if update.ReviewedBy != nil {
		args = append(args, *update.ReviewedBy)
		sets = append(sets, fmt.Sprintf("reviewed_by = $%d", len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, id)
	query := "UPDATE content_drafts SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update draft rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDraftNotFound
	}

	return nil
}

// ActiveTemplate returns the active prompt template for a content type, or
// nil when none is configured.
func (s *ContentStore) ActiveTemplate(ctx context.Context, contentType domain.DraftType) (*domain.PromptTemplate, error) {
	query := `
		SELECT id, type, prompt_template, variables
		FROM content_templates
		WHERE type = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		tpl           domain.PromptTemplate
		variablesJSON []byte
	)
	err := s.db.QueryRowContext(ctx, query, contentType).Scan(
		&tpl.ID,
		&tpl.ContentType,
		&tpl.Template,
		&variablesJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query content template: %w", err)
	}

	if err := json.Unmarshal(variablesJSON, &tpl.Variables); err != nil {
		return nil, fmt.Errorf("unmarshal template variables: %w", err)
	}

	return &tpl, nil
}

// InsertGenerationLog records one content-generation attempt.
func (s *ContentStore) InsertGenerationLog(ctx context.Context, entry *domain.GenerationLogEntry) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	var contentID any
	if entry.ContentID != "" {
		contentID = entry.ContentID
	}

	query := `
		INSERT INTO content_generation_log (
			id, content_id, prompt, model, tokens_used, success,
			error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		contentID,
		entry.Prompt,
		entry.Model,
		entry.TokensUsed,
		entry.Success,
		entry.ErrorMessage,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation log: %w", err)
	}

	return nil
}

// CountDraftsSince returns how many drafts were created at or after the
// cutoff, regardless of status.
func (s *ContentStore) CountDraftsSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM content_drafts WHERE created_at >= $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count drafts: %w", err)
	}

	return count, nil
}

// ListPublishedSlugs returns the slug and publish time of every published
// draft, newest first.
func (s *ContentStore) ListPublishedSlugs(ctx context.Context) ([]domain.PublishedPage, error) {
	query := `
		SELECT slug, type, published_at
		FROM content_drafts
		WHERE status = $1 AND published_at IS NOT NULL
		ORDER BY published_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, domain.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("query published slugs: %w", err)
	}
	defer rows.Close()

	var pages []domain.PublishedPage
	for rows.Next() {
		var page domain.PublishedPage
		if scanErr := rows.Scan(&page.Slug, &page.Type, &page.PublishedAt); scanErr != nil {
			return nil, fmt.Errorf("scan published slug: %w", scanErr)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published slugs: %w", err)
	}

	return pages, nil
}

// scanDraft scans one content_drafts row through the given Scan func so
// it works for both sql.Row and sql.Rows.
func scanDraft(scan func(dest ...any) error) (*domain.ContentDraft, error) {
	var (
		draft        domain.ContentDraft
		keywordsJSON []byte
		linksJSON    []byte
		metadataJSON []byte
		reviewedBy   sql.NullString
		publishedAt  sql.NullTime
	)

	err := scan(
		&draft.ID,
		&draft.Type,
		&draft.Title,
		&draft.Slug,
		&draft.Content,
		&draft.Excerpt,
		&keywordsJSON,
		&linksJSON,
		&metadataJSON,
		&draft.Status,
		&reviewedBy,
		&draft.CreatedAt,
		&draft.UpdatedAt,
		&publishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan draft: %w", err)
	}

	if err := json.Unmarshal(keywordsJSON, &draft.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal(linksJSON, &draft.InternalLinks); err != nil {
		return nil, fmt.Errorf("unmarshal internal links: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &draft.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if reviewedBy.Valid {
		draft.ReviewedBy = reviewedBy.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		draft.PublishedAt = &t
	}

	return &draft, nil
}
