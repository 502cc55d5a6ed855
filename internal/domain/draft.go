package domain

import "time"

// DraftType identifies the kind of content a draft holds.
type DraftType string

// Supported draft types.
const (
	DraftTypeBlog          DraftType = "blog"
	DraftTypeCaseStudy     DraftType = "case_study"
	DraftTypePressRelease  DraftType = "press_release"
	DraftTypeProductUpdate DraftType = "product_update"
)

// Valid reports whether t is a known draft type.
func (t DraftType) Valid() bool {
	switch t {
	case DraftTypeBlog, DraftTypeCaseStudy, DraftTypePressRelease, DraftTypeProductUpdate:
		return true
	default:
		return false
	}
}

// DraftStatus is the editorial state of a content draft.
type DraftStatus string

// Editorial pipeline states.
const (
	StatusDraft     DraftStatus = "draft"
	StatusReview    DraftStatus = "review"
	StatusApproved  DraftStatus = "approved"
	StatusPublished DraftStatus = "published"
	StatusArchived  DraftStatus = "archived"
)

// Valid reports whether s is a known draft status.
func (s DraftStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a draft may move from one editorial state to
// another. The pipeline is draft → review → approved → published, with
// review allowed to bounce back to draft. Any state may be archived.
func CanTransition(from, to DraftStatus) bool {
	if to == StatusArchived {
		return from != StatusArchived
	}

	switch from {
	case StatusDraft:
		return to == StatusReview
	case StatusReview:
		return to == StatusApproved || to == StatusDraft
	case StatusApproved:
		return to == StatusPublished
	default:
		return false
	}
}

// ContentDraft is a generated long-form content record moving through the
// editorial review pipeline.
type ContentDraft struct {
	ID            string         `json:"id,omitempty"`
	Type          DraftType      `json:"type"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	Keywords      []string       `json:"keywords"`
	InternalLinks []string       `json:"internal_links"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Status        DraftStatus    `json:"status"`
	ReviewedBy    string         `json:"reviewed_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
}

// DraftUpdate carries the fields an admin PATCH may change. Nil fields are
// left untouched.
type DraftUpdate struct {
	Status     *DraftStatus
	Content    *string
	ReviewedBy *string
}

// PromptTemplate is a stored prompt for generating a given content type.
// Variables lists the placeholder names the template expects.
type PromptTemplate struct {
	ID          string    `json:"id,omitempty"`
	ContentType DraftType `json:"content_type"`
	Template    string    `json:"template"`
	Variables   []string  `json:"variables"`
}

// PublishedPage is the slug-level view of a published draft used for
// sitemap generation.
type PublishedPage struct {
	Slug        string    `json:"slug"`
	Type        DraftType `json:"type"`
	PublishedAt time.Time `json:"published_at"`
}

// GenerationLogEntry records one content-generation attempt for audit.
type GenerationLogEntry struct {
	ID           string    `json:"id,omitempty"`
	ContentID    string    `json:"content_id,omitempty"`
	Prompt       string    `json:"prompt"`
	Model        string    `json:"model"`
	TokensUsed   int       `json:"tokens_used"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
