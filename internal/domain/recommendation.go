package domain

import "time"

// PageMeta is the current page metadata supplied to the SEO analyzer.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SchemaRecommendation suggests a structured-data type and its important
// properties for a page.
type SchemaRecommendation struct {
	Type       string   `json:"type"`
	Properties []string `json:"properties"`
}

// Recommendation is a normalized SEO suggestion record generated from an
// LLM call. Rows are insert-only; the read path returns the most recent row
// per URL.
type Recommendation struct {
	ID                  string               `json:"id,omitempty"`
	URL                 string               `json:"url"`
	MetaTitle           string               `json:"meta_title"`
	MetaDescription     string               `json:"meta_description"`
	Keywords            []string             `json:"keywords"`
	Schema              SchemaRecommendation `json:"schema_recommendations"`
	ContentImprovements []string             `json:"content_improvements"`
	Confidence          float64              `json:"confidence"`
	CreatedAt           time.Time            `json:"created_at"`
}
