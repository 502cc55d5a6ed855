package seo

import (
	"github.com/armada-md/site-api/internal/domain"
)

// minImprovements is the smallest number of content improvement
// suggestions a normalized recommendation may carry.
const minImprovements = 6

const (
	fallbackMetaTitle       = "Add the correct meta title"
	fallbackMetaDescription = "Add the correct meta description"
	fallbackConfidence      = 0.8
)

var fallbackSchema = domain.SchemaRecommendation{Type: "Article", Properties: []string{}}

// defaultImprovements pads out sparse model output so the admin UI always
// has actionable suggestions.
var defaultImprovements = []string{
	"Add an FAQ section that answers common patient questions to build trust.",
	"Include author credentials and medical review details to satisfy E-E-A-T.",
	"Add internal links to related services and blog posts for stronger topical authority.",
	"Compress and add descriptive alt text to images to improve accessibility and SEO.",
	"Surface calls-to-action that guide users to book appointments or learn more.",
	"Use descriptive, keyword-informed headings to structure the page for scanners.",
}

// Normalize converts raw model output into a complete recommendation.
// Every field falls back independently, and content improvements are padded
// with defaults not already present until there are at least six.
// Normalizing already-normalized output is a no-op.
func Normalize(raw map[string]any) domain.Recommendation {
	rec := domain.Recommendation{
		MetaTitle:       stringField(raw, "meta_title", fallbackMetaTitle),
		MetaDescription: stringField(raw, "meta_description", fallbackMetaDescription),
		Keywords:        stringListField(raw, "keywords"),
		Schema:          schemaField(raw),
		Confidence:      confidenceField(raw),
	}

	improvements := stringListField(raw, "content_improvements")
	rec.ContentImprovements = padImprovements(improvements)

	return rec
}

func padImprovements(improvements []string) []string {
	present := make(map[string]bool, len(improvements))
	for _, s := range improvements {
		present[s] = true
	}
	for _, d := range defaultImprovements {
		if len(improvements) >= minImprovements {
			break
		}
		if !present[d] {
			improvements = append(improvements, d)
			present[d] = true
		}
	}
	return improvements
}

func stringField(raw map[string]any, key, fallback string) string {
	if s, ok := raw[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringListField(raw map[string]any, key string) []string {
	return stringListFromAny(raw[key])
}

func schemaField(raw map[string]any) domain.SchemaRecommendation {
	obj, ok := raw["schema_recommendations"].(map[string]any)
	if !ok {
		return fallbackSchema
	}

	schema := domain.SchemaRecommendation{Properties: []string{}}
	if t, ok := obj["type"].(string); ok && t != "" {
		schema.Type = t
	} else {
		schema.Type = fallbackSchema.Type
	}
	schema.Properties = append(schema.Properties, stringListFromAny(obj["properties"])...)

	return schema
}

func stringListFromAny(value any) []string {
	out := []string{}
	switch list := value.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}

func confidenceField(raw map[string]any) float64 {
	switch v := raw["confidence"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallbackConfidence
	}
}
