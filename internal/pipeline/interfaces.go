package pipeline

import (
	"context"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/source"
)

// AutocompleteSource expands a seed through autocomplete sub-queries.
type AutocompleteSource interface {
	Expand(ctx context.Context, seed string) source.Suggestions
}

// SemanticSource expands a seed through word relations and topic vocabulary.
type SemanticSource interface {
	Expand(ctx context.Context, seed string) source.Suggestions
	TopicVocabulary(ctx context.Context, seed string) source.Suggestions
}

// EntitySource expands a seed through related topic titles and categories.
type EntitySource interface {
	Expand(ctx context.Context, keyword string) source.Suggestions
}

// TrendSource provides the seed-level interest snapshot. Implementations
// must return the neutral snapshot on failure, never an error.
type TrendSource interface {
	Snapshot(ctx context.Context, keyword, geo string) model.TrendSnapshot
}

// ProgressFunc receives stage names and completion percentages as the
// pipeline advances. Calls are serialized and percent never decreases, so
// implementations need no locking of their own.
type ProgressFunc func(stage string, percent int)
