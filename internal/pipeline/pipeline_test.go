package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/source"
)

type stubAutocomplete struct {
	values      []string
	unavailable bool
}

func (s stubAutocomplete) Expand(_ context.Context, _ string) source.Suggestions {
	return source.Suggestions{Values: s.values, Unavailable: s.unavailable}
}

type stubSemantic struct {
	expand []string
	topics []string
}

func (s stubSemantic) Expand(_ context.Context, _ string) source.Suggestions {
	return source.Suggestions{Values: s.expand}
}

func (s stubSemantic) TopicVocabulary(_ context.Context, _ string) source.Suggestions {
	return source.Suggestions{Values: s.topics}
}

type stubEntity struct {
	values []string
}

func (s stubEntity) Expand(_ context.Context, _ string) source.Suggestions {
	return source.Suggestions{Values: s.values}
}

type stubTrends struct {
	snapshot model.TrendSnapshot
}

func (s stubTrends) Snapshot(_ context.Context, _, _ string) model.TrendSnapshot {
	return s.snapshot
}

func autocompleteFixture() stubAutocomplete {
	return stubAutocomplete{values: []string{
		"flutter plugin tutorial",
		"flutter plugin example",
		"best flutter plugin review",
		"buy flutter plugin license",
		"how to write a flutter plugin",
		"flutter plugin development guide",
	}}
}

func newTestGenerator(ac AutocompleteSource) *Generator {
	return New(ac,
		stubSemantic{expand: []string{"dart flutter plugin"}, topics: []string{"widget toolkit"}},
		stubEntity{values: []string{"flutter (software) guide"}},
		stubTrends{snapshot: model.TrendSnapshot{
			Direction:     model.TrendRising,
			Interest:      80,
			RisingQueries: []string{"flutter plugin ai"},
		}},
		DefaultConfig())
}

func TestGenerateValidation(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())

	_, err := g.Generate(context.Background(), "   ", model.Filter{}, AllSources(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptySeed)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr, "validation errors should be user facing")
}

func TestGenerateAllSourcesDisabled(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, session.Keywords, "autocomplete alone must still produce results")

	assert.Equal(t, model.NeutralTrend(), session.Trend,
		"trend fields default to neutral when the trend source is off")
	assert.Equal(t, "flutter plugin", session.Seed)
	assert.NotEmpty(t, session.ID)
	assert.False(t, session.GeneratedAt.IsZero())

	for _, k := range session.Keywords {
		assert.NotEmpty(t, k.ID)
		assert.Contains(t, model.AllIntents(), k.Intent)
		assert.Contains(t, []model.LengthClass{model.LengthShort, model.LengthMedium, model.LengthLong}, k.LengthClass)
		assert.GreaterOrEqual(t, k.Metrics.SearchVolume, 10)
		assert.GreaterOrEqual(t, k.Metrics.Opportunity, 0)
		assert.Equal(t, model.TrendStable, k.Metrics.Trend)
	}
}

func TestGenerateIntentFilter(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())
	filter := model.Filter{Intents: []model.Intent{model.IntentCommercial}}

	session, err := g.Generate(context.Background(), "flutter plugin", filter, AllSources(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, session.Keywords)

	for _, k := range session.Keywords {
		assert.Equal(t, model.IntentCommercial, k.Intent,
			"phrases classified otherwise must be excluded: %q", k.Phrase)
	}
}

func TestGenerateMergesOptionalSources(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, AllSources(), nil)
	require.NoError(t, err)

	phrases := make([]string, 0, len(session.Keywords))
	for _, k := range session.Keywords {
		phrases = append(phrases, k.Phrase)
	}

	assert.Contains(t, phrases, "dart flutter plugin", "semantic expansion merged")
	assert.Contains(t, phrases, "widget toolkit", "topic vocabulary merged")
	assert.Contains(t, phrases, "flutter (software) guide", "entity expansion merged")
	assert.Equal(t, model.TrendRising, session.Trend.Direction)
	assert.Equal(t, 80, session.Trend.Interest)
	assert.Equal(t, []string{"flutter plugin ai"}, session.Trend.RisingQueries)
}

func TestGenerateDegradedAutocomplete(t *testing.T) {
	g := newTestGenerator(stubAutocomplete{unavailable: true})

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, AllSources(), nil)
	require.NoError(t, err, "a degraded source must not abort the run")
	assert.NotEmpty(t, session.Keywords,
		"semantic, entity, and contextual candidates still flow")
}

func TestGenerateCleanStage(t *testing.T) {
	g := newTestGenerator(stubAutocomplete{values: []string{
		"flutter plugin",                   // equals seed: dropped
		"  Flutter   Plugin   Tutorial  ",  // normalized
		"ab",                               // too short
		strings.Repeat("x ", 70),           // too long
		"one two three four five six seven eight nine ten eleven twelve thirteen", // too many words
		"flutter плагин guide",             // non-ASCII but contains seed word: kept
		"видео руководство",                // non-ASCII without seed word: dropped
	}})

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)

	phrases := make(map[string]bool)
	for _, k := range session.Keywords {
		phrases[k.Phrase] = true
	}

	assert.True(t, phrases["flutter plugin tutorial"], "whitespace and case normalized")
	assert.True(t, phrases["flutter плагин guide"], "non-ASCII retaining the seed's first word survives")
	assert.False(t, phrases["flutter plugin"], "bare seed dropped")
	assert.False(t, phrases["ab"], "short phrase dropped")
	assert.False(t, phrases["видео руководство"], "non-ASCII without the seed's first word dropped")
}

func TestGenerateContextualPhrases(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())
	filter := model.Filter{Region: "Texas", Segment: "startups", Category: "mobile"}

	session, err := g.Generate(context.Background(), "flutter plugin", filter, Toggles{}, nil)
	require.NoError(t, err)

	phrases := make(map[string]bool)
	for _, k := range session.Keywords {
		phrases[k.Phrase] = true
	}

	assert.True(t, phrases["flutter plugin in texas"])
	assert.True(t, phrases["flutter plugin for startups"])
	assert.True(t, phrases["mobile flutter plugin"])

	for _, k := range session.Keywords {
		assert.Equal(t, "Texas", k.Region, "filter tags propagate to records")
	}
}

func TestGenerateMaxKeywordsCap(t *testing.T) {
	values := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		values = append(values, "flutter plugin variant "+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}

	g := New(stubAutocomplete{values: values}, nil, nil, nil, Config{MaxKeywords: 10})

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(session.Keywords), 10)
}

func TestGenerateProgressReporting(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())

	var stages []string
	var lastPercent int
	progress := func(stage string, percent int) {
		stages = append(stages, stage)
		assert.GreaterOrEqual(t, percent, lastPercent, "progress never goes backwards")
		lastPercent = percent
	}

	_, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, progress)
	require.NoError(t, err)

	assert.Equal(t, "autocomplete", stages[0])
	assert.Equal(t, "done", stages[len(stages)-1])
	assert.Equal(t, 100, lastPercent)
}

func TestGenerateRankSurvivesNormalization(t *testing.T) {
	find := func(session *model.ResultSession, phrase string) *model.Keyword {
		for i := range session.Keywords {
			if session.Keywords[i].Phrase == phrase {
				return &session.Keywords[i]
			}
		}
		return nil
	}

	// Six suggestions so a dropped rank falls back to a mid-pack rank that
	// yields a different volume than the true rank 0.
	rest := []string{
		"flutter plugin tutorial",
		"flutter plugin example",
		"flutter plugin development",
		"flutter plugin dart",
		"flutter plugin ios",
	}

	messy := newTestGenerator(stubAutocomplete{values: append([]string{"flutter  plugin  guide"}, rest...)})
	messySession, err := messy.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)

	clean := newTestGenerator(stubAutocomplete{values: append([]string{"flutter plugin guide"}, rest...)})
	cleanSession, err := clean.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)

	got := find(messySession, "flutter plugin guide")
	want := find(cleanSession, "flutter plugin guide")
	require.NotNil(t, got)
	require.NotNil(t, want)

	assert.Equal(t, want.Metrics.SearchVolume, got.Metrics.SearchVolume,
		"a suggestion with doubled whitespace must keep its autocomplete rank")
}

func TestGenerateProgressUnderConcurrentEnrichment(t *testing.T) {
	values := make([]string, 0, 80)
	for i := 0; i < 80; i++ {
		values = append(values, "flutter plugin variant "+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	g := New(stubAutocomplete{values: values}, nil, nil, nil, Config{MaxKeywords: 80})

	var lastPercent int
	progress := func(_ string, percent int) {
		// The enrichment pool reports from multiple workers; emissions
		// must still arrive one at a time and never move backwards.
		assert.GreaterOrEqual(t, percent, lastPercent)
		lastPercent = percent
	}

	_, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, progress)
	require.NoError(t, err)
	assert.Equal(t, 100, lastPercent)
}

func TestGenerateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newTestGenerator(autocompleteFixture())
	_, err := g.Generate(ctx, "flutter plugin", model.Filter{}, AllSources(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerateClusters(t *testing.T) {
	g := newTestGenerator(autocompleteFixture())

	session, err := g.Generate(context.Background(), "flutter plugin", model.Filter{}, Toggles{}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, session.Clusters)

	for i, c := range session.Clusters {
		assert.GreaterOrEqual(t, c.Size, 2)
		assert.NotEmpty(t, c.Pillar.ID)
		for _, s := range c.Supporting {
			assert.LessOrEqual(t, s.Metrics.Opportunity, c.Pillar.Metrics.Opportunity,
				"pillar has the highest opportunity in its cluster")
		}
		if i > 0 {
			assert.LessOrEqual(t, c.TotalVolume, session.Clusters[i-1].TotalVolume,
				"clusters sorted by total volume descending")
		}
	}
}
