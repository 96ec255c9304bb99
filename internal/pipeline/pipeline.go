// Package pipeline orchestrates the keyword generation run: seed expansion
// across the suggestion sources, candidate cleaning, per-phrase enrichment,
// filtering, clustering, and session assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cluster"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/hints"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/intent"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/kwmetrics"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/source"
)

const (
	// Candidate phrase bounds. Phrases outside these limits are dropped
	// during cleaning.
	minPhraseLen   = 3
	maxPhraseLen   = 120
	maxPhraseWords = 12

	// enrichConcurrency bounds the parallel enrichment loop.
	enrichConcurrency = 4

	// progressEvery controls how often the enrichment loop reports.
	progressEvery = 10
)

// Toggles enables or disables the optional sources for a run. Autocomplete
// is always on; a failed autocomplete degrades rather than aborts.
type Toggles struct {
	Semantic bool
	Entity   bool
	Trends   bool
}

// AllSources enables every optional source.
func AllSources() Toggles {
	return Toggles{Semantic: true, Entity: true, Trends: true}
}

// Config holds the per-generator settings.
type Config struct {
	// MaxKeywords caps the number of enriched keyword records per run.
	MaxKeywords int
	// Geo scopes the trend snapshot (e.g. "US"); empty means worldwide.
	Geo string
	// MinClusterSize is the smallest group that forms a topic cluster.
	MinClusterSize int
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxKeywords:    150,
		MinClusterSize: cluster.DefaultMinSize,
	}
}

// Generator runs the keyword research pipeline. Construct with New; sources
// are injected so tests can substitute deterministic fakes.
type Generator struct {
	autocomplete AutocompleteSource
	semantic     SemanticSource
	entity       EntitySource
	trends       TrendSource
	cfg          Config
}

// New creates a generator with the given sources and configuration.
func New(autocomplete AutocompleteSource, semantic SemanticSource, entity EntitySource, trends TrendSource, cfg Config) *Generator {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = DefaultConfig().MaxKeywords
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = cluster.DefaultMinSize
	}
	return &Generator{
		autocomplete: autocomplete,
		semantic:     semantic,
		entity:       entity,
		trends:       trends,
		cfg:          cfg,
	}
}

// Generate expands the seed into an enriched, filtered, clustered result
// session. Optional stages degrade gracefully: a disabled or failed source
// leaves the pipeline running on whatever signals remain. The only error
// surfaced synchronously is input validation (and context cancellation).
func (g *Generator) Generate(ctx context.Context, seed string, filter model.Filter, toggles Toggles, progress ProgressFunc) (*model.ResultSession, error) {
	seed = normalizePhrase(seed)
	if seed == "" {
		return nil, common.NewUserError("please provide a seed phrase", common.ErrEmptySeed)
	}
	if progress == nil {
		progress = func(string, int) {}
	}

	start := time.Now()
	slog.Info("Starting keyword generation", "seed", seed, "max_keywords", g.cfg.MaxKeywords)

	// Stage 1: autocomplete expansion, the primary candidate source.
	progress("autocomplete", 5)
	autocompleted := g.autocomplete.Expand(ctx, seed)
	if autocompleted.Unavailable {
		slog.Warn("Autocomplete expansion degraded", "seed", seed)
	}

	candidates := make(map[string]struct{})
	for _, phrase := range autocompleted.Values {
		candidates[phrase] = struct{}{}
	}

	// Rank signal: position in the autocomplete-ranked list, keyed by the
	// normalized phrase so cleaning doesn't detach a suggestion from its rank.
	ranks := make(map[string]int, len(autocompleted.Values))
	for i, phrase := range autocompleted.Values {
		normalized := normalizePhrase(phrase)
		if _, seen := ranks[normalized]; !seen {
			ranks[normalized] = i
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}

	// Stage 2: semantic expansion.
	if toggles.Semantic && g.semantic != nil {
		progress("semantic", 25)
		merge(candidates, g.semantic.Expand(ctx, seed), "semantic")
		merge(candidates, g.semantic.TopicVocabulary(ctx, seed), "topic vocabulary")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}

	// Stage 3: entity expansion.
	if toggles.Entity && g.entity != nil {
		progress("entity", 35)
		merge(candidates, g.entity.Expand(ctx, seed), "entity")
	}

	// Stage 4: contextual phrases from the filter plus freshness modifiers.
	progress("contextual", 45)
	for _, phrase := range contextualPhrases(seed, filter) {
		candidates[phrase] = struct{}{}
	}

	// Stage 5: clean the unioned candidate set.
	progress("clean", 50)
	cleaned := cleanCandidates(candidates, seed)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}

	// Stage 6: one seed-level trend snapshot, shared read-only by every
	// phrase's metrics computation.
	trend := model.NeutralTrend()
	if toggles.Trends && g.trends != nil {
		progress("trends", 55)
		trend = g.trends.Snapshot(ctx, seed, g.cfg.Geo)
	}

	// Stage 7: enrichment.
	progress("enrich", 60)
	if len(cleaned) > g.cfg.MaxKeywords {
		cleaned = cleaned[:g.cfg.MaxKeywords]
	}
	keywords, err := g.enrich(ctx, cleaned, ranks, filter, trend, progress)
	if err != nil {
		return nil, err
	}

	// Stage 8: filtering.
	progress("filter", 92)
	filtered := make([]model.Keyword, 0, len(keywords))
	for _, k := range keywords {
		if filter.Matches(k) {
			filtered = append(filtered, k)
		}
	}

	// Stage 9: clustering.
	progress("cluster", 96)
	summaries := cluster.Summarize(cluster.Build(filtered, g.cfg.MinClusterSize))

	// Stage 10: session assembly.
	session := &model.ResultSession{
		ID:          uuid.NewString(),
		Seed:        seed,
		Filter:      filter,
		Keywords:    filtered,
		Clusters:    summaries,
		Trend:       trend,
		GeneratedAt: time.Now().UTC(),
	}

	progress("done", 100)
	slog.Info("Keyword generation complete",
		"seed", seed,
		"keywords", len(filtered),
		"clusters", len(summaries),
		"duration", time.Since(start).Round(time.Millisecond))

	return session, nil
}

// enrich turns cleaned candidate phrases into keyword records. Iterations
// are independent; the loop runs with bounded parallelism and reports
// progress periodically.
func (g *Generator) enrich(ctx context.Context, phrases []string, ranks map[string]int, filter model.Filter, trend model.TrendSnapshot, progress ProgressFunc) ([]model.Keyword, error) {
	keywords := make([]model.Keyword, len(phrases))
	total := len(phrases)

	var done atomic.Int64

	// Emissions are serialized and monotonic even though the workers
	// complete out of order.
	var progressMu sync.Mutex
	lastPercent := 60
	report := func(percent int) {
		progressMu.Lock()
		defer progressMu.Unlock()
		if percent > lastPercent {
			lastPercent = percent
			progress("enrich", percent)
		}
	}

	gr, gctx := errgroup.WithContext(ctx)
	gr.SetLimit(enrichConcurrency)

	for i, phrase := range phrases {
		gr.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rank, fromAutocomplete := ranks[phrase]
			if !fromAutocomplete {
				rank = -1
			}

			keywords[i] = g.buildKeyword(phrase, rank, len(ranks), filter, trend)

			if n := done.Add(1); n%progressEvery == 0 {
				report(60 + int(30*n/int64(total)))
			}
			return nil
		})
	}

	if err := gr.Wait(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}

	return keywords, nil
}

func (g *Generator) buildKeyword(phrase string, rank, totalSuggestions int, filter model.Filter, trend model.TrendSnapshot) model.Keyword {
	lengthClass := model.LengthClassFor(model.WordCount(phrase))
	phraseIntent := intent.Classify(phrase)

	metrics := kwmetrics.Compute(kwmetrics.Input{
		Phrase:           phrase,
		Intent:           phraseIntent,
		LengthClass:      lengthClass,
		AutocompleteRank: rank,
		TotalSuggestions: totalSuggestions,
		Trend:            trend,
	})

	return model.Keyword{
		ID:          uuid.NewString(),
		Phrase:      phrase,
		Intent:      phraseIntent,
		LengthClass: lengthClass,
		Metrics:     metrics,
		Hints:       hints.For(phrase, phraseIntent, metrics),
		Variants:    hints.QuestionVariants(phrase, phraseIntent),
		Region:      filter.Region,
		Segment:     filter.Segment,
		Category:    filter.Category,
		Language:    filter.Language,
		CreatedAt:   time.Now().UTC(),
	}
}

// contextualPhrases synthesizes candidates from the filter's region,
// segment, and category plus fixed freshness modifiers.
func contextualPhrases(seed string, filter model.Filter) []string {
	var phrases []string

	if filter.Region != "" {
		region := strings.ToLower(filter.Region)
		phrases = append(phrases, seed+" in "+region, seed+" "+region)
	}
	if filter.Segment != "" {
		phrases = append(phrases, seed+" for "+strings.ToLower(filter.Segment))
	}
	if filter.Category != "" {
		phrases = append(phrases, strings.ToLower(filter.Category)+" "+seed)
	}

	year := time.Now().Year()
	phrases = append(phrases,
		seed+" "+strconv.Itoa(year),
		"best "+seed+" "+strconv.Itoa(year),
		seed+" trends "+strconv.Itoa(year+1),
	)

	return phrases
}

// cleanCandidates normalizes, validates, deduplicates, and sorts the
// candidate set. Non-ASCII phrases are kept only when they still contain
// the seed's first word.
func cleanCandidates(candidates map[string]struct{}, seed string) []string {
	firstSeedWord := strings.Fields(seed)[0]

	unique := make(map[string]struct{}, len(candidates))
	for raw := range candidates {
		phrase := normalizePhrase(raw)

		if phrase == seed {
			continue
		}
		if len(phrase) < minPhraseLen || len(phrase) >= maxPhraseLen {
			continue
		}
		if model.WordCount(phrase) > maxPhraseWords {
			continue
		}
		if !isASCII(phrase) && !strings.Contains(phrase, firstSeedWord) {
			continue
		}

		unique[phrase] = struct{}{}
	}

	cleaned := make([]string, 0, len(unique))
	for phrase := range unique {
		cleaned = append(cleaned, phrase)
	}
	sort.Strings(cleaned)

	return cleaned
}

// normalizePhrase lower-cases, trims, and collapses interior whitespace.
func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// merge folds a source result into the candidate set, logging degraded
// stages instead of failing them.
func merge(candidates map[string]struct{}, result source.Suggestions, stage string) {
	if result.Unavailable {
		slog.Warn("Optional stage degraded, continuing", "stage", stage)
		return
	}
	for _, phrase := range result.Values {
		candidates[phrase] = struct{}{}
	}
}
