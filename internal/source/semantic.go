package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/lexicon"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/ratelimit"
)

const (
	defaultSemanticURL = "https://api.datamuse.com/words"

	// defaultMinScore filters weakly related words; Datamuse scores strong
	// relations well above this.
	defaultMinScore = 500
)

// semantic relation query parameters.
const (
	relRelated     = "ml"
	relSynonym     = "rel_syn"
	relCoOccurring = "rel_trg"
)

// Semantic expands a seed through a word-relation API: related words,
// synonyms, and co-occurring words per content word, plus a whole-seed
// topic vocabulary lookup.
type Semantic struct {
	cache    cache.Cache
	limiter  *ratelimit.Limiter
	client   *http.Client
	BaseURL  string
	MinScore int
	TTL      time.Duration
}

// NewSemantic creates a semantic adapter.
func NewSemantic(c cache.Cache, limiter *ratelimit.Limiter) *Semantic {
	return &Semantic{
		cache:    c,
		limiter:  limiter,
		client:   newHTTPClient(),
		BaseURL:  defaultSemanticURL,
		MinScore: defaultMinScore,
		TTL:      cache.DefaultTTL,
	}
}

type scoredWord struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Expand builds two-word phrase candidates around the seed from related,
// synonym, and co-occurring words of every content word. Words already in
// the seed are removed. Unavailable only when every relation fetch degraded.
func (s *Semantic) Expand(ctx context.Context, seed string) Suggestions {
	seed = strings.TrimSpace(strings.ToLower(seed))
	if seed == "" {
		return unavailable()
	}

	seedWords := make(map[string]struct{})
	var contentWords []string
	for _, w := range strings.Fields(seed) {
		seedWords[w] = struct{}{}
		if len(w) > 2 {
			contentWords = append(contentWords, w)
		}
	}

	union := make(map[string]struct{})
	anySuccess := false

	for _, word := range contentWords {
		if ctx.Err() != nil {
			break
		}
		for _, rel := range []string{relRelated, relSynonym, relCoOccurring} {
			words, ok := s.relatedWords(ctx, rel, word)
			if !ok {
				continue
			}
			anySuccess = true
			for _, w := range words {
				if _, isSeedWord := seedWords[w]; isSeedWord {
					continue
				}
				if lexicon.IsStopWord(w) {
					continue
				}
				union[w+" "+seed] = struct{}{}
				union[seed+" "+w] = struct{}{}
			}
		}
	}

	if !anySuccess {
		return unavailable()
	}

	return Suggestions{Values: sortedUnique(union)}
}

// TopicVocabulary fetches words in the seed's topic space, keyed on the
// whole seed rather than its individual words.
func (s *Semantic) TopicVocabulary(ctx context.Context, seed string) Suggestions {
	seed = strings.TrimSpace(strings.ToLower(seed))
	if seed == "" {
		return unavailable()
	}

	key := cache.Key("semantic:topics", seed)
	if values, ok := s.cache.Get(ctx, key); ok {
		return Suggestions{Values: values}
	}

	if err := s.limiter.Throttle(ctx); err != nil {
		return unavailable()
	}

	words, err := s.fetch(ctx, url.Values{"topics": {seed}, "max": {"50"}})
	if err != nil {
		slog.Debug("semantic topic fetch degraded", "seed", seed, "error", err)
		return unavailable()
	}

	values := make([]string, 0, len(words))
	for _, w := range words {
		if w.Score >= s.MinScore {
			values = append(values, w.Word)
		}
	}

	s.cache.Set(ctx, key, values, s.TTL)
	return Suggestions{Values: values}
}

// relatedWords fetches one relation for one word, cache-first. The score
// threshold is applied before caching so cached entries are final.
func (s *Semantic) relatedWords(ctx context.Context, rel, word string) ([]string, bool) {
	key := cache.Key("semantic:"+rel, word)
	if values, ok := s.cache.Get(ctx, key); ok {
		return values, true
	}

	if err := s.limiter.Throttle(ctx); err != nil {
		return nil, false
	}

	words, err := s.fetch(ctx, url.Values{rel: {word}, "max": {"30"}})
	if err != nil {
		slog.Debug("semantic fetch degraded", "relation", rel, "word", word, "error", err)
		return nil, false
	}

	values := make([]string, 0, len(words))
	for _, w := range words {
		if w.Score >= s.MinScore {
			values = append(values, strings.ToLower(w.Word))
		}
	}

	s.cache.Set(ctx, key, values, s.TTL)
	return values, true
}

func (s *Semantic) fetch(ctx context.Context, params url.Values) ([]scoredWord, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse semantic URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch related words: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic source returned status %d", resp.StatusCode)
	}

	var words []scoredWord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return words, nil
}
