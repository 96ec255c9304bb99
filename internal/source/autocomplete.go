package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/lexicon"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/ratelimit"
)

const (
	defaultAutocompleteURL = "https://suggestqueries.google.com/complete/search"

	// expandConcurrency bounds in-flight sub-queries; the rate limiter is
	// the actual throughput ceiling.
	expandConcurrency = 8
)

// Autocomplete expands a seed phrase through a public autocomplete endpoint.
// One Expand call fans out to dozens of sub-queries (letter appends, question
// prefixes, prepositions, qualifiers, and one platform variant), each
// independently cached and rate limited.
type Autocomplete struct {
	cache   cache.Cache
	limiter *ratelimit.Limiter
	client  *http.Client
	BaseURL string
	Locale  string
	TTL     time.Duration
}

// NewAutocomplete creates an autocomplete adapter.
func NewAutocomplete(c cache.Cache, limiter *ratelimit.Limiter) *Autocomplete {
	return &Autocomplete{
		cache:   c,
		limiter: limiter,
		client:  newHTTPClient(),
		BaseURL: defaultAutocompleteURL,
		Locale:  "en",
		TTL:     cache.DefaultTTL,
	}
}

// Suggest returns the suggestions for a single query. Cache hits skip both
// the network and the rate limiter.
func (a *Autocomplete) Suggest(ctx context.Context, query string) Suggestions {
	return a.suggest(ctx, query, false)
}

func (a *Autocomplete) suggest(ctx context.Context, query string, platformVariant bool) Suggestions {
	key := cache.Key("autocomplete", query)
	if platformVariant {
		key = cache.Key("autocomplete:yt", query)
	}

	if values, ok := a.cache.Get(ctx, key); ok {
		return Suggestions{Values: values}
	}

	if err := a.limiter.Throttle(ctx); err != nil {
		return unavailable()
	}

	values, err := a.fetch(ctx, query, platformVariant)
	if err != nil {
		slog.Debug("autocomplete fetch degraded", "query", query, "error", err)
		return unavailable()
	}

	a.cache.Set(ctx, key, values, a.TTL)
	return Suggestions{Values: values}
}

func (a *Autocomplete) fetch(ctx context.Context, query string, platformVariant bool) ([]string, error) {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse autocomplete URL: %w", err)
	}

	q := u.Query()
	q.Set("client", "firefox")
	q.Set("q", query)
	q.Set("hl", a.Locale)
	if platformVariant {
		q.Set("ds", "yt")
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("autocomplete returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Payload shape: [query, [suggestion, ...], ...]
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("unexpected payload shape")
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion list: %w", err)
	}

	return suggestions, nil
}

// Expand unions the suggestions of every sub-query derived from the seed,
// removes the bare seed and empty strings, and returns a sorted deduplicated
// list. The result is unavailable only when every sub-query degraded.
func (a *Autocomplete) Expand(ctx context.Context, seed string) Suggestions {
	seed = strings.TrimSpace(strings.ToLower(seed))
	if seed == "" {
		return unavailable()
	}

	type subQuery struct {
		query    string
		platform bool
	}

	queries := make([]subQuery, 0, 26+len(lexicon.QuestionPrefixes)+len(lexicon.Prepositions)+len(lexicon.Qualifiers)+2)
	queries = append(queries, subQuery{query: seed})
	for ch := 'a'; ch <= 'z'; ch++ {
		queries = append(queries, subQuery{query: seed + " " + string(ch)})
	}
	for _, prefix := range lexicon.QuestionPrefixes {
		queries = append(queries, subQuery{query: prefix + " " + seed})
	}
	for _, prep := range lexicon.Prepositions {
		queries = append(queries, subQuery{query: seed + " " + prep})
	}
	for _, qualifier := range lexicon.Qualifiers {
		queries = append(queries, subQuery{query: qualifier + " " + seed})
	}
	queries = append(queries, subQuery{query: seed, platform: true})

	var (
		mu         sync.Mutex
		union      = make(map[string]struct{})
		anySuccess bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expandConcurrency)

	for _, sq := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := a.suggest(gctx, sq.query, sq.platform)
			if result.Unavailable {
				return nil
			}

			mu.Lock()
			anySuccess = true
			for _, s := range result.Values {
				s = strings.TrimSpace(strings.ToLower(s))
				if s == "" || s == seed {
					continue
				}
				union[s] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancellation mid-expansion: report whatever was collected.
		slog.Debug("autocomplete expansion interrupted", "seed", seed, "error", err)
	}

	if !anySuccess {
		return unavailable()
	}

	return Suggestions{Values: sortedUnique(union)}
}
