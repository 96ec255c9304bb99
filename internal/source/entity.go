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
	"time"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/ratelimit"
)

const (
	defaultEntityURL = "https://en.wikipedia.org/w/api.php"

	// categoryTitleLimit bounds how many top titles get a category lookup.
	categoryTitleLimit = 3
)

// Entity fetches related topic-page titles and their category labels from a
// public wiki API and turns them into keyword-phrase variants.
type Entity struct {
	cache   cache.Cache
	limiter *ratelimit.Limiter
	client  *http.Client
	BaseURL string
	TTL     time.Duration
}

// NewEntity creates an entity adapter.
func NewEntity(c cache.Cache, limiter *ratelimit.Limiter) *Entity {
	return &Entity{
		cache:   c,
		limiter: limiter,
		client:  newHTTPClient(),
		BaseURL: defaultEntityURL,
		TTL:     cache.DefaultTTL,
	}
}

// Titles returns ranked topic-page titles related to the keyword.
func (e *Entity) Titles(ctx context.Context, keyword string) Suggestions {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return unavailable()
	}

	key := cache.Key("entity:titles", keyword)
	if values, ok := e.cache.Get(ctx, key); ok {
		return Suggestions{Values: values}
	}

	if err := e.limiter.Throttle(ctx); err != nil {
		return unavailable()
	}

	titles, err := e.fetchTitles(ctx, keyword)
	if err != nil {
		slog.Debug("entity title fetch degraded", "keyword", keyword, "error", err)
		return unavailable()
	}

	e.cache.Set(ctx, key, titles, e.TTL)
	return Suggestions{Values: titles}
}

// Categories returns the category labels a topic page belongs to.
func (e *Entity) Categories(ctx context.Context, title string) Suggestions {
	title = strings.TrimSpace(title)
	if title == "" {
		return unavailable()
	}

	key := cache.Key("entity:categories", title)
	if values, ok := e.cache.Get(ctx, key); ok {
		return Suggestions{Values: values}
	}

	if err := e.limiter.Throttle(ctx); err != nil {
		return unavailable()
	}

	categories, err := e.fetchCategories(ctx, title)
	if err != nil {
		slog.Debug("entity category fetch degraded", "title", title, "error", err)
		return unavailable()
	}

	e.cache.Set(ctx, key, categories, e.TTL)
	return Suggestions{Values: categories}
}

// Expand unions title-derived phrase variants and, for the top few titles,
// category-derived phrases. Unavailable only when the title fetch itself
// degraded.
func (e *Entity) Expand(ctx context.Context, keyword string) Suggestions {
	titles := e.Titles(ctx, keyword)
	if titles.Unavailable {
		return unavailable()
	}

	union := make(map[string]struct{})
	for _, title := range titles.Values {
		for _, variant := range PhraseVariants(title) {
			union[variant] = struct{}{}
		}
	}

	for i, title := range titles.Values {
		if i >= categoryTitleLimit || ctx.Err() != nil {
			break
		}
		categories := e.Categories(ctx, title)
		for _, c := range categories.Values {
			union[strings.ToLower(c)] = struct{}{}
		}
	}

	return Suggestions{Values: sortedUnique(union)}
}

// PhraseVariants turns a topic title into keyword-phrase candidates.
func PhraseVariants(title string) []string {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return nil
	}
	return []string{
		title,
		title + " guide",
		"what is " + title,
	}
}

func (e *Entity) fetchTitles(ctx context.Context, keyword string) ([]string, error) {
	params := url.Values{
		"action": {"opensearch"},
		"search": {keyword},
		"limit":  {"10"},
		"format": {"json"},
	}

	body, err := e.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// Payload shape: [query, [titles...], [descriptions...], [urls...]]
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("unexpected payload shape")
	}

	var titles []string
	if err := json.Unmarshal(payload[1], &titles); err != nil {
		return nil, fmt.Errorf("failed to decode title list: %w", err)
	}

	return titles, nil
}

func (e *Entity) fetchCategories(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"titles":   {title},
		"prop":     {"categories"},
		"clshow":   {"!hidden"},
		"cllimit":  {"10"},
		"format":   {"json"},
		"redirect": {"1"},
	}

	body, err := e.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Categories []struct {
					Title string `json:"title"`
				} `json:"categories"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var categories []string
	for _, page := range payload.Query.Pages {
		for _, c := range page.Categories {
			label := strings.TrimPrefix(c.Title, "Category:")
			if label != "" {
				categories = append(categories, label)
			}
		}
	}

	return categories, nil
}

func (e *Entity) get(ctx context.Context, params url.Values) ([]byte, error) {
	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entity URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entity source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
