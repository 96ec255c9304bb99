package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/ratelimit"
)

const (
	defaultTrendsURL = "https://trends.google.com/trends/api/widgetdata/multiline"

	// directionTolerance is the relative change between the two most recent
	// 4-point windows below which the trend counts as stable.
	directionTolerance = 0.15
)

// Trends fetches seed-level search-interest data. Any failure yields the
// neutral snapshot (stable, interest 50, no rising queries) so the pipeline
// never depends on trend availability.
type Trends struct {
	cache   cache.Cache
	limiter *ratelimit.Limiter
	client  *http.Client
	BaseURL string
	TTL     time.Duration
}

// NewTrends creates a trend adapter.
func NewTrends(c cache.Cache, limiter *ratelimit.Limiter) *Trends {
	return &Trends{
		cache:   c,
		limiter: limiter,
		client:  newHTTPClient(),
		BaseURL: defaultTrendsURL,
		TTL:     cache.DefaultTTL,
	}
}

type trendsResponse struct {
	Default struct {
		TimelineData []struct {
			Value []int `json:"value"`
		} `json:"timelineData"`
		RankedList []struct {
			RankedKeyword []struct {
				Query          string `json:"query"`
				FormattedValue string `json:"formattedValue"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// Snapshot returns direction, interest score, and breakout related queries
// for a keyword, optionally scoped to a geography.
func (t *Trends) Snapshot(ctx context.Context, keyword, geo string) model.TrendSnapshot {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return model.NeutralTrend()
	}

	key := cache.Key("trends:"+geo, keyword)
	if values, ok := t.cache.Get(ctx, key); ok {
		if snapshot, ok := decodeSnapshot(values); ok {
			return snapshot
		}
	}

	if err := t.limiter.Throttle(ctx); err != nil {
		return model.NeutralTrend()
	}

	snapshot, err := t.fetch(ctx, keyword, geo)
	if err != nil {
		slog.Debug("trend fetch degraded, using neutral snapshot",
			"keyword", keyword, "error", err)
		return model.NeutralTrend()
	}

	t.cache.Set(ctx, key, encodeSnapshot(snapshot), t.TTL)
	return snapshot
}

func (t *Trends) fetch(ctx context.Context, keyword, geo string) (model.TrendSnapshot, error) {
	u, err := url.Parse(t.BaseURL)
	if err != nil {
		return model.TrendSnapshot{}, fmt.Errorf("failed to parse trends URL: %w", err)
	}

	q := u.Query()
	q.Set("keyword", keyword)
	if geo != "" {
		q.Set("geo", geo)
	}
	q.Set("time", "today 3-m")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.TrendSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return model.TrendSnapshot{}, fmt.Errorf("failed to fetch trend data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.TrendSnapshot{}, fmt.Errorf("trend source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.TrendSnapshot{}, fmt.Errorf("failed to read response: %w", err)
	}

	// The endpoint prefixes its JSON with an anti-XSSI guard line.
	if idx := strings.IndexByte(string(body), '{'); idx > 0 {
		body = body[idx:]
	}

	var parsed trendsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.TrendSnapshot{}, fmt.Errorf("failed to decode response: %w", err)
	}

	values := make([]int, 0, len(parsed.Default.TimelineData))
	for _, point := range parsed.Default.TimelineData {
		if len(point.Value) > 0 {
			values = append(values, point.Value[0])
		}
	}
	if len(values) == 0 {
		return model.TrendSnapshot{}, fmt.Errorf("empty timeline")
	}

	var rising []string
	for _, list := range parsed.Default.RankedList {
		for _, kw := range list.RankedKeyword {
			if kw.Query == "" {
				continue
			}
			if kw.FormattedValue == "Breakout" || strings.HasPrefix(kw.FormattedValue, "+") {
				rising = append(rising, strings.ToLower(kw.Query))
			}
		}
	}

	return model.TrendSnapshot{
		Direction:     directionOf(values),
		Interest:      meanOf(values),
		RisingQueries: rising,
	}, nil
}

// directionOf compares the mean of the most recent 4 data points against the
// mean of the prior 4. More than 15% above is rising, more than 15% below is
// declining, anything else is stable.
func directionOf(values []int) model.TrendDirection {
	if len(values) < 8 {
		return model.TrendStable
	}

	recent := float64(sumOf(values[len(values)-4:])) / 4
	prior := float64(sumOf(values[len(values)-8:len(values)-4])) / 4
	if prior == 0 {
		if recent > 0 {
			return model.TrendRising
		}
		return model.TrendStable
	}

	change := (recent - prior) / prior
	switch {
	case change > directionTolerance:
		return model.TrendRising
	case change < -directionTolerance:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func meanOf(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return sumOf(values) / len(values)
}

func sumOf(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

// Snapshots are stored in the string-list cache as
// [direction, interest, rising...].
func encodeSnapshot(s model.TrendSnapshot) []string {
	values := make([]string, 0, 2+len(s.RisingQueries))
	values = append(values, string(s.Direction), strconv.Itoa(s.Interest))
	values = append(values, s.RisingQueries...)
	return values
}

func decodeSnapshot(values []string) (model.TrendSnapshot, bool) {
	if len(values) < 2 {
		return model.TrendSnapshot{}, false
	}

	direction := model.TrendDirection(values[0])
	switch direction {
	case model.TrendRising, model.TrendStable, model.TrendDeclining:
	default:
		return model.TrendSnapshot{}, false
	}

	interest, err := strconv.Atoi(values[1])
	if err != nil || interest < 0 || interest > 100 {
		return model.TrendSnapshot{}, false
	}

	var rising []string
	if len(values) > 2 {
		rising = values[2:]
	}

	return model.TrendSnapshot{
		Direction:     direction,
		Interest:      interest,
		RisingQueries: rising,
	}, true
}
