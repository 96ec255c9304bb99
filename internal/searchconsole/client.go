// Package searchconsole pulls query performance data from the Google Search
// Console API. Unlike the free suggestion sources this adapter is
// authenticated and quota-backed, so failures surface as errors instead of
// degrading silently.
package searchconsole

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
)

const (
	// Striking-distance positions: ranking close enough to page one that
	// targeted work can move the query onto it.
	strikingDistanceMin = 11.0
	strikingDistanceMax = 20.0

	maxRowLimit = 5000
)

// PerformanceRow is one query's aggregate performance for a property.
type PerformanceRow struct {
	Query       string  `json:"query"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// Client queries the Search Console API for a single verified property.
type Client struct {
	svc      *searchconsole.Service
	property string
}

// NewClient builds a client from a caller-supplied OAuth bearer token and a
// verified property URL (e.g. "https://example.com/" or "sc-domain:example.com").
// Extra options are appended after the authenticated HTTP client, so tests
// can redirect the endpoint.
func NewClient(ctx context.Context, token, property string, opts ...option.ClientOption) (*Client, error) {
	if token == "" {
		return nil, common.NewUserError(
			"a Search Console OAuth token is required (see --token)",
			common.ErrMissingToken)
	}
	if property == "" {
		return nil, common.NewUserError(
			"a verified Search Console property is required (see --property)",
			common.ErrMissingProperty)
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	clientOpts := append([]option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(ctx, source)),
	}, opts...)

	svc, err := searchconsole.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating search console service: %w", err)
	}

	return &Client{svc: svc, property: property}, nil
}

// QueryPerformance fetches per-query performance rows for the date range,
// newest-dimension aggregation, up to rowLimit rows.
func (c *Client) QueryPerformance(ctx context.Context, start, end time.Time, rowLimit int) ([]PerformanceRow, error) {
	if rowLimit <= 0 || rowLimit > maxRowLimit {
		rowLimit = maxRowLimit
	}

	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Dimensions: []string{"query"},
		RowLimit:   int64(rowLimit),
	}

	slog.Info("Querying search console",
		"property", c.property,
		"start", req.StartDate,
		"end", req.EndDate)

	resp, err := c.svc.Searchanalytics.Query(c.property, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search console query for %s: %w", c.property, err)
	}

	rows := make([]PerformanceRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		if len(r.Keys) == 0 {
			continue
		}
		rows = append(rows, PerformanceRow{
			Query:       r.Keys[0],
			Clicks:      int(r.Clicks),
			Impressions: int(r.Impressions),
			CTR:         r.Ctr,
			Position:    r.Position,
		})
	}

	slog.Info("Search console query complete", "rows", len(rows))
	return rows, nil
}

// StrikingDistance returns the rows ranking in positions 11-20: page-two
// queries worth prioritizing because small gains put them on page one.
func StrikingDistance(rows []PerformanceRow) []PerformanceRow {
	var out []PerformanceRow
	for _, r := range rows {
		if r.Position >= strikingDistanceMin && r.Position <= strikingDistanceMax {
			out = append(out, r)
		}
	}
	return out
}
