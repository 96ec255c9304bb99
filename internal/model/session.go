package model

import "time"

// TrendSnapshot captures seed-level search-interest data from the trend
// source. A failed or disabled fetch yields the neutral snapshot.
type TrendSnapshot struct {
	Direction     TrendDirection `json:"direction"`
	Interest      int            `json:"interest"`
	RisingQueries []string       `json:"rising_queries,omitempty"`
}

// NeutralTrend is the snapshot used when trend data is unavailable.
func NeutralTrend() TrendSnapshot {
	return TrendSnapshot{Direction: TrendStable, Interest: 50}
}

// ResultSession is the unit returned to the caller and serialized for export:
// the seed, the filter applied, the full keyword list, clusters, and the
// seed-level trend snapshot.
type ResultSession struct {
	GeneratedAt time.Time        `json:"generated_at"`
	ID          string           `json:"id"`
	Seed        string           `json:"seed"`
	Filter      Filter           `json:"filter"`
	Keywords    []Keyword        `json:"keywords"`
	Clusters    []ClusterSummary `json:"clusters"`
	Trend       TrendSnapshot    `json:"trend"`
}
