// Package source implements the thin fetch+parse+cache adapters around the
// free public suggestion endpoints: autocomplete, semantic relations, trend
// interest, and entity lookup.
//
// Every adapter follows the same discipline: check the cache first, throttle
// on a miss, make a single short-timeout request, and on any failure return
// an unavailable result instead of an error. Failures degrade the pipeline,
// never abort it.
package source

import (
	"net/http"
	"sort"
	"time"
)

// fetchTimeout bounds every upstream request.
const fetchTimeout = 6 * time.Second

// Suggestions is the result of a source fetch. Unavailable marks a degraded
// fetch explicitly so callers can log or report it without treating failure
// as success.
type Suggestions struct {
	Values      []string
	Unavailable bool
}

// unavailable is the canonical degraded result.
func unavailable() Suggestions {
	return Suggestions{Unavailable: true}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// sortedUnique deduplicates and sorts a set of phrases, dropping empties.
func sortedUnique(values map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	for v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
