// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Intent classifies the search purpose behind a keyword phrase.
type Intent string

// Intent constants, ordered by commercial value (low to high).
const (
	IntentInformational Intent = "informational"
	IntentNavigational  Intent = "navigational"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
)

// AllIntents returns the four valid intents in canonical order.
func AllIntents() []Intent {
	return []Intent{IntentInformational, IntentNavigational, IntentCommercial, IntentTransactional}
}

// LengthClass buckets a phrase by word count.
type LengthClass string

const (
	// LengthShort covers head terms of up to 2 words.
	LengthShort LengthClass = "short"
	// LengthMedium covers 3-4 word phrases.
	LengthMedium LengthClass = "medium"
	// LengthLong covers long-tail phrases of 5 or more words.
	LengthLong LengthClass = "long"
)

// LengthClassFor derives the length class from a word count.
func LengthClassFor(wordCount int) LengthClass {
	switch {
	case wordCount <= 2:
		return LengthShort
	case wordCount <= 4:
		return LengthMedium
	default:
		return LengthLong
	}
}

// WordCount counts whitespace-separated words in a phrase.
func WordCount(phrase string) int {
	return len(strings.Fields(phrase))
}

// TrendDirection indicates how search interest is moving.
type TrendDirection string

const (
	// TrendRising means recent interest is meaningfully above the prior window.
	TrendRising TrendDirection = "rising"
	// TrendStable means interest is flat within tolerance.
	TrendStable TrendDirection = "stable"
	// TrendDeclining means recent interest is meaningfully below the prior window.
	TrendDeclining TrendDirection = "declining"
)

// Metrics holds the heuristic SEO/SEM estimates for a keyword. All values are
// derived from cheap signals (autocomplete rank, phrase structure, trend
// interest), never ground-truth advertising data.
type Metrics struct {
	EstimatedCPC   decimal.Decimal `json:"estimated_cpc"`
	Trend          TrendDirection  `json:"trend"`
	SearchVolume   int             `json:"search_volume"`
	Difficulty     int             `json:"difficulty"`
	CPCCompetition int             `json:"cpc_competition"`
	Opportunity    int             `json:"opportunity"`
	CTRPotential   float64         `json:"ctr_potential"`
	VoiceFriendly  bool            `json:"voice_friendly"`
	AEOFriendly    bool            `json:"aeo_friendly"`
}

// HintCategory tags a recommendation hint.
type HintCategory string

const (
	// HintContent suggests content-format work.
	HintContent HintCategory = "content"
	// HintAEO suggests answer-engine optimization work.
	HintAEO HintCategory = "aeo"
	// HintVoice suggests voice-search optimization work.
	HintVoice HintCategory = "voice"
	// HintSERP suggests SERP-feature targeting.
	HintSERP HintCategory = "serp"
	// HintSEM suggests paid-search tactics.
	HintSEM HintCategory = "sem"
)

// Hint is a single free-text recommendation attached to a keyword.
type Hint struct {
	Category HintCategory `json:"category"`
	Text     string       `json:"text"`
	Priority int          `json:"priority"`
}

// Keyword is the enriched unit of pipeline output. Created once during
// enrichment and never mutated afterwards.
type Keyword struct {
	CreatedAt   time.Time   `json:"created_at"`
	ID          string      `json:"id"`
	Phrase      string      `json:"phrase"`
	Intent      Intent      `json:"intent"`
	LengthClass LengthClass `json:"length_class"`
	Region      string      `json:"region,omitempty"`
	Segment     string      `json:"segment,omitempty"`
	Category    string      `json:"category,omitempty"`
	Language    string      `json:"language,omitempty"`
	Hints       []Hint      `json:"hints,omitempty"`
	Variants    []string    `json:"variants,omitempty"`
	Metrics     Metrics     `json:"metrics"`
}
