// Package intent implements the rule-based search-intent classifier. Four
// fixed signal lists score a phrase into informational, navigational,
// commercial, or transactional buckets; the strictly highest bucket wins.
package intent

import (
	"strings"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/lexicon"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

const (
	// questionBonus is added to the informational bucket when the phrase
	// contains a question mark.
	questionBonus = 3

	// shortNavigationalBonus is added when a phrase of at most two words
	// already carries navigational signal; short brand-like phrases bias
	// navigational.
	shortNavigationalBonus = 2
)

// Scores holds the raw per-bucket signal scores for a phrase. Exposed for
// diagnostic display; classification collapses these with the tie-break.
type Scores struct {
	Informational int
	Navigational  int
	Commercial    int
	Transactional int
}

// Classify returns the intent of a phrase. Ties resolve transactional >
// commercial > navigational > informational; a phrase with no signal at all
// defaults to informational.
func Classify(phrase string) model.Intent {
	s := ScoresFor(phrase)

	best := model.IntentInformational
	bestScore := s.Informational
	// Walk in increasing tie-break priority so equal scores settle on the
	// higher-priority bucket.
	if s.Navigational >= bestScore && s.Navigational > 0 {
		best, bestScore = model.IntentNavigational, s.Navigational
	}
	if s.Commercial >= bestScore && s.Commercial > 0 {
		best, bestScore = model.IntentCommercial, s.Commercial
	}
	if s.Transactional >= bestScore && s.Transactional > 0 {
		best = model.IntentTransactional
	}

	return best
}

// ScoresFor computes the four raw bucket scores using the same rules as
// Classify, without the tie-break collapse.
func ScoresFor(phrase string) Scores {
	lower := strings.ToLower(phrase)

	s := Scores{
		Informational: scoreSignals(lower, lexicon.InformationalSignals),
		Navigational:  scoreSignals(lower, lexicon.NavigationalSignals),
		Commercial:    scoreSignals(lower, lexicon.CommercialSignals),
		Transactional: scoreSignals(lower, lexicon.TransactionalSignals),
	}

	if strings.Contains(lower, "?") {
		s.Informational += questionBonus
	}

	if model.WordCount(lower) <= 2 && s.Navigational > 0 {
		s.Navigational += shortNavigationalBonus
	}

	return s
}

// scoreSignals adds each matched signal's word count to the bucket score.
func scoreSignals(lower string, signals []string) int {
	score := 0
	for _, signal := range signals {
		if strings.Contains(lower, signal) {
			score += model.WordCount(signal)
		}
	}
	return score
}
