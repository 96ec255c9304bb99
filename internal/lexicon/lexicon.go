// Package lexicon holds the fixed signal-word lists the pipeline scores
// against: stop words, intent signals, and the commercial/local/price
// detectors. Everything here is loaded once and never mutated at runtime.
package lexicon

import (
	"strconv"
	"strings"
	"time"
)

// IntentSignals are the fixed per-intent signal phrases. Matching is
// case-insensitive substring membership; each match contributes its own
// word count to the intent's score.
var (
	InformationalSignals = []string{
		"how", "what", "why", "when", "where", "which", "who",
		"guide", "tutorial", "learn", "examples", "tips", "ideas",
		"meaning", "definition", "explained", "checklist",
	}

	NavigationalSignals = []string{
		"login", "sign in", "sign up", "download", "official",
		"website", "app", "portal", "dashboard", "docs", "documentation",
		"contact", "support",
	}

	CommercialSignals = []string{
		"best", "top", "review", "reviews", "compare", "comparison",
		"alternative", "alternatives", "vs", "cheap", "affordable",
		"premium", "pricing", "features", "pros and cons",
	}

	TransactionalSignals = []string{
		"buy", "price", "cost", "order", "purchase", "deal", "deals",
		"discount", "coupon", "subscription", "for sale", "free shipping",
		"hire", "book now", "near me",
	}
)

// StopWords are dropped during lexical root extraction.
var stopWords = toSet([]string{
	"a", "an", "the", "and", "or", "but", "for", "with", "without",
	"of", "in", "on", "at", "to", "from", "by", "is", "are", "was",
	"be", "been", "my", "your", "our", "their", "this", "that",
	"how", "what", "why", "when", "where", "which", "who", "can",
	"do", "does", "will", "should", "near", "me", "vs", "best", "top",
})

// commercialWords feed the difficulty/CPC commercial-signal detector.
var commercialWords = []string{
	"best", "top", "review", "vs", "alternative", "compare",
	"premium", "professional", "service", "software", "tool", "agency",
}

// priceWords feed the CPC price-signal detector.
var priceWords = []string{
	"price", "cost", "cheap", "affordable", "pricing", "under",
	"budget", "deal", "discount", "free",
}

// localWords feed the volume local/seasonal-signal detector; the current
// and next calendar years count as seasonal signals too.
var localWords = []string{
	"near me", "local", "nearby", "in my area", "open now",
}

// QuestionPrefixes are prepended to the seed for autocomplete fan-out.
var QuestionPrefixes = []string{
	"how to", "what is", "why", "when to", "where to", "which", "can", "does",
}

// Prepositions are appended to the seed for autocomplete fan-out.
var Prepositions = []string{
	"for", "with", "without", "vs", "like", "to", "near",
}

// Qualifiers are combined with the seed for autocomplete fan-out.
var Qualifiers = []string{
	"best", "top", "cheap", "free", "online", "review", "alternative",
}

// IsStopWord reports whether a lower-cased word is a stop word.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// HasCommercialSignal reports whether the phrase contains a commercial
// signal word.
func HasCommercialSignal(phrase string) bool {
	return containsAny(phrase, commercialWords)
}

// HasPriceSignal reports whether the phrase contains a price signal word.
func HasPriceSignal(phrase string) bool {
	return containsAny(phrase, priceWords)
}

// HasLocalSignal reports whether the phrase contains a local or seasonal
// signal (location words, current year, next year).
func HasLocalSignal(phrase string) bool {
	if containsAny(phrase, localWords) {
		return true
	}
	year := time.Now().Year()
	lower := strings.ToLower(phrase)
	return strings.Contains(lower, strconv.Itoa(year)) ||
		strings.Contains(lower, strconv.Itoa(year+1))
}

func containsAny(phrase string, words []string) bool {
	lower := strings.ToLower(phrase)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
