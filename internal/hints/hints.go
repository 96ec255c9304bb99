// Package hints derives per-keyword recommendation entries and question-form
// phrase variants from intent, flags, and metrics.
package hints

import (
	"fmt"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

// Hint priorities, highest first.
const (
	priorityHigh   = 1
	priorityMedium = 2
	priorityLow    = 3
)

// For builds the recommendation list for a keyword phrase.
func For(phrase string, intent model.Intent, m model.Metrics) []model.Hint {
	var hints []model.Hint

	switch intent {
	case model.IntentInformational:
		hints = append(hints, model.Hint{
			Category: model.HintContent,
			Priority: priorityHigh,
			Text:     fmt.Sprintf("Create an in-depth guide or tutorial targeting %q", phrase),
		})
	case model.IntentNavigational:
		hints = append(hints, model.Hint{
			Category: model.HintContent,
			Priority: priorityMedium,
			Text:     "Ensure brand and product pages rank for this query",
		})
	case model.IntentCommercial:
		hints = append(hints, model.Hint{
			Category: model.HintContent,
			Priority: priorityHigh,
			Text:     fmt.Sprintf("Publish a comparison or review page for %q", phrase),
		})
	case model.IntentTransactional:
		hints = append(hints, model.Hint{
			Category: model.HintContent,
			Priority: priorityHigh,
			Text:     "Optimize product and pricing pages with clear calls to action",
		})
	}

	if m.AEOFriendly {
		hints = append(hints, model.Hint{
			Category: model.HintAEO,
			Priority: priorityMedium,
			Text:     "Add a concise direct-answer paragraph near the top of the page",
		})
	}

	if m.VoiceFriendly {
		hints = append(hints, model.Hint{
			Category: model.HintVoice,
			Priority: priorityMedium,
			Text:     "Phrase headings as natural-language questions for voice queries",
		})
	}

	if m.Difficulty <= 30 && m.Opportunity >= 50 {
		hints = append(hints, model.Hint{
			Category: model.HintSERP,
			Priority: priorityHigh,
			Text:     "Low difficulty with high opportunity: prioritize this phrase",
		})
	} else if m.Difficulty >= 70 {
		hints = append(hints, model.Hint{
			Category: model.HintSERP,
			Priority: priorityLow,
			Text:     "High difficulty: target long-tail variations first",
		})
	}

	if intent == model.IntentCommercial || intent == model.IntentTransactional {
		hints = append(hints, model.Hint{
			Category: model.HintSEM,
			Priority: semPriority(m.CPCCompetition),
			Text: fmt.Sprintf("Estimated CPC $%s at %d competition: consider paid coverage",
				m.EstimatedCPC.StringFixed(2), m.CPCCompetition),
		})
	}

	return hints
}

func semPriority(competition int) int {
	if competition >= 60 {
		return priorityLow
	}
	return priorityMedium
}

// QuestionVariants rewrites a phrase into question forms suited to its
// intent.
func QuestionVariants(phrase string, intent model.Intent) []string {
	variants := []string{
		"what is " + phrase,
		"how to choose " + phrase,
	}

	switch intent {
	case model.IntentInformational:
		variants = append(variants, "how does "+phrase+" work")
	case model.IntentCommercial:
		variants = append(variants, "which "+phrase+" is best")
	case model.IntentTransactional:
		variants = append(variants, "where to buy "+phrase)
	case model.IntentNavigational:
		variants = append(variants, "where to find "+phrase)
	}

	return variants
}
