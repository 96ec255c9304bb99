package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

func TestFor(t *testing.T) {
	t.Run("every intent yields a content hint", func(t *testing.T) {
		for _, intent := range model.AllIntents() {
			hints := For("flutter plugin", intent, model.Metrics{EstimatedCPC: decimal.Zero})
			require.NotEmpty(t, hints, intent)
			assert.Equal(t, model.HintContent, hints[0].Category, intent)
		}
	})

	t.Run("flags add aeo and voice hints", func(t *testing.T) {
		m := model.Metrics{AEOFriendly: true, VoiceFriendly: true, EstimatedCPC: decimal.Zero}
		hints := For("how to write a flutter plugin", model.IntentInformational, m)

		assert.True(t, hasCategory(hints, model.HintAEO))
		assert.True(t, hasCategory(hints, model.HintVoice))
	})

	t.Run("commercial intent adds a sem hint", func(t *testing.T) {
		m := model.Metrics{CPCCompetition: 55, EstimatedCPC: decimal.NewFromFloat(4.85)}
		hints := For("best flutter plugin", model.IntentCommercial, m)

		require.True(t, hasCategory(hints, model.HintSEM))
		assert.False(t, hasCategory(For("flutter docs", model.IntentNavigational, model.Metrics{EstimatedCPC: decimal.Zero}), model.HintSEM))
	})

	t.Run("easy high-opportunity keywords get a priority serp hint", func(t *testing.T) {
		m := model.Metrics{Difficulty: 20, Opportunity: 60, EstimatedCPC: decimal.Zero}
		hints := For("flutter plugin walkthrough", model.IntentInformational, m)

		assert.True(t, hasCategory(hints, model.HintSERP))
	})
}

func TestQuestionVariants(t *testing.T) {
	variants := QuestionVariants("flutter plugin", model.IntentCommercial)

	assert.Contains(t, variants, "what is flutter plugin")
	assert.Contains(t, variants, "which flutter plugin is best")
	assert.Len(t, variants, 3)
}

func hasCategory(hints []model.Hint, category model.HintCategory) bool {
	for _, h := range hints {
		if h.Category == category {
			return true
		}
	}
	return false
}
