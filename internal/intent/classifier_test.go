package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   model.Intent
	}{
		{"how-to is informational", "how to write a flutter plugin", model.IntentInformational},
		{"tutorial is informational", "flutter plugin tutorial", model.IntentInformational},
		{"buy is transactional", "buy flutter plugin license", model.IntentTransactional},
		{"discount is transactional", "flutter plugin discount code", model.IntentTransactional},
		{"best/review is commercial", "best flutter plugin review", model.IntentCommercial},
		{"comparison is commercial", "flutter plugin comparison", model.IntentCommercial},
		{"login is navigational", "flutter login", model.IntentNavigational},
		{"no signal defaults to informational", "flutter plugin", model.IntentInformational},
		{"empty phrase defaults to informational", "", model.IntentInformational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.phrase))
		})
	}
}

func TestClassifyTieBreak(t *testing.T) {
	// "price" (transactional) and "compare" (commercial) each contribute a
	// single word; transactional wins the tie.
	assert.Equal(t, model.IntentTransactional, Classify("compare price"))

	// "best" (commercial) and "official" (navigational, >2 words so no short
	// bonus) tie at one word each; commercial wins.
	assert.Equal(t, model.IntentCommercial, Classify("best official thing"))
}

func TestClassifyNeverPicksZeroBucket(t *testing.T) {
	// A phrase with only commercial signal must never classify into an
	// unsignaled bucket.
	phrases := []string{"best widgets", "cheap widgets", "top widgets"}
	for _, p := range phrases {
		got := Classify(p)
		s := ScoresFor(p)
		assert.Equal(t, model.IntentCommercial, got, p)
		assert.Zero(t, s.Transactional, p)
	}
}

func TestScoresFor(t *testing.T) {
	t.Run("question mark adds the informational bonus", func(t *testing.T) {
		without := ScoresFor("flutter plugin")
		with := ScoresFor("flutter plugin?")
		assert.Equal(t, without.Informational+3, with.Informational)
	})

	t.Run("multi-word signals score their word count", func(t *testing.T) {
		s := ScoresFor("widget free shipping")
		assert.GreaterOrEqual(t, s.Transactional, 2)
	})

	t.Run("short navigational phrase gets the brand bonus", func(t *testing.T) {
		short := ScoresFor("flutter login")
		long := ScoresFor("flutter login page for developers")
		// Both match "login"; only the two-word phrase gets the bonus.
		assert.Equal(t, long.Navigational+2, short.Navigational)
	})

	t.Run("no bonus without navigational signal", func(t *testing.T) {
		s := ScoresFor("flutter")
		assert.Zero(t, s.Navigational)
	})
}
