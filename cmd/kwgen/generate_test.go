package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/config"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

func TestBuildFilter(t *testing.T) {
	cmd := generateCmd()
	require.NoError(t, cmd.Flags().Set("intent", "commercial,transactional"))
	require.NoError(t, cmd.Flags().Set("length", "medium"))
	require.NoError(t, cmd.Flags().Set("region", "Texas"))
	require.NoError(t, cmd.Flags().Set("min-volume", "500"))
	require.NoError(t, cmd.Flags().Set("voice-only", "true"))

	filter, err := buildFilter(cmd)
	require.NoError(t, err)

	assert.Equal(t, []model.Intent{model.IntentCommercial, model.IntentTransactional}, filter.Intents)
	assert.Equal(t, []model.LengthClass{model.LengthMedium}, filter.LengthClasses)
	assert.Equal(t, "Texas", filter.Region)
	assert.Equal(t, 500, filter.MinVolume)
	assert.True(t, filter.VoiceOnly)
}

func TestBuildFilterRejectsUnknownIntent(t *testing.T) {
	cmd := generateCmd()
	require.NoError(t, cmd.Flags().Set("intent", "browsing"))

	_, err := buildFilter(cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidFilter)
}

func TestBuildFilterRejectsUnknownLength(t *testing.T) {
	cmd := generateCmd()
	require.NoError(t, cmd.Flags().Set("length", "gigantic"))

	_, err := buildFilter(cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidFilter)
}

func TestBuildSourcesAppliesSettings(t *testing.T) {
	settings := &config.Settings{
		Locale:        "de",
		CacheTTLHours: 6,
		RateLimits: config.RateLimits{
			Autocomplete: 5, Semantic: 10, Trends: 1, Entity: 10,
		},
	}

	autocomplete, semantic, entity, trends := buildSources(cache.Noop{}, settings)

	want := 6 * time.Hour
	assert.Equal(t, want, autocomplete.TTL, "configured TTL must reach the autocomplete adapter")
	assert.Equal(t, want, semantic.TTL)
	assert.Equal(t, want, entity.TTL)
	assert.Equal(t, want, trends.TTL)
	assert.Equal(t, "de", autocomplete.Locale)
}

func TestGenerateCmdRequiresSeed(t *testing.T) {
	cmd := generateCmd()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
