package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

func sampleSession() *model.ResultSession {
	k1 := model.Keyword{
		ID:          "kw-1",
		Phrase:      "flutter plugin tutorial",
		Intent:      model.IntentInformational,
		LengthClass: model.LengthMedium,
		Metrics: model.Metrics{
			SearchVolume:   4200,
			Difficulty:     38,
			CPCCompetition: 25,
			EstimatedCPC:   decimal.RequireFromString("1.85"),
			CTRPotential:   0.31,
			Opportunity:    62,
			Trend:          model.TrendRising,
			VoiceFriendly:  false,
			AEOFriendly:    true,
		},
		Hints:     []model.Hint{{Category: model.HintContent, Text: "Create a tutorial", Priority: 1}},
		Variants:  []string{"what is flutter plugin tutorial"},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	k2 := model.Keyword{
		ID:          "kw-2",
		Phrase:      "buy flutter plugin license",
		Intent:      model.IntentTransactional,
		LengthClass: model.LengthMedium,
		Metrics: model.Metrics{
			SearchVolume:   900,
			Difficulty:     55,
			CPCCompetition: 70,
			EstimatedCPC:   decimal.RequireFromString("6.40"),
			CTRPotential:   0.12,
			Opportunity:    41,
			Trend:          model.TrendRising,
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	return &model.ResultSession{
		ID:       "session-1",
		Seed:     "flutter plugin",
		Keywords: []model.Keyword{k1, k2},
		Clusters: []model.ClusterSummary{{
			Root:          "flutter plugin",
			Pillar:        k1,
			Supporting:    []model.Keyword{k2},
			TotalVolume:   5100,
			AvgDifficulty: 46,
			Intents:       []model.Intent{model.IntentInformational, model.IntentTransactional},
			Size:          2,
		}},
		Trend: model.TrendSnapshot{
			Direction:     model.TrendRising,
			Interest:      74,
			RisingQueries: []string{"flutter plugin ai"},
		},
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" markdown ", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"xlsx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	session := sampleSession()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, session))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)

	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Seed, got.Seed)
	assert.Equal(t, session.Trend, got.Trend)
	assert.True(t, session.GeneratedAt.Equal(got.GeneratedAt))
	require.Len(t, got.Keywords, len(session.Keywords))

	for i, want := range session.Keywords {
		k := got.Keywords[i]
		assert.Equal(t, want.Phrase, k.Phrase)
		assert.Equal(t, want.Intent, k.Intent)
		assert.Equal(t, want.LengthClass, k.LengthClass)
		assert.Equal(t, want.Metrics.SearchVolume, k.Metrics.SearchVolume)
		assert.Equal(t, want.Metrics.Difficulty, k.Metrics.Difficulty)
		assert.Equal(t, want.Metrics.Opportunity, k.Metrics.Opportunity)
		assert.Equal(t, want.Metrics.CTRPotential, k.Metrics.CTRPotential)
		assert.True(t, want.Metrics.EstimatedCPC.Equal(k.Metrics.EstimatedCPC),
			"CPC must survive the round trip exactly")
		assert.Equal(t, want.Hints, k.Hints)
		assert.Equal(t, want.Variants, k.Variants)
	}

	require.Len(t, got.Clusters, 1)
	assert.Equal(t, session.Clusters[0].Root, got.Clusters[0].Root)
	assert.Equal(t, session.Clusters[0].TotalVolume, got.Clusters[0].TotalVolume)
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSession()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per keyword")

	assert.Equal(t, csvHeader, records[0])

	first := records[1]
	assert.Equal(t, "flutter plugin tutorial", first[0])
	assert.Equal(t, "informational", first[1])
	assert.Equal(t, "medium", first[2])
	assert.Equal(t, "4200", first[3])
	assert.Equal(t, "1.85", first[6])
	assert.Equal(t, "0.31", first[7])
	assert.Equal(t, "rising", first[9])
	assert.Equal(t, "true", first[11])

	assert.Equal(t, "buy flutter plugin license", records[2][0])
	assert.Equal(t, "6.40", records[2][6])
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleSession()))
	out := buf.String()

	assert.Contains(t, out, "# Keyword Research: flutter plugin")
	assert.Contains(t, out, "## Cluster: flutter plugin")
	assert.Contains(t, out, "Pillar: **flutter plugin tutorial**")
	assert.Contains(t, out, "## Rising Queries")
	assert.Contains(t, out, "- flutter plugin ai")

	tutorialIdx := strings.Index(out, "| flutter plugin tutorial |")
	buyIdx := strings.Index(out, "| buy flutter plugin license |")
	require.Greater(t, tutorialIdx, 0)
	require.Greater(t, buyIdx, 0)
	assert.Less(t, tutorialIdx, buyIdx, "table sorted by opportunity descending")
}

func TestWriteDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSession(), FormatJSON))
	assert.Contains(t, buf.String(), `"seed": "flutter plugin"`)

	assert.Error(t, Write(&buf, sampleSession(), Format("xml")))
}
