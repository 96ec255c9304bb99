package searchconsole

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
)

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, "", "https://example.com/")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingToken)

	_, err = NewClient(ctx, "ya29.token", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingProperty)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestQueryPerformance(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rows": [
				{"keys": ["flutter plugin tutorial"], "clicks": 120, "impressions": 4800, "ctr": 0.025, "position": 8.2},
				{"keys": ["best flutter plugin"], "clicks": 15, "impressions": 2100, "ctr": 0.007, "position": 14.6},
				{"keys": []}
			]
		}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, "ya29.test-token", "https://example.com/",
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	rows, err := client.QueryPerformance(ctx, start, end, 100)
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows without a query key are skipped")

	assert.Equal(t, "Bearer ya29.test-token", gotAuth)
	assert.Equal(t, "flutter plugin tutorial", rows[0].Query)
	assert.Equal(t, 120, rows[0].Clicks)
	assert.Equal(t, 4800, rows[0].Impressions)
	assert.InDelta(t, 0.025, rows[0].CTR, 1e-9)
	assert.InDelta(t, 8.2, rows[0].Position, 1e-9)
}

func TestQueryPerformanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 403, "message": "insufficient permissions"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, "ya29.test-token", "https://example.com/",
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = client.QueryPerformance(ctx, time.Now().AddDate(0, 0, -28), time.Now(), 100)
	assert.Error(t, err, "authenticated source failures must surface, never degrade")
}

func TestStrikingDistance(t *testing.T) {
	rows := []PerformanceRow{
		{Query: "page one", Position: 3.1},
		{Query: "lower boundary", Position: 11.0},
		{Query: "middle", Position: 15.7},
		{Query: "upper boundary", Position: 20.0},
		{Query: "deep", Position: 20.1},
	}

	got := StrikingDistance(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "lower boundary", got[0].Query)
	assert.Equal(t, "middle", got[1].Query)
	assert.Equal(t, "upper boundary", got[2].Query)

	assert.Nil(t, StrikingDistance(nil))
}
