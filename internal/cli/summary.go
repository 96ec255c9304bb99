package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/searchconsole"
)

// topKeywordRows caps the keyword table in the terminal summary; the full
// list goes to the export file.
const topKeywordRows = 15

// RenderSessionSummary renders a boxed terminal summary of a pipeline run:
// the trend line, the top keywords by opportunity, and the cluster roll-up.
func RenderSessionSummary(session *model.ResultSession) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s keywords in %d clusters | trend %s %s (interest %d)\n\n",
		SuccessStyle.Render(fmt.Sprintf("%d", len(session.Keywords))),
		len(session.Clusters),
		trendIcon(session.Trend.Direction),
		session.Trend.Direction,
		session.Trend.Interest)

	b.WriteString(renderKeywordTable(session.Keywords))

	if len(session.Clusters) > 0 {
		b.WriteString("\n")
		b.WriteString(renderClusterList(session.Clusters))
	}

	if len(session.Trend.RisingQueries) > 0 {
		b.WriteString("\n" + SubtleStyle.Render("Rising: "+strings.Join(session.Trend.RisingQueries, ", ")) + "\n")
	}

	return RenderBox("Keyword Research: "+session.Seed, strings.TrimRight(b.String(), "\n"))
}

func renderKeywordTable(keywords []model.Keyword) string {
	sorted := make([]model.Keyword, len(keywords))
	copy(sorted, keywords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metrics.Opportunity > sorted[j].Metrics.Opportunity
	})
	if len(sorted) > topKeywordRows {
		sorted = sorted[:topKeywordRows]
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-40s %-14s %8s %6s %6s", "Phrase", "Intent", "Volume", "Diff", "Opp")) + "\n")
	for _, k := range sorted {
		row := fmt.Sprintf("%-40s %-14s %8d %6d %6d",
			truncate(k.Phrase, 40), k.Intent,
			k.Metrics.SearchVolume, k.Metrics.Difficulty, k.Metrics.Opportunity)
		b.WriteString(TableCellStyle.Render(row) + "\n")
	}
	return b.String()
}

func renderClusterList(clusters []model.ClusterSummary) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render("Clusters") + "\n")
	for _, c := range clusters {
		b.WriteString(fmt.Sprintf("  %s (%d keywords, volume %d, avg difficulty %d)\n",
			c.Root, c.Size, c.TotalVolume, c.AvgDifficulty))
	}
	return b.String()
}

// RenderPerformanceTable renders Search Console rows, highlighting
// striking-distance queries.
func RenderPerformanceTable(rows []searchconsole.PerformanceRow) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-40s %8s %12s %7s %9s", "Query", "Clicks", "Impressions", "CTR", "Position")) + "\n")

	striking := make(map[string]bool)
	for _, r := range searchconsole.StrikingDistance(rows) {
		striking[r.Query] = true
	}

	for _, r := range rows {
		row := fmt.Sprintf("%-40s %8d %12d %6.1f%% %9.1f",
			truncate(r.Query, 40), r.Clicks, r.Impressions, r.CTR*100, r.Position)
		if striking[r.Query] {
			row = WarningStyle.Render(row + " " + WarningIcon)
		} else {
			row = TableCellStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}

	return b.String()
}

func trendIcon(d model.TrendDirection) string {
	switch d {
	case model.TrendRising:
		return SuccessStyle.Render(RisingIcon)
	case model.TrendDeclining:
		return ErrorStyle.Render(FallingIcon)
	default:
		return SubtleStyle.Render(StableIcon)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
