// Package export serializes result sessions to CSV, JSON, and Markdown.
// JSON is the round-trip format: a session written with WriteJSON reads
// back with ReadJSON unchanged. CSV and Markdown are one-way reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
)

// Format names a supported export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, Format("md"):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json, or markdown)", s)
	}
}

// Write dispatches to the writer for the given format.
func Write(w io.Writer, session *model.ResultSession, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, session)
	case FormatJSON:
		return WriteJSON(w, session)
	case FormatMarkdown:
		return WriteMarkdown(w, session)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var csvHeader = []string{
	"phrase", "intent", "length_class", "search_volume", "difficulty",
	"cpc_competition", "estimated_cpc", "ctr_potential", "opportunity",
	"trend", "voice_friendly", "aeo_friendly",
}

// WriteCSV writes one row per keyword with a fixed header.
func WriteCSV(w io.Writer, session *model.ResultSession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, k := range session.Keywords {
		record := []string{
			k.Phrase,
			string(k.Intent),
			string(k.LengthClass),
			strconv.Itoa(k.Metrics.SearchVolume),
			strconv.Itoa(k.Metrics.Difficulty),
			strconv.Itoa(k.Metrics.CPCCompetition),
			k.Metrics.EstimatedCPC.StringFixed(2),
			strconv.FormatFloat(k.Metrics.CTRPotential, 'f', 2, 64),
			strconv.Itoa(k.Metrics.Opportunity),
			string(k.Metrics.Trend),
			strconv.FormatBool(k.Metrics.VoiceFriendly),
			strconv.FormatBool(k.Metrics.AEOFriendly),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for %q: %w", k.Phrase, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

// WriteJSON writes the full session, indented for readability.
func WriteJSON(w io.Writer, session *model.ResultSession) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(session); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return nil
}

// ReadJSON reads a session previously written with WriteJSON.
func ReadJSON(r io.Reader) (*model.ResultSession, error) {
	var session model.ResultSession
	if err := json.NewDecoder(r).Decode(&session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

// WriteMarkdown renders a human-readable report: a summary header, the
// keyword table sorted by opportunity, and a section per cluster.
func WriteMarkdown(w io.Writer, session *model.ResultSession) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Keyword Research: %s\n\n", session.Seed)
	fmt.Fprintf(&b, "Generated %s | %d keywords | %d clusters | trend %s (interest %d)\n\n",
		session.GeneratedAt.Format("2006-01-02 15:04 MST"),
		len(session.Keywords), len(session.Clusters),
		session.Trend.Direction, session.Trend.Interest)

	sorted := make([]model.Keyword, len(session.Keywords))
	copy(sorted, session.Keywords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metrics.Opportunity > sorted[j].Metrics.Opportunity
	})

	b.WriteString("## Keywords\n\n")
	b.WriteString("| Phrase | Intent | Volume | Difficulty | CPC | Opportunity |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, k := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | $%s | %d |\n",
			k.Phrase, k.Intent,
			k.Metrics.SearchVolume, k.Metrics.Difficulty,
			k.Metrics.EstimatedCPC.StringFixed(2), k.Metrics.Opportunity)
	}
	b.WriteString("\n")

	for _, c := range session.Clusters {
		fmt.Fprintf(&b, "## Cluster: %s\n\n", c.Root)
		fmt.Fprintf(&b, "Pillar: **%s** | %d keywords | total volume %d | avg difficulty %d\n\n",
			c.Pillar.Phrase, c.Size, c.TotalVolume, c.AvgDifficulty)
		for _, s := range c.Supporting {
			fmt.Fprintf(&b, "- %s (%s, volume %d)\n", s.Phrase, s.Intent, s.Metrics.SearchVolume)
		}
		b.WriteString("\n")
	}

	if len(session.Trend.RisingQueries) > 0 {
		b.WriteString("## Rising Queries\n\n")
		for _, q := range session.Trend.RisingQueries {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}
