package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cli"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/searchconsole"
)

func performanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Pull query performance from Google Search Console",
		Long: `Fetch per-query clicks, impressions, CTR, and average position for a
verified Search Console property. Pass --striking to keep only queries in
positions 11-20, where small ranking gains reach page one.

Requires an OAuth access token with the webmasters.readonly scope.

Examples:
  kwgen performance --token "$TOKEN" --property https://example.com/
  kwgen performance --token "$TOKEN" --property sc-domain:example.com --striking`,
		RunE: runPerformance,
	}

	cmd.Flags().String("token", "", "OAuth access token (or KWGEN_TOKEN)")
	cmd.Flags().String("property", "", "verified property URL or sc-domain: identifier")
	cmd.Flags().Int("days", 28, "lookback window in days")
	cmd.Flags().String("start", "", "start date (2006-01-02), overrides --days")
	cmd.Flags().String("end", "", "end date (2006-01-02), defaults to today")
	cmd.Flags().Int("limit", 100, "maximum rows to fetch")
	cmd.Flags().Bool("striking", false, "keep only striking-distance queries (positions 11-20)")

	return cmd
}

func runPerformance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	token := mustString(cmd, "token")
	if token == "" {
		token = viper.GetString("token")
	}
	property := mustString(cmd, "property")
	if property == "" {
		property = viper.GetString("property")
	}

	client, err := searchconsole.NewClient(ctx, token, property)
	if err != nil {
		return err
	}

	end := time.Now().UTC()
	if raw := mustString(cmd, "end"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			return fmt.Errorf("invalid --end date %q: %w", raw, err)
		}
	}

	start := end.AddDate(0, 0, -mustInt(cmd, "days"))
	if raw := mustString(cmd, "start"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			return fmt.Errorf("invalid --start date %q: %w", raw, err)
		}
	}

	rows, err := client.QueryPerformance(ctx, start, end, mustInt(cmd, "limit"))
	if err != nil {
		return err
	}

	if mustBool(cmd, "striking") {
		rows = searchconsole.StrikingDistance(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No rows for the selected range"))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderPerformanceTable(rows))
	return nil
}
