package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/cli"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/config"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/export"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/model"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/pipeline"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/ratelimit"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/source"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <seed phrase>",
		Short: "Generate keyword ideas from a seed phrase",
		Long: `Expand a seed phrase into scored, clustered keyword ideas.

Examples:
  kwgen generate "flutter plugin"
  kwgen generate "standing desk" --intent commercial,transactional --region Texas
  kwgen generate "sourdough" --no-trends --format csv --output keywords.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringSlice("intent", nil, "keep only these intents (informational, navigational, commercial, transactional)")
	cmd.Flags().StringSlice("length", nil, "keep only these length classes (short, medium, long)")
	cmd.Flags().String("region", "", "region context for contextual phrases and tagging")
	cmd.Flags().String("segment", "", "audience segment context (e.g. startups)")
	cmd.Flags().String("category", "", "category context (e.g. mobile)")
	cmd.Flags().String("language", "", "language tag attached to results")
	cmd.Flags().Int("min-volume", 0, "minimum estimated search volume")
	cmd.Flags().Int("max-difficulty", 0, "maximum difficulty (0 = no limit)")
	cmd.Flags().Int("min-opportunity", 0, "minimum opportunity score")
	cmd.Flags().Bool("voice-only", false, "keep only voice-search friendly phrases")
	cmd.Flags().Bool("aeo-only", false, "keep only answer-engine friendly phrases")

	cmd.Flags().Bool("no-semantic", false, "skip semantic word-relation expansion")
	cmd.Flags().Bool("no-entity", false, "skip encyclopedia entity expansion")
	cmd.Flags().Bool("no-trends", false, "skip the trend snapshot")
	cmd.Flags().Bool("no-cache", false, "bypass the durable suggestion cache")

	cmd.Flags().IntP("max-keywords", "n", 0, "cap on enriched keywords (0 = config default)")
	cmd.Flags().String("geo", "", "trend geography (e.g. US); empty = worldwide")
	cmd.Flags().StringP("format", "f", "json", "export format (csv, json, markdown)")
	cmd.Flags().StringP("output", "o", "", "write export to this file instead of only the summary")
	cmd.Flags().Bool("quiet", false, "suppress the progress bar and summary")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	seed := strings.Join(args, " ")

	settings, err := config.Load()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidConfig)
	}

	filter, err := buildFilter(cmd)
	if err != nil {
		return err
	}

	toggles := pipeline.Toggles{
		Semantic: !mustBool(cmd, "no-semantic"),
		Entity:   !mustBool(cmd, "no-entity"),
		Trends:   !mustBool(cmd, "no-trends"),
	}

	store, cleanup := openCache(cmd, settings)
	defer cleanup()

	cfg := pipeline.DefaultConfig()
	cfg.MaxKeywords = settings.MaxKeywords
	cfg.MinClusterSize = settings.ClusterSize
	cfg.Geo = settings.Geo
	if n := mustInt(cmd, "max-keywords"); n > 0 {
		cfg.MaxKeywords = n
	}
	if geo := mustString(cmd, "geo"); geo != "" {
		cfg.Geo = geo
	}

	autocomplete, semantic, entity, trends := buildSources(store, settings)
	generator := pipeline.New(autocomplete, semantic, entity, trends, cfg)

	quiet := mustBool(cmd, "quiet")
	progress := pipeline.ProgressFunc(nil)
	if !quiet {
		bar := newProgressBar()
		progress = func(stage string, percent int) {
			bar.Describe(fmt.Sprintf("[cyan]%-12s[reset]", stage))
			_ = bar.Set(percent)
		}
	}

	session, err := generator.Generate(ctx, seed, filter, toggles, progress)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSessionSummary(session))
	}

	output := mustString(cmd, "output")
	if output == "" {
		if quiet {
			// Nothing else to show; emit the export on stdout.
			return export.Write(cmd.OutOrStdout(), session, format)
		}
		return nil
	}

	if err := writeExportFile(output, session, format); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+output))
	}
	return nil
}

func buildFilter(cmd *cobra.Command) (model.Filter, error) {
	filter := model.Filter{
		Region:         mustString(cmd, "region"),
		Segment:        mustString(cmd, "segment"),
		Category:       mustString(cmd, "category"),
		Language:       mustString(cmd, "language"),
		MinVolume:      mustInt(cmd, "min-volume"),
		MaxDifficulty:  mustInt(cmd, "max-difficulty"),
		MinOpportunity: mustInt(cmd, "min-opportunity"),
		VoiceOnly:      mustBool(cmd, "voice-only"),
		AEOOnly:        mustBool(cmd, "aeo-only"),
	}

	intents, _ := cmd.Flags().GetStringSlice("intent")
	for _, raw := range intents {
		intent := model.Intent(strings.ToLower(strings.TrimSpace(raw)))
		if !validIntent(intent) {
			return model.Filter{}, common.NewUserError(
				fmt.Sprintf("unknown intent %q (want informational, navigational, commercial, or transactional)", raw),
				common.ErrInvalidFilter)
		}
		filter.Intents = append(filter.Intents, intent)
	}

	lengths, _ := cmd.Flags().GetStringSlice("length")
	for _, raw := range lengths {
		class := model.LengthClass(strings.ToLower(strings.TrimSpace(raw)))
		switch class {
		case model.LengthShort, model.LengthMedium, model.LengthLong:
			filter.LengthClasses = append(filter.LengthClasses, class)
		default:
			return model.Filter{}, common.NewUserError(
				fmt.Sprintf("unknown length class %q (want short, medium, or long)", raw),
				common.ErrInvalidFilter)
		}
	}

	return filter, nil
}

func validIntent(intent model.Intent) bool {
	for _, i := range model.AllIntents() {
		if i == intent {
			return true
		}
	}
	return false
}

// buildSources constructs the four suggestion adapters with the configured
// rate limits, cache TTL, and locale applied.
func buildSources(store cache.Cache, settings *config.Settings) (*source.Autocomplete, *source.Semantic, *source.Entity, *source.Trends) {
	ttl := time.Duration(settings.CacheTTLHours) * time.Hour

	autocomplete := source.NewAutocomplete(store, ratelimit.New(settings.RateLimits.Autocomplete))
	autocomplete.Locale = settings.Locale
	autocomplete.TTL = ttl

	semantic := source.NewSemantic(store, ratelimit.New(settings.RateLimits.Semantic))
	semantic.TTL = ttl

	entity := source.NewEntity(store, ratelimit.New(settings.RateLimits.Entity))
	entity.TTL = ttl

	trends := source.NewTrends(store, ratelimit.New(settings.RateLimits.Trends))
	trends.TTL = ttl

	return autocomplete, semantic, entity, trends
}

// openCache builds the tiered suggestion cache. A broken durable tier
// degrades to memory-only instead of failing the run.
func openCache(cmd *cobra.Command, settings *config.Settings) (cache.Cache, func()) {
	memory := cache.NewMemory()

	if mustBool(cmd, "no-cache") {
		return memory, memory.Close
	}

	if err := os.MkdirAll(filepath.Dir(settings.CachePath), 0o700); err != nil {
		slog.Warn("Cannot create cache directory, using memory cache only",
			"path", settings.CachePath, "error", err)
		return memory, memory.Close
	}

	durable, err := cache.NewSQLite(settings.CachePath)
	if err != nil {
		slog.Warn("Cannot open durable cache, using memory cache only",
			"path", settings.CachePath, "error", err)
		return memory, memory.Close
	}

	tiered := cache.NewTiered(memory, durable)
	return tiered, func() {
		memory.Close()
		if closeErr := durable.Close(); closeErr != nil {
			slog.Error("Failed to close cache database", "error", closeErr)
		}
	}
}

func writeExportFile(path string, session *model.ResultSession, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("Failed to close output file", "path", path, "error", closeErr)
		}
	}()

	return export.Write(f, session, format)
}

func newProgressBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]starting...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustInt(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
