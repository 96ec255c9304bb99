package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/cache"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/cli"
	"github.com/SEOSiri-Official/keywords-research-generator/internal/config"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the suggestion cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts",
		RunE:  runCacheStats,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all cached suggestions",
		RunE:  runCacheClear,
	})

	return cmd
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	durable, err := cache.NewSQLite(settings.CachePath)
	if err != nil {
		return fmt.Errorf("opening cache at %s: %w", settings.CachePath, err)
	}
	defer func() { _ = durable.Close() }()

	size, err := durable.Size(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading cache size: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Suggestion Cache",
		fmt.Sprintf("Path:    %s\nEntries: %d\nTTL:     %dh", settings.CachePath, size, settings.CacheTTLHours)))
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	durable, err := cache.NewSQLite(settings.CachePath)
	if err != nil {
		return fmt.Errorf("opening cache at %s: %w", settings.CachePath, err)
	}
	defer func() { _ = durable.Close() }()

	if err := durable.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Cache cleared"))
	return nil
}
