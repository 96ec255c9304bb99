// Package config loads application settings from Viper-backed configuration
// files and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/SEOSiri-Official/keywords-research-generator/internal/common"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultMaxKeywords    = 150
	DefaultMinClusterSize = 2
	DefaultLocale         = "en"
	DefaultCacheTTLHours  = 24

	// Per-source request ceilings, requests per second. The suggestion
	// endpoints are unofficial; these stay deliberately low.
	DefaultAutocompleteRPS = 5
	DefaultSemanticRPS     = 10
	DefaultTrendsRPS       = 1
	DefaultEntityRPS       = 10
)

// RateLimits holds the per-source request ceilings.
type RateLimits struct {
	Autocomplete int
	Semantic     int
	Trends       int
	Entity       int
}

// Settings is the resolved application configuration.
type Settings struct {
	CachePath     string
	Locale        string
	Geo           string
	MaxKeywords   int
	ClusterSize   int
	CacheTTLHours int
	RateLimits    RateLimits
}

// Load resolves settings with the precedence:
//  1. Viper configuration (config file or KWGEN_ env vars)
//  2. Direct environment variables (KWGEN_CACHE_PATH etc. when Viper unset)
//  3. Defaults
func Load() (*Settings, error) {
	s := &Settings{
		CachePath:     ExpandPath(stringSetting("cache.path", "KWGEN_CACHE_PATH", defaultCachePath())),
		Locale:        stringSetting("locale", "KWGEN_LOCALE", DefaultLocale),
		Geo:           stringSetting("geo", "KWGEN_GEO", ""),
		MaxKeywords:   intSetting("max_keywords", DefaultMaxKeywords),
		ClusterSize:   intSetting("cluster.min_size", DefaultMinClusterSize),
		CacheTTLHours: intSetting("cache.ttl_hours", DefaultCacheTTLHours),
		RateLimits: RateLimits{
			Autocomplete: intSetting("rate_limits.autocomplete", DefaultAutocompleteRPS),
			Semantic:     intSetting("rate_limits.semantic", DefaultSemanticRPS),
			Trends:       intSetting("rate_limits.trends", DefaultTrendsRPS),
			Entity:       intSetting("rate_limits.entity", DefaultEntityRPS),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings no pipeline run could work with.
func (s *Settings) Validate() error {
	if s.MaxKeywords <= 0 {
		return common.NewUserError("max_keywords must be positive", common.ErrInvalidConfig)
	}
	if s.ClusterSize < 1 {
		return common.NewUserError("cluster.min_size must be at least 1", common.ErrInvalidConfig)
	}
	if s.CacheTTLHours <= 0 {
		return common.NewUserError("cache.ttl_hours must be positive", common.ErrInvalidConfig)
	}
	for name, rps := range map[string]int{
		"rate_limits.autocomplete": s.RateLimits.Autocomplete,
		"rate_limits.semantic":     s.RateLimits.Semantic,
		"rate_limits.trends":       s.RateLimits.Trends,
		"rate_limits.entity":       s.RateLimits.Entity,
	} {
		if rps <= 0 {
			return common.NewUserError(name+" must be positive", common.ErrInvalidConfig)
		}
	}
	return nil
}

func stringSetting(key, envVar, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func intSetting(key string, fallback int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kwgen-cache.db"
	}
	return filepath.Join(home, ".kwgen", "cache.db")
}

// ExpandPath expands a leading ~ and $VAR environment references in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
