// Package config loads and validates the application configuration from
// a YAML file plus environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/newsradar/internal/classify"
	"github.com/jonesrussell/newsradar/internal/fetcher"
	"github.com/jonesrussell/newsradar/internal/logger"
	"github.com/jonesrussell/newsradar/internal/throttle"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// NEWSRADAR_CRAWLER_MAX_RESULTS.
const envPrefix = "NEWSRADAR"

// envBoundKeys are the configuration keys with no registered default
// that are still settable through the environment.
var envBoundKeys = []string{
	"logging.development",
	"crawler.keywords",
	"crawler.sources",
	"crawler.social_accounts",
	"crawler.deep_scrape",
	"crawler.validate_links",
	"crawler.today_only",
	"crawler.include_yesterday",
	"fetcher.user_agents",
	"classifier.allow_patterns",
	"classifier.deny_patterns",
	"dedup.dsn",
}

// Dedup backends.
const (
	DedupBackendFile     = "file"
	DedupBackendPostgres = "postgres"
)

var (
	// ErrNoKeywords indicates an empty keyword list.
	ErrNoKeywords = errors.New("config: at least one keyword is required")
	// ErrNoSources indicates neither sources nor social accounts were
	// configured.
	ErrNoSources = errors.New("config: at least one source or social account is required")
	// ErrUnknownDedupBackend indicates an unrecognized dedup backend name.
	ErrUnknownDedupBackend = errors.New("config: unknown dedup backend")
	// ErrMissingPostgresDSN indicates the postgres backend without a DSN.
	ErrMissingPostgresDSN = errors.New("config: postgres dedup backend requires a dsn")
)

// Config is the application configuration.
type Config struct {
	Logging    logger.Config   `mapstructure:"logging"`
	Crawler    CrawlerConfig   `mapstructure:"crawler"`
	Fetcher    fetcher.Config  `mapstructure:"fetcher"`
	Throttle   throttle.Config `mapstructure:"throttle"`
	Classifier classify.Config `mapstructure:"classifier"`
	Dedup      DedupConfig     `mapstructure:"dedup"`
	Report     ReportConfig    `mapstructure:"report"`
	Schedule   ScheduleConfig  `mapstructure:"schedule"`
}

// CrawlerConfig holds the run-level crawl parameters.
type CrawlerConfig struct {
	// Keywords is the ordered keyword list articles are scored against.
	Keywords []string `mapstructure:"keywords"`
	// Sources is the ordered list of seed site URLs.
	Sources []string `mapstructure:"sources"`
	// SocialAccounts are handles forwarded to the social client boundary.
	SocialAccounts []string `mapstructure:"social_accounts"`
	// MaxResults caps the final result set; 0 means unbounded.
	MaxResults int `mapstructure:"max_results"`
	// MaxLinksPerSource bounds candidate links kept per source.
	MaxLinksPerSource int `mapstructure:"max_links_per_source"`
	// DeepScrape enables the second discovery hop.
	DeepScrape bool `mapstructure:"deep_scrape"`
	// DeepScrapeLimit bounds first-hop pages expanded during deep scrape.
	DeepScrapeLimit int `mapstructure:"deep_scrape_limit"`
	// ValidateLinks enables a HEAD check before article processing.
	ValidateLinks bool `mapstructure:"validate_links"`
	// TodayOnly accepts only articles dated on the run date.
	TodayOnly bool `mapstructure:"today_only"`
	// IncludeYesterday extends TodayOnly to the previous day.
	IncludeYesterday bool `mapstructure:"include_yesterday"`
	// SourceParallelism bounds concurrently crawled sources.
	SourceParallelism int `mapstructure:"source_parallelism"`
}

// DedupConfig selects and configures the persisted dedup store.
type DedupConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
	// File is the JSON file path used by the file backend.
	File string `mapstructure:"file"`
	// DSN is the Postgres connection string used by the postgres backend.
	DSN string `mapstructure:"dsn"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	// Output is the CSV path; the JSON report is written next to it.
	Output string `mapstructure:"output"`
}

// ScheduleConfig controls the schedule command.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron spec.
	Cron string `mapstructure:"cron"`
}

// Load reads configuration from the given file (or the default lookup
// paths when empty), applies environment overrides, and validates.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AllSettings only surfaces environment values for keys viper already
	// knows; keys without a registered default must be bound explicitly.
	for _, key := range envBoundKeys {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file: defaults plus environment variables apply.
	}

	cfg := &Config{}
	if err := decode(v.AllSettings(), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration before any work is dispatched. These
// are the only failures that abort a run at startup.
func (c *Config) Validate() error {
	if len(c.Crawler.Keywords) == 0 {
		return ErrNoKeywords
	}

	if len(c.Crawler.Sources) == 0 && len(c.Crawler.SocialAccounts) == 0 {
		return ErrNoSources
	}

	switch c.Dedup.Backend {
	case DedupBackendFile:
	case DedupBackendPostgres:
		if c.Dedup.DSN == "" {
			return ErrMissingPostgresDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDedupBackend, c.Dedup.Backend)
	}

	return nil
}

// decode maps viper settings onto the config struct with duration and
// comma-separated-list coercion.
func decode(settings map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(settings)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")

	v.SetDefault("crawler.max_results", 0)
	v.SetDefault("crawler.max_links_per_source", 50)
	v.SetDefault("crawler.deep_scrape_limit", 15)
	v.SetDefault("crawler.source_parallelism", 8)

	v.SetDefault("fetcher.timeout", 10*time.Second)
	v.SetDefault("fetcher.max_attempts", 4)
	v.SetDefault("fetcher.backoff_base", time.Second)
	v.SetDefault("fetcher.rate_limit_delay", 5*time.Second)

	v.SetDefault("throttle.per_domain", throttle.DefaultPerDomain)
	v.SetDefault("throttle.pacing", throttle.DefaultPacing)

	v.SetDefault("dedup.backend", DedupBackendFile)
	v.SetDefault("dedup.file", "radar_cache.json")

	v.SetDefault("report.output", "noticias.csv")

	v.SetDefault("schedule.cron", "0 * * * *")
}
