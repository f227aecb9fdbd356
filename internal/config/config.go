// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Scraper     ScraperConfig     `mapstructure:"scraper"`
	Headless    HeadlessConfig    `mapstructure:"headless"`
	RocketReach RocketReachConfig `mapstructure:"rocketreach"`
	DB          DBConfig          `mapstructure:"db"`
	PubSub      PubSubConfig      `mapstructure:"pubsub"`
	Export      ExportConfig      `mapstructure:"export"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// ScraperConfig governs the per-URL pipeline.
type ScraperConfig struct {
	UserAgent           string  `mapstructure:"user_agent"`
	ExtractTimeoutSecs  int     `mapstructure:"extract_timeout_seconds"`
	LookupTimeoutSecs   int     `mapstructure:"lookup_timeout_seconds"`
	ImplausibleFactor   float64 `mapstructure:"implausible_factor"`
	MXLookupTimeoutSecs int     `mapstructure:"mx_lookup_timeout_seconds"`
}

// HeadlessConfig configures the chromedp fallback.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
}

// RocketReachConfig holds the enrichment service credentials. An empty key
// degrades the pipeline to extraction-only; it is never an error.
type RocketReachConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DBConfig selects the optional Postgres result store. An empty DSN keeps the
// in-memory store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// PubSubConfig holds metadata for run-completion notifications. An empty
// project or topic disables publishing.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// ExportConfig sets where the one-shot CLI writes its files.
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEWSREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The enrichment key keeps its conventional name alongside the prefixed form.
	if err := v.BindEnv("rocketreach.api_key", "ROCKETREACH_API_KEY", "NEWSREACH_ROCKETREACH_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 60)
	v.SetDefault("logging.development", false)
	v.SetDefault("scraper.user_agent", "newsreach-bot/1.0")
	v.SetDefault("scraper.extract_timeout_seconds", 30)
	v.SetDefault("scraper.lookup_timeout_seconds", 30)
	v.SetDefault("scraper.implausible_factor", 0.5)
	v.SetDefault("scraper.mx_lookup_timeout_seconds", 10)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("db.table", "records")
	v.SetDefault("export.output_dir", "./output")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.ExtractTimeoutSecs <= 0 {
		return fmt.Errorf("scraper.extract_timeout_seconds must be > 0")
	}
	if c.Scraper.LookupTimeoutSecs <= 0 {
		return fmt.Errorf("scraper.lookup_timeout_seconds must be > 0")
	}
	if c.Scraper.ImplausibleFactor <= 0 || c.Scraper.ImplausibleFactor > 1 {
		return fmt.Errorf("scraper.implausible_factor must be in (0, 1]")
	}
	if c.Headless.Enabled && c.Headless.NavTimeoutSec <= 0 {
		return fmt.Errorf("headless.nav_timeout_seconds must be > 0 when headless is enabled")
	}
	if c.PubSub.TopicName != "" && c.PubSub.ProjectID == "" {
		return fmt.Errorf("pubsub.project_id must be set when pubsub.topic_name is set")
	}
	return nil
}

// ExtractTimeout returns the extraction timeout as a duration.
func (c Config) ExtractTimeout() time.Duration {
	return time.Duration(c.Scraper.ExtractTimeoutSecs) * time.Second
}

// LookupTimeout returns the resolver timeout as a duration.
func (c Config) LookupTimeout() time.Duration {
	return time.Duration(c.Scraper.LookupTimeoutSecs) * time.Second
}
