package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 60, cfg.Server.TimeoutSeconds)
	require.False(t, cfg.Logging.Development)
	require.Equal(t, "newsreach-bot/1.0", cfg.Scraper.UserAgent)
	require.Equal(t, 30*time.Second, cfg.ExtractTimeout())
	require.Equal(t, 30*time.Second, cfg.LookupTimeout())
	require.InDelta(t, 0.5, cfg.Scraper.ImplausibleFactor, 1e-9)
	require.False(t, cfg.Headless.Enabled)
	require.Equal(t, "records", cfg.DB.Table)
	require.Empty(t, cfg.DB.DSN)
	require.Empty(t, cfg.RocketReach.APIKey)
	require.Equal(t, "./output", cfg.Export.OutputDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEWSREACH_SERVER_PORT", "9090")
	t.Setenv("NEWSREACH_SCRAPER_EXTRACT_TIMEOUT_SECONDS", "5")
	t.Setenv("ROCKETREACH_API_KEY", "secret-key")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.ExtractTimeout())
	require.Equal(t, "secret-key", cfg.RocketReach.APIKey)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080, TimeoutSeconds: 60},
			Scraper: ScraperConfig{ExtractTimeoutSecs: 30, LookupTimeoutSecs: 30, ImplausibleFactor: 0.5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero extract timeout", func(c *Config) { c.Scraper.ExtractTimeoutSecs = 0 }, true},
		{"zero lookup timeout", func(c *Config) { c.Scraper.LookupTimeoutSecs = 0 }, true},
		{"factor above one", func(c *Config) { c.Scraper.ImplausibleFactor = 1.5 }, true},
		{"factor zero", func(c *Config) { c.Scraper.ImplausibleFactor = 0 }, true},
		{"headless without nav timeout", func(c *Config) { c.Headless.Enabled = true }, true},
		{"headless with nav timeout", func(c *Config) {
			c.Headless.Enabled = true
			c.Headless.NavTimeoutSec = 25
		}, false},
		{"topic without project", func(c *Config) { c.PubSub.TopicName = "runs" }, true},
		{"topic with project", func(c *Config) {
			c.PubSub.TopicName = "runs"
			c.PubSub.ProjectID = "proj"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
