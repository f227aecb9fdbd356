// Package app wires configuration into the service's components.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newsreach/newsreach/internal/api"
	"github.com/newsreach/newsreach/internal/clock/system"
	"github.com/newsreach/newsreach/internal/config"
	"github.com/newsreach/newsreach/internal/emailcheck"
	"github.com/newsreach/newsreach/internal/extractor"
	"github.com/newsreach/newsreach/internal/logging"
	"github.com/newsreach/newsreach/internal/metrics"
	pubsubpublisher "github.com/newsreach/newsreach/internal/publisher/pubsub"
	"github.com/newsreach/newsreach/internal/resolver"
	"github.com/newsreach/newsreach/internal/scraper"
	memorystore "github.com/newsreach/newsreach/internal/store/memory"
	postgresstore "github.com/newsreach/newsreach/internal/store/postgres"
)

// App holds the constructed service graph.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Runner *scraper.Runner
	Server *api.Server

	closers []func()
}

// New builds the full application from config.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	metrics.Init()

	a := &App{Config: cfg, Logger: logger}

	store, err := a.buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var renderer extractor.Renderer
	if cfg.Headless.Enabled {
		renderer = extractor.NewChromeRenderer(extractor.HeadlessConfig{
			NavTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
			UserAgent:  cfg.Scraper.UserAgent,
		})
	}
	articleExtractor := extractor.New(extractor.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.ExtractTimeout(),
	}, renderer, logger)

	var contactResolver scraper.Resolver
	if cfg.RocketReach.APIKey != "" {
		rr, err := resolver.New(cfg.RocketReach.APIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("build resolver: %w", err)
		}
		contactResolver = rr
	} else {
		logger.Warn("no enrichment api key configured, running extraction-only")
	}

	validator := emailcheck.New(
		emailcheck.WithTimeout(time.Duration(cfg.Scraper.MXLookupTimeoutSecs) * time.Second),
	)

	var publisher scraper.Publisher
	if cfg.PubSub.TopicName != "" {
		ps, err := pubsubpublisher.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("build publisher: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := ps.Close(); err != nil {
				logger.Warn("close publisher failed", zap.Error(err))
			}
		})
		publisher = ps
	}

	a.Runner = scraper.NewRunner(
		articleExtractor,
		contactResolver,
		validator,
		extractor.NewKeywordDiscoverer(),
		store,
		publisher,
		scraper.NewConfidencePolicy(cfg.Scraper.ImplausibleFactor),
		system.New(),
		scraper.RunnerConfig{
			ExtractTimeout:  cfg.ExtractTimeout(),
			LookupTimeout:   cfg.LookupTimeout(),
			CompletionTopic: cfg.PubSub.TopicName,
		},
		logger,
	)

	a.Server = api.NewServer(a.Runner, logger, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
	return a, nil
}

func (a *App) buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (scraper.ResultStore, error) {
	if cfg.DB.DSN == "" {
		return memorystore.New(), nil
	}
	store, err := postgresstore.New(ctx, postgresstore.Config{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("build postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("using postgres result store", zap.String("table", cfg.DB.Table))
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Close releases held resources.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.Logger.Sync()
}
