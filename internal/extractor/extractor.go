// Package extractor converts article URLs into structured metadata. A static
// colly fetch handles most pages; when it yields no title and headless
// rendering is enabled, the page is re-fetched through chromedp and parsed
// again, mirroring the probe-then-promote flow used elsewhere in the stack.
package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/newsreach/newsreach/internal/scraper"
)

// Config controls fetch behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Renderer fetches a page with a JS-capable browser and returns its HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Extractor implements scraper.Extractor with colly and goquery.
type Extractor struct {
	cfg           Config
	baseCollector *colly.Collector
	renderer      Renderer // nil disables the headless fallback
	logger        *zap.Logger
}

// New builds an Extractor. Pass a nil renderer to disable headless fallback.
func New(cfg Config, renderer Renderer, logger *zap.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	return &Extractor{
		cfg:           cfg,
		baseCollector: c,
		renderer:      renderer,
		logger:        logger,
	}
}

// Extract fetches the URL and parses article metadata out of the HTML.
func (e *Extractor) Extract(ctx context.Context, url string) (scraper.Article, error) {
	html, err := e.fetch(ctx, url)
	if err != nil {
		return scraper.Article{}, err
	}

	article, err := ParseArticle(url, html)
	if err != nil {
		return scraper.Article{}, err
	}
	if article.Title == "" && e.renderer != nil {
		rendered, renderErr := e.renderer.Render(ctx, url)
		if renderErr != nil {
			e.logger.Warn("headless fallback failed", zap.String("url", url), zap.Error(renderErr))
			return article, nil
		}
		promoted, parseErr := ParseArticle(url, rendered)
		if parseErr == nil && promoted.Title != "" {
			return promoted, nil
		}
	}
	return article, nil
}

func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	var (
		body     []byte
		status   int
		fetchErr error
	)

	collector := e.baseCollector.Clone()
	if e.cfg.UserAgent != "" {
		collector.UserAgent = e.cfg.UserAgent
	}
	collector.SetRequestTimeout(e.cfg.Timeout)

	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if err := collector.Visit(url); err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	collector.Wait()

	if fetchErr != nil {
		return "", fmt.Errorf("fetch %s: %w", url, fetchErr)
	}
	if status >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", url, status)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("fetch %s: empty body", url)
	}
	return string(body), nil
}
