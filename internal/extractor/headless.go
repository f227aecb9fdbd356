package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// HeadlessConfig controls the chromedp renderer.
type HeadlessConfig struct {
	NavTimeout time.Duration
	UserAgent  string
}

// ChromeRenderer fetches pages with a headless browser so JS-rendered
// articles still expose their metadata.
type ChromeRenderer struct {
	cfg HeadlessConfig
}

// NewChromeRenderer builds a ChromeRenderer.
func NewChromeRenderer(cfg HeadlessConfig) *ChromeRenderer {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 25 * time.Second
	}
	return &ChromeRenderer{cfg: cfg}
}

// Render navigates to the URL and returns the rendered document HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if r.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.cfg.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, r.cfg.NavTimeout)
	defer cancelNav()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}
