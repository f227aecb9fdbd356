package extractor

import (
	"context"
	"strings"

	"github.com/newsreach/newsreach/internal/scraper"
)

// KeywordDiscoverer expands a keyword into seed URLs. The default behavior
// treats a keyword that parses as a URL as a single seed; anything else
// yields no URLs and the trigger is rejected upstream.
type KeywordDiscoverer struct{}

// NewKeywordDiscoverer builds a KeywordDiscoverer.
func NewKeywordDiscoverer() *KeywordDiscoverer {
	return &KeywordDiscoverer{}
}

// Discover returns seed URLs for the keyword.
func (KeywordDiscoverer) Discover(_ context.Context, keyword string) ([]string, error) {
	if !strings.Contains(keyword, ".") {
		return nil, nil
	}
	normalized, err := scraper.NormalizeURL(keyword)
	if err != nil {
		return nil, nil
	}
	return []string{normalized}, nil
}
