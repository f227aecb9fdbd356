package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsreach/newsreach/internal/scraper"
)

// ParseArticle extracts article metadata from raw HTML. Missing fields stay
// empty; only an unparseable document is an error.
func ParseArticle(url, html string) (scraper.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return scraper.Article{}, fmt.Errorf("parse html for %s: %w", url, err)
	}

	return scraper.Article{
		URL:          url,
		Title:        extractTitle(doc),
		Author:       extractAuthor(doc),
		SourceDomain: scraper.DomainFromURL(url),
		DatePublish:  extractDate(doc),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if v := metaContent(doc, `meta[property="og:title"]`); v != "" {
		return v
	}
	if v := metaContent(doc, `meta[name="twitter:title"]`); v != "" {
		return v
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractAuthor(doc *goquery.Document) string {
	selectors := []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="parsely-author"]`,
	}
	for _, sel := range selectors {
		if v := metaContent(doc, sel); v != "" && !strings.HasPrefix(v, "http") {
			return v
		}
	}
	// Visible byline as a last resort.
	for _, sel := range []string{`[rel="author"]`, ".byline a", ".author-name"} {
		if v := strings.TrimSpace(doc.Find(sel).First().Text()); v != "" {
			return v
		}
	}
	return ""
}

func extractDate(doc *goquery.Document) string {
	selectors := []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="parsely-pub-date"]`,
		`meta[itemprop="datePublished"]`,
	}
	for _, sel := range selectors {
		if v := metaContent(doc, sel); v != "" {
			return v
		}
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}
