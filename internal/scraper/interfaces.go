package scraper

import (
	"context"
	"time"
)

// Extractor converts a URL into article metadata.
type Extractor interface {
	Extract(ctx context.Context, url string) (Article, error)
}

// Resolver looks up a contact for an author at a source domain. A nil contact
// with a nil error means the lookup completed but found nobody.
type Resolver interface {
	Lookup(ctx context.Context, author, domain string) (*Contact, error)
}

// EmailValidator classifies a candidate email's plausibility.
type EmailValidator interface {
	Validate(ctx context.Context, email string) Verdict
}

// Discoverer expands a keyword into seed URLs.
type Discoverer interface {
	Discover(ctx context.Context, keyword string) ([]string, error)
}

// ResultStore accumulates Records for the current run.
type ResultStore interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}

// Publisher pushes run-completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
