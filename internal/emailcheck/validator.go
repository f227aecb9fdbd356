// Package emailcheck classifies candidate emails by syntactic and
// deliverability plausibility. Verdicts adjust confidence downstream; they
// never discard a resolver match.
package emailcheck

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/newsreach/newsreach/internal/scraper"
)

// MXLookupFunc resolves MX records for a domain. Injectable for tests.
type MXLookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// Validator implements scraper.EmailValidator with a syntax pass followed by
// an MX lookup. A missing MX record downgrades the verdict to implausible
// rather than invalid: mail for the domain may still route through an
// apex A record.
type Validator struct {
	lookupMX MXLookupFunc
	timeout  time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithMXLookup overrides the MX resolution function.
func WithMXLookup(fn MXLookupFunc) Option {
	return func(v *Validator) { v.lookupMX = fn }
}

// WithTimeout bounds each MX lookup.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) { v.timeout = d }
}

// New constructs a Validator using the system resolver by default.
func New(opts ...Option) *Validator {
	v := &Validator{
		lookupMX: func(ctx context.Context, domain string) ([]*net.MX, error) {
			return net.DefaultResolver.LookupMX(ctx, domain)
		},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns the verdict for one email address.
func (v *Validator) Validate(ctx context.Context, email string) scraper.Verdict {
	email = strings.ToLower(strings.TrimSpace(email))
	domain, ok := parseAddress(email)
	if !ok {
		return scraper.VerdictInvalid
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	mxs, err := v.lookupMX(lookupCtx, domain)
	if err != nil || len(mxs) == 0 {
		return scraper.VerdictImplausible
	}
	return scraper.VerdictValid
}

// parseAddress reports whether the email is a bare, syntactically valid
// address and returns its domain part.
func parseAddress(email string) (string, bool) {
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return "", false
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return "", false
	}
	return domain, true
}
