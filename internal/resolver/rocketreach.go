// Package resolver implements the RocketReach contact lookup client.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsreach/newsreach/internal/scraper"
)

const (
	defaultBaseURL = "https://api.rocketreach.co/api/v2"
	maxAttempts    = 3

	// Retry-After handling for 429 responses: waits above maxRetryAfter are
	// capped, waits above skipRetryAfter abandon the lookup entirely.
	maxRetryAfter  = 5 * time.Minute
	skipRetryAfter = time.Hour
)

// RocketReach calls the people-lookup endpoint to resolve an author at a
// source domain into a candidate contact.
type RocketReach struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a RocketReach client.
type Option func(*RocketReach)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(r *RocketReach) { r.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *RocketReach) { r.client = c }
}

// New constructs a RocketReach client. The API key is required; callers
// should skip constructing the resolver entirely when the key is absent so
// the pipeline degrades to extraction-only.
func New(apiKey string, logger *zap.Logger, opts ...Option) (*RocketReach, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("rocketreach api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &RocketReach{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type lookupResponse struct {
	Person *struct {
		Emails []struct {
			Email      string  `json:"email"`
			Confidence float64 `json:"confidence"`
		} `json:"emails"`
		CurrentTitle   string `json:"current_title"`
		CurrentCompany string `json:"current_company"`
	} `json:"person"`
}

// Lookup resolves a contact for the author at the given domain. A nil contact
// with a nil error means the lookup completed but found nobody.
func (r *RocketReach) Lookup(ctx context.Context, author, domain string) (*scraper.Contact, error) {
	if author == "" || domain == "" {
		return nil, nil
	}
	employer := cleanDomain(domain)

	params := url.Values{}
	params.Set("name", author)
	params.Set("current_employer", employer)
	endpoint := r.baseURL + "/profile-company/lookup?" + params.Encode()

	body, err := r.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if resp.Person == nil || len(resp.Person.Emails) == 0 {
		r.logger.Debug("no contact found",
			zap.String("author", author),
			zap.String("domain", employer),
		)
		return nil, nil
	}

	// The first email is the best match.
	best := resp.Person.Emails[0]
	if best.Email == "" {
		return nil, nil
	}
	return &scraper.Contact{
		FullName:   author,
		Email:      best.Email,
		Confidence: best.Confidence,
		// The lookup API exposes no separate verified-connection field; any
		// answered match counts as connected.
		Connected: true,
	}, nil
}

// get performs the request with retry and 429 handling. A nil body with a nil
// error means the API answered with a non-retryable failure status.
func (r *RocketReach) get(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build lookup request: %w", err)
		}
		req.Header.Set("Api-Key", r.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("lookup request: %w", err)
			if err := sleepCtx(ctx, backoff(attempt)); err != nil {
				return nil, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("read lookup response: %w", readErr)
			}
			if closeErr != nil {
				r.logger.Debug("close response body", zap.Error(closeErr))
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			wait, retryable := retryAfter(resp.Header)
			if !retryable {
				return nil, fmt.Errorf("rate limited with excessive retry-after")
			}
			r.logger.Warn("rate limited by rocketreach", zap.Duration("wait", wait))
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
			continue
		default:
			r.logger.Warn("lookup failed",
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", truncate(body, 256)),
			)
			return nil, nil
		}
	}
	return nil, lastErr
}

func retryAfter(h http.Header) (time.Duration, bool) {
	seconds, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return time.Minute, true
	}
	wait := time.Duration(seconds) * time.Second
	if wait > skipRetryAfter {
		return 0, false
	}
	if wait > maxRetryAfter {
		wait = maxRetryAfter
	}
	return wait, true
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cleanDomain strips scheme and www prefix, matching the lookup form the API
// expects for current_employer.
func cleanDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	return strings.TrimSuffix(domain, "/")
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
