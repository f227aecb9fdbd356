package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newsreach/newsreach/internal/metrics"
)

// RunnerConfig controls Runner behavior.
type RunnerConfig struct {
	// ExtractTimeout bounds each article extraction call.
	ExtractTimeout time.Duration
	// LookupTimeout bounds each contact resolver call.
	LookupTimeout time.Duration
	// CompletionTopic, when set, receives a run-completion event via the
	// Publisher after every run reaches a terminal state.
	CompletionTopic string
}

// Runner executes exactly one scrape-and-enrich run at a time, asynchronously
// with respect to the triggering request. Run state and the log buffer are
// each guarded by their own mutex; neither lock is held across an extractor or
// resolver call, so polling readers always see a prompt snapshot.
type Runner struct {
	extractor  Extractor
	resolver   Resolver // nil disables enrichment (extraction-only mode)
	validator  EmailValidator
	discoverer Discoverer
	store      ResultStore
	publisher  Publisher // nil disables completion events
	policy     ConfidencePolicy
	clock      Clock
	logger     *zap.Logger
	cfg        RunnerConfig

	mu       sync.Mutex
	state    RunState
	started  *time.Time
	finished *time.Time
	errMsg   string

	log logBuffer
}

// NewRunner constructs a Runner in the idle state.
func NewRunner(
	extractor Extractor,
	resolver Resolver,
	validator EmailValidator,
	discoverer Discoverer,
	store ResultStore,
	publisher Publisher,
	policy ConfidencePolicy,
	clock Clock,
	cfg RunnerConfig,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 30 * time.Second
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 30 * time.Second
	}
	return &Runner{
		extractor:  extractor,
		resolver:   resolver,
		validator:  validator,
		discoverer: discoverer,
		store:      store,
		publisher:  publisher,
		policy:     policy,
		clock:      clock,
		logger:     logger,
		cfg:        cfg,
		state:      RunStateIdle,
	}
}

// Trigger validates and normalizes the input, transitions the run to running,
// and starts the pipeline on a background goroutine. It returns immediately.
// A second trigger while running fails with ErrAlreadyRunning; it is never
// queued and does not disturb the in-flight run.
func (r *Runner) Trigger(ctx context.Context, input TriggerInput) error {
	urls, err := r.resolveInput(ctx, input)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	r.mu.Lock()
	if r.state == RunStateRunning {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.state = RunStateRunning
	r.started = &now
	r.finished = nil
	r.errMsg = ""
	r.mu.Unlock()

	r.log.reset()
	r.appendLog(fmt.Sprintf("starting run with %d url(s)", len(urls)))

	go r.run(context.Background(), urls)
	return nil
}

// resolveInput expands a keyword through the discoverer, normalizes explicit
// URLs, and dedupes by exact string match preserving first-occurrence order.
func (r *Runner) resolveInput(ctx context.Context, input TriggerInput) ([]string, error) {
	raw := input.URLs
	if len(raw) == 0 && input.Keyword != "" {
		if r.discoverer == nil {
			return nil, ErrNoURLs
		}
		discovered, err := r.discoverer.Discover(ctx, input.Keyword)
		if err != nil {
			return nil, fmt.Errorf("discover urls for keyword: %w", err)
		}
		raw = discovered
	}

	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		normalized, err := NormalizeURL(u)
		if err != nil {
			r.logger.Warn("skipping invalid url", zap.String("url", u), zap.Error(err))
			continue
		}
		urls = append(urls, normalized)
	}
	urls = DedupeURLs(urls)
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	return urls, nil
}

func (r *Runner) run(ctx context.Context, urls []string) {
	if err := r.store.Clear(ctx); err != nil {
		r.fail(fmt.Errorf("clear result store: %w", err))
		return
	}

	for _, u := range urls {
		if err := r.processURL(ctx, u); err != nil {
			r.fail(err)
			return
		}
	}

	now := r.clock.Now()
	r.mu.Lock()
	r.state = RunStateDone
	r.finished = &now
	r.mu.Unlock()

	r.appendLog(fmt.Sprintf("run completed: %d url(s) processed", len(urls)))
	metrics.RecordRun(string(RunStateDone))
	r.publishCompletion(ctx, RunStateDone, "", len(urls))
}

// fail transitions the run to the error state. Per-URL failures never reach
// here; only faults outside the per-URL boundary (store unavailable) do.
func (r *Runner) fail(err error) {
	now := r.clock.Now()
	r.mu.Lock()
	r.state = RunStateError
	r.finished = &now
	r.errMsg = err.Error()
	r.mu.Unlock()

	r.appendLog("run failed: " + err.Error())
	r.logger.Error("run failed", zap.Error(err))
	metrics.RecordRun(string(RunStateError))
	r.publishCompletion(context.Background(), RunStateError, err.Error(), 0)
}

// processURL executes the per-URL pipeline. Extraction and resolution failures
// are swallowed here and converted to log lines plus degraded Records; only a
// store append failure propagates, which is fatal to the run.
func (r *Runner) processURL(ctx context.Context, u string) error {
	r.appendLog("processing " + u)
	start := r.clock.Now()

	extractCtx, cancel := context.WithTimeout(ctx, r.cfg.ExtractTimeout)
	article, err := r.extractor.Extract(extractCtx, u)
	cancel()
	metrics.ObserveExtraction(r.clock.Now().Sub(start))
	if err != nil {
		r.appendLog(fmt.Sprintf("extraction failed for %s: %v", u, err))
		r.logger.Warn("extraction failed", zap.String("url", u), zap.Error(err))
		metrics.RecordURL("extract_failed")
		return r.append(ctx, Record{URL: u})
	}

	rec := Record{
		URL:          u,
		Title:        article.Title,
		Author:       article.Author,
		SourceDomain: article.SourceDomain,
	}
	if article.DatePublish != "" {
		rec.DatePublish = ptr(article.DatePublish)
	}

	if article.Author == "" {
		r.appendLog("no author found for " + u + ", skipping contact lookup")
		metrics.RecordURL("no_author")
		return r.append(ctx, rec)
	}
	if r.resolver == nil {
		r.appendLog("contact enrichment disabled, recording extraction only for " + u)
		metrics.RecordURL("enrichment_disabled")
		return r.append(ctx, rec)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	contact, err := r.resolver.Lookup(lookupCtx, article.Author, article.SourceDomain)
	cancel()
	if err != nil {
		r.appendLog(fmt.Sprintf("contact lookup failed for %s: %v", article.Author, err))
		r.logger.Warn("contact lookup failed",
			zap.String("author", article.Author),
			zap.String("domain", article.SourceDomain),
			zap.Error(err),
		)
		metrics.RecordLookup("failed")
		return r.append(ctx, rec)
	}
	if contact == nil {
		r.appendLog(fmt.Sprintf("no contact found for %s at %s", article.Author, article.SourceDomain))
		metrics.RecordLookup("not_found")
		return r.append(ctx, rec)
	}

	verdict := r.validator.Validate(ctx, contact.Email)
	confidence := r.policy.Score(contact.Confidence, verdict)
	rec.FullName = ptr(contact.FullName)
	rec.Email = ptr(contact.Email)
	rec.Confidence = &confidence
	rec.RocketReachConnected = contact.Connected

	metrics.RecordLookup("found")
	metrics.RecordURL("enriched")
	if err := r.append(ctx, rec); err != nil {
		return err
	}
	r.appendLog(fmt.Sprintf("contact found for %s: %s (confidence %.2f, email %s)",
		article.Author, contact.Email, confidence, string(verdict)))
	return nil
}

func (r *Runner) append(ctx context.Context, rec Record) error {
	if err := r.store.Append(ctx, rec); err != nil {
		return fmt.Errorf("append record for %s: %w", rec.URL, err)
	}
	return nil
}

func (r *Runner) publishCompletion(ctx context.Context, state RunState, errMsg string, urls int) {
	if r.publisher == nil || r.cfg.CompletionTopic == "" {
		return
	}
	payload := map[string]any{
		"state":     string(state),
		"urls":      urls,
		"timestamp": r.clock.Now().Format(time.RFC3339),
	}
	if errMsg != "" {
		payload["error_message"] = errMsg
	}
	if _, err := r.publisher.Publish(ctx, r.cfg.CompletionTopic, payload); err != nil {
		r.logger.Warn("publish run completion failed", zap.Error(err))
	}
}

// DeleteAll clears the result store and resets the run to idle with an empty
// log. It fails with ErrRunInProgress while a run is writing.
func (r *Runner) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RunStateRunning {
		return ErrRunInProgress
	}
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear result store: %w", err)
	}
	r.state = RunStateIdle
	r.started = nil
	r.finished = nil
	r.errMsg = ""
	r.log.reset()
	return nil
}

// Status returns a snapshot of the run state. It never blocks on pipeline work.
func (r *Runner) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RunStatus{
		State:        r.state,
		StartedAt:    r.started,
		FinishedAt:   r.finished,
		ErrorMessage: r.errMsg,
	}
}

// Logs returns the full accumulated log text for the current run.
func (r *Runner) Logs() string {
	return r.log.text()
}

// Results returns the current record set in insertion order. Safe to call
// mid-run to observe partial results.
func (r *Runner) Results(ctx context.Context) ([]Record, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (r *Runner) appendLog(line string) {
	r.log.append(r.clock.Now(), line)
}

func ptr[T any](v T) *T {
	return &v
}
