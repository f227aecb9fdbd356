// Package scraper defines core types shared across subsystems.
package scraper

import (
	"errors"
	"time"
)

// RunState represents the lifecycle state of the scrape-and-enrich run.
type RunState string

// Run state values reported by the status endpoint.
const (
	RunStateIdle    RunState = "idle"
	RunStateRunning RunState = "running"
	RunStateDone    RunState = "done"
	RunStateError   RunState = "error"
)

// Sentinel errors returned synchronously to callers. They never mutate run state.
var (
	// ErrAlreadyRunning is returned when a trigger arrives while a run is in flight.
	ErrAlreadyRunning = errors.New("a run is already in progress")
	// ErrRunInProgress is returned when a delete arrives while a run is in flight.
	ErrRunInProgress = errors.New("cannot delete results while a run is in progress")
	// ErrNoURLs is returned when the trigger input resolves to zero URLs.
	ErrNoURLs = errors.New("no URLs provided")
)

// RunStatus is the O(1) snapshot served to polling clients.
type RunStatus struct {
	State        RunState   `json:"state"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// TriggerInput carries the body of a trigger request. Exactly one of URLs or
// Keyword must be populated; Keyword is expanded through the Discoverer.
type TriggerInput struct {
	URLs    []string `json:"urls,omitempty"`
	Keyword string   `json:"keyword,omitempty"`
}

// Article holds the fields returned by the article extractor for one URL.
type Article struct {
	URL          string
	Title        string
	Author       string
	SourceDomain string
	DatePublish  string
}

// Contact is a single resolver candidate for an author/domain pair.
type Contact struct {
	FullName   string
	Email      string
	Confidence float64
	Connected  bool
}

// Record is the reconciled result for a single article URL. Nullable fields
// use pointers so exports and the results endpoint distinguish "absent" from
// empty values. Records are immutable once appended to the store.
type Record struct {
	URL                  string   `json:"url"`
	Title                string   `json:"title"`
	Author               string   `json:"author"`
	SourceDomain         string   `json:"source_domain"`
	DatePublish          *string  `json:"date_publish"`
	FullName             *string  `json:"full_name"`
	Email                *string  `json:"email"`
	Confidence           *float64 `json:"confidence"`
	RocketReachConnected bool     `json:"rocketreach_connected"`
}

// Verdict classifies a candidate email's plausibility. It adjusts confidence
// but never discards a resolver match.
type Verdict string

// Email validator verdicts.
const (
	VerdictValid       Verdict = "valid"
	VerdictImplausible Verdict = "implausible"
	VerdictInvalid     Verdict = "invalid"
)
