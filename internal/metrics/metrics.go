// Package metrics exposes Prometheus collectors for the scraper service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	runsTotal                 *prometheus.CounterVec
	urlsProcessedTotal        *prometheus.CounterVec
	contactLookupsTotal       *prometheus.CounterVec
	extractionDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsreach_runs_total",
				Help: "Total number of scrape runs, labeled by terminal state.",
			},
			[]string{"state"},
		)

		urlsProcessedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsreach_urls_processed_total",
				Help: "Total number of URLs processed, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		contactLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsreach_contact_lookups_total",
				Help: "Total number of contact resolver lookups, labeled by result.",
			},
			[]string{"result"},
		)

		extractionDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "newsreach_extraction_duration_seconds",
				Help:    "Histogram of article extraction latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		)
	})
}

// RecordRun increments the run counter for a terminal state.
func RecordRun(state string) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(state).Inc()
}

// RecordURL increments the per-URL outcome counter.
func RecordURL(outcome string) {
	if urlsProcessedTotal == nil {
		return
	}
	urlsProcessedTotal.WithLabelValues(outcome).Inc()
}

// RecordLookup increments the contact lookup counter.
func RecordLookup(result string) {
	if contactLookupsTotal == nil {
		return
	}
	contactLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveExtraction records one extraction latency sample.
func ObserveExtraction(d time.Duration) {
	if extractionDurationSeconds == nil {
		return
	}
	extractionDurationSeconds.Observe(d.Seconds())
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
