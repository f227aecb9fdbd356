// Package api exposes the HTTP interface for the scraper service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsreach/newsreach/internal/export"
	"github.com/newsreach/newsreach/internal/metrics"
	"github.com/newsreach/newsreach/internal/scraper"
)

// JobRunner is the surface of the runner the API consumes.
type JobRunner interface {
	Trigger(ctx context.Context, input scraper.TriggerInput) error
	DeleteAll(ctx context.Context) error
	Status() scraper.RunStatus
	Logs() string
	Results(ctx context.Context) ([]scraper.Record, error)
}

// Server wires HTTP handlers to the runner.
type Server struct {
	router chi.Router
	runner JobRunner
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner JobRunner, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	s := &Server{
		runner: runner,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/run_scraper", s.runScraper)
	r.Get("/results", s.results)
	r.Get("/status", s.status)
	r.Get("/logs", s.logs)
	r.Get("/download/csv", s.downloadCSV)
	r.Get("/download/json", s.downloadJSON)
	r.Post("/delete_results", s.deleteResults)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) runScraper(w http.ResponseWriter, r *http.Request) {
	var input scraper.TriggerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(input.URLs) == 0 && input.Keyword == "" {
		writeError(w, http.StatusBadRequest, scraper.ErrNoURLs.Error())
		return
	}
	if err := s.runner.Trigger(r.Context(), input); err != nil {
		switch {
		case errors.Is(err, scraper.ErrAlreadyRunning):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, scraper.ErrNoURLs):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "scraping started",
		"status":  string(scraper.RunStateRunning),
	})
}

func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	records, err := s.runner.Results(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []scraper.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Status())
}

func (s *Server) logs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.runner.Logs())); err != nil {
		s.logger.Error("write logs response failed", zap.Error(err))
	}
}

func (s *Server) downloadCSV(w http.ResponseWriter, r *http.Request) {
	records, err := s.runner.Results(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="enriched_articles.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		s.logger.Error("write csv failed", zap.Error(err))
	}
}

func (s *Server) downloadJSON(w http.ResponseWriter, r *http.Request) {
	records, err := s.runner.Results(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="enriched_articles.json"`)
	if err := export.WriteJSON(w, records); err != nil {
		s.logger.Error("write json failed", zap.Error(err))
	}
}

func (s *Server) deleteResults(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.DeleteAll(r.Context()); err != nil {
		if errors.Is(err, scraper.ErrRunInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "results deleted"})
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
