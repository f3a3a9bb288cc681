// Package http provides the status server used in watch mode.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/artpar/tiger/adapters/metrics"
	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
	"github.com/artpar/tiger/pkg/jsonapi"
	"github.com/artpar/tiger/ports"
)

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// Results exposes the most recent validation run.
type Results interface {
	// Latest returns the last finished run and its diagnostics. ok is
	// false until a run has finished.
	Latest() (r run.Run, diags []report.Diagnostic, ok bool)
}

// StatusHandler serves validation results.
type StatusHandler struct {
	results Results
	runs    ports.RunStore
	logger  zerolog.Logger
}

// NewStatusHandler creates a status handler. runs may be nil.
func NewStatusHandler(results Results, runs ports.RunStore, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		results: results,
		runs:    runs,
		logger:  logger,
	}
}

// Liveness returns a simple liveness check.
func (h *StatusHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readiness reports ready once the first validation run has finished.
func (h *StatusHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, _, ok := h.results.Latest(); !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "starting",
			"error":  "no validation run has finished yet",
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Diagnostics lists the diagnostics of the latest run.
//
// Query parameters: severity (minimum level), key, path (prefix), and the
// usual page[number]/page[size].
func (h *StatusHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	latest, diags, ok := h.results.Latest()
	if !ok {
		jsonapi.WriteError(w, jsonapi.ErrServiceUnavailable("no validation run has finished yet"))
		return
	}

	q := r.URL.Query()
	minLevel := report.Advice
	if v := q.Get("severity"); v != "" {
		sev, err := report.ParseSeverity(v)
		if err != nil {
			jsonapi.WriteError(w, jsonapi.ErrBadParameter("severity", err.Error()))
			return
		}
		minLevel = sev
	}
	key := report.Key(q.Get("key"))
	pathPrefix := q.Get("path")

	filtered := make([]report.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity < minLevel {
			continue
		}
		if key != "" && d.Key != key {
			continue
		}
		if pathPrefix != "" && !strings.HasPrefix(d.Loc.Path, pathPrefix) {
			continue
		}
		filtered = append(filtered, d)
	}

	page, perPage := jsonapi.ParsePaginationParams(q, 100)
	p := jsonapi.NewPagination(int64(len(filtered)), page, perPage, r.URL.String())
	start, end := p.Window(len(filtered))

	resources := make([]jsonapi.Resource, 0, end-start)
	for i, d := range filtered[start:end] {
		resources = append(resources, diagnosticResource(start+i, d))
	}
	jsonapi.WriteCollection(w, resources, p, jsonapi.Meta{"run": latest.ID})
}

// Runs lists recent runs, newest first.
func (h *StatusHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		jsonapi.WriteError(w, jsonapi.ErrNotFound("run history"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonapi.WriteError(w, jsonapi.ErrBadParameter("limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list runs")
		jsonapi.WriteError(w, jsonapi.ErrInternal(""))
		return
	}

	resources := make([]jsonapi.Resource, 0, len(runs))
	for _, rn := range runs {
		resources = append(resources, runResource(rn))
	}
	jsonapi.WriteCollection(w, resources, nil, nil)
}

func diagnosticResource(i int, d report.Diagnostic) jsonapi.Resource {
	return jsonapi.Resource{
		Type: "diagnostic",
		ID:   strconv.Itoa(i),
		Attributes: map[string]any{
			"severity": d.Severity.String(),
			"key":      string(d.Key),
			"message":  d.Message,
			"path":     d.Loc.Path,
			"line":     d.Loc.Line,
			"column":   d.Loc.Column,
			"origin":   d.Loc.Kind.String(),
		},
	}
}

func runResource(r run.Run) jsonapi.Resource {
	counts := make(map[string]int, len(r.Counts))
	for sev, n := range r.Counts {
		counts[sev.String()] = n
	}
	return jsonapi.Resource{
		Type: "run",
		ID:   r.ID,
		Attributes: map[string]any{
			"mod":         r.Mod,
			"started_at":  r.StartedAt.UTC().Format(time.RFC3339),
			"duration_ms": r.Duration.Milliseconds(),
			"files":       r.Files,
			"items":       r.Items,
			"counts":      counts,
		},
	}
}

//go:embed openapi.json
var openAPIDoc []byte

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	Version string
	Metrics *metrics.Collector

	// EnableOpenAPI serves the API description and a Swagger UI for it.
	EnableOpenAPI bool
}

// NewRouter creates the status router.
func NewRouter(h *StatusHandler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/health", h.Liveness)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(VersionResponse{Version: version, Service: "tiger"})
	})

	r.Get("/diagnostics", h.Diagnostics)
	r.Get("/runs", h.Runs)

	if cfg.EnableOpenAPI {
		r.Get("/.well-known/openapi.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Write(openAPIDoc)
		})
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/.well-known/openapi.json"),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonapi.WriteError(w, jsonapi.ErrNotFound("resource"))
	})

	return r
}

// Serve runs srv until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("status server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewMetricsMiddleware creates middleware that records request metrics.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.HTTPRequests.WithLabelValues(r.Method, route, statusLabel(ww.Status())).Inc()
		})
	}
}

// statusLabel returns a string label for the status code.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for health checks and metrics
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
