// Package api exposes the filter engine, statistics aggregator and coverage
// sampler over HTTP for the map frontend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openurban/facility-map/internal/coverage"
	"github.com/openurban/facility-map/internal/facility"
)

// Handler serves the facility map API.
type Handler struct {
	store   *facility.Store
	sampler *coverage.Sampler
	limiter *rate.Limiter
}

// New builds a handler. coveragePerMinute bounds requests to the expensive
// coverage endpoint; zero or negative disables the limit.
func New(store *facility.Store, sampler *coverage.Sampler, coveragePerMinute int) *Handler {
	h := &Handler{store: store, sampler: sampler}
	if coveragePerMinute > 0 {
		h.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(coveragePerMinute)), coveragePerMinute)
	}
	return h
}

// Routes assembles the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/facilities", h.facilities)
		r.Get("/stats", h.stats)
		r.Get("/coverage", h.coverage)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"facilities": h.store.Len(),
	})
}

// facilities applies the query facets and returns the matching subset as a
// GeoJSON feature collection.
func (h *Handler) facilities(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	writeJSON(w, http.StatusOK, facility.FeatureCollection(h.store.Filter(q)))
}

// stats summarizes the subset matching the same query facets.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	writeJSON(w, http.StatusOK, facility.Summarize(h.store.Filter(q)))
}

// coverage returns the cached coverage grid, computing it on first request.
// Coverage always runs against the full store, not the filtered subset.
func (h *Handler) coverage(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.sampler.Cached() && !h.limiter.Allow() {
		http.Error(w, `{"error":"coverage computation rate limited"}`, http.StatusTooManyRequests)
		return
	}

	grid, err := h.sampler.Grid(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away mid-computation; nothing to deliver.
			return
		}
		zap.L().Error("api: coverage computation failed", zap.Error(err))
		http.Error(w, `{"error":"coverage computation failed"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, grid.FeatureCollection())
}

// parseQuery maps query parameters onto filter facets; absent facets stay at
// the "all" sentinel.
func parseQuery(r *http.Request) facility.Query {
	q := facility.NewQuery()
	params := r.URL.Query()
	q.Search = params.Get("search")
	if v := params.Get("status"); v != "" {
		q.Status = v
	}
	if v := params.Get("accessibility"); v != "" {
		q.Accessibility = v
	}
	if v := params.Get("location_type"); v != "" {
		q.LocationType = v
	}
	return q
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: write response", zap.Error(err))
	}
}

// requestLogger logs each request with latency at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
