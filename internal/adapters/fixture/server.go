// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package fixture serves an embedded catalog over the same HTTP interface as
// the public catalog API. It backs `dex serve-fixture` and the HTTP tests.
package fixture

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/janderssonse/dex/internal/domain"
	"github.com/janderssonse/dex/internal/stringutil"
	"go.uber.org/zap"
)

// Query defaults used when a list request omits them.
const (
	DefaultPage    = 1
	DefaultPerPage = 50
	MaxPerPage     = 100
)

//go:embed testdata/catalog.json
var catalogJSON []byte

// Data is the content served by the fixture.
type Data struct {
	Categories []domain.Category `json:"types"`
	Items      []domain.Item     `json:"pokemons"`
}

// LoadData decodes the embedded catalog.
func LoadData() (*Data, error) {
	var data Data
	if err := json.Unmarshal(catalogJSON, &data); err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}

	return &data, nil
}

// Options tune the fixture's behaviour.
type Options struct {
	// Latency is added before every response.
	Latency time.Duration
	// FailListPages makes list requests for these page numbers answer 500.
	FailListPages []int
	// FailCategories makes the category endpoint answer 500.
	FailCategories bool
	// Logger receives one line per request. Nil disables request logging.
	Logger *zap.Logger
}

// Server holds the HTTP server dependencies.
type Server struct {
	data     *Data
	opts     Options
	router   chi.Router
	requests atomic.Int64
}

// New creates a fixture server over data.
func New(data *Data, opts Options) *Server {
	s := &Server{
		data:   data,
		opts:   opts,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// NewDefault creates a fixture server over the embedded catalog.
func NewDefault(opts Options) (*Server, error) {
	data, err := LoadData()
	if err != nil {
		return nil, err
	}

	return New(data, opts), nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns the number of API requests served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(s.logRequests)
	s.router.Use(s.countAndDelay)
}

func (s *Server) setupRoutes() {
	s.router.Get("/pokemons", s.handleListItems)
	s.router.Get("/pokemons/{id}", s.handleGetItem)
	s.router.Get("/types", s.handleListCategories)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Logger == nil {
			next.ServeHTTP(w, r)

			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.opts.Logger.Info("fixture request",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) countAndDelay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		if s.opts.Latency > 0 {
			select {
			case <-time.After(s.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := positiveParam(query.Get("page"), DefaultPage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "page must be a positive integer")

		return
	}

	perPage, err := positiveParam(query.Get("perPage"), DefaultPerPage)
	if err != nil || perPage > MaxPerPage {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("perPage must be between 1 and %d", MaxPerPage))

		return
	}

	if slices.Contains(s.opts.FailListPages, page) {
		respondError(w, http.StatusInternalServerError, "injected failure")

		return
	}

	matches := s.filterItems(query.Get("name"), splitTypes(query.Get("types")))

	// Pages past the end are empty; comparing before multiplying keeps huge page numbers from overflowing.
	start := len(matches)
	if page-1 <= len(matches)/perPage {
		start = min((page-1)*perPage, len(matches))
	}

	end := min(start+perPage, len(matches))

	respondJSON(w, http.StatusOK, summaries(matches[start:end]))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")

		return
	}

	for _, item := range s.data.Items {
		if item.ID == id {
			respondJSON(w, http.StatusOK, item)

			return
		}
	}

	respondError(w, http.StatusNotFound, fmt.Sprintf("item %d not found", id))
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	if s.opts.FailCategories {
		respondError(w, http.StatusInternalServerError, "injected failure")

		return
	}

	respondJSON(w, http.StatusOK, s.data.Categories)
}

// filterItems keeps items whose name contains term (case-insensitive) and
// that carry every requested category.
func (s *Server) filterItems(term string, types []domain.CategoryID) []domain.Item {
	term = strings.TrimSpace(term)

	var matches []domain.Item

	for _, item := range s.data.Items {
		if term != "" && !stringutil.ContainsIgnoreCase(item.Name, term) {
			continue
		}

		if !hasAllCategories(item, types) {
			continue
		}

		matches = append(matches, item)
	}

	return matches
}

func hasAllCategories(item domain.Item, types []domain.CategoryID) bool {
	for _, id := range types {
		if !item.HasCategory(id) {
			return false
		}
	}

	return true
}

// summaries strips detail-only fields, as the list endpoint does.
func summaries(items []domain.Item) []domain.Item {
	result := make([]domain.Item, 0, len(items))
	for _, item := range items {
		item.Stats = nil
		item.Evolutions = nil
		result = append(result, item)
	}

	return result
}

func splitTypes(raw string) []domain.CategoryID {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]domain.CategoryID, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, domain.CategoryID(part))
		}
	}

	return ids
}

func positiveParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}

	if value < 1 {
		return 0, fmt.Errorf("parse %q: must be positive", raw) //nolint:err113
	}

	return value, nil
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"statusCode": status,
		"message":    message,
	})
}
