// Package api exposes the read-only JSON surface over the same listing
// datasets the dashboard serves, for programmatic consumers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"carscope/domain/listing"
	"carscope/internal"
	"carscope/internal/charts"
	"carscope/internal/dataset"
	apperrors "carscope/internal/errors"
)

// Default and maximum page sizes for /api/listings
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Server is the JSON API server
type Server struct {
	router *chi.Mux
	loader *dataset.Loader
	log    *internal.Logger
}

// NewServer creates the API server with routes and middleware configured
func NewServer(loader *dataset.Loader) *Server {
	s := &Server{
		router: chi.NewRouter(),
		loader: loader,
		log:    internal.DefaultLogger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/api/columns", s.handleColumns)
	s.router.Get("/api/bounds", s.handleBounds)
	s.router.Get("/api/summary", s.handleSummary)
	s.router.Get("/api/listings", s.handleListings)
	s.router.Get("/api/charts", s.handleChartBundle)
	s.router.Get("/api/charts/{name}", s.handleChart)
}

// Router exposes the chi mux, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	s.log.Info("Starting Carscope API on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// request plumbing

// filteredView loads the requested dataset and applies the query filter
func (s *Server) filteredView(r *http.Request) (*listing.Table, listing.Filter, listing.Bounds, error) {
	table, err := s.loader.Load(r.URL.Query().Get("dataset"))
	if err != nil {
		return nil, listing.Filter{}, listing.Bounds{}, err
	}
	bounds := listing.DeriveBounds(table)
	filter := listing.ParseQuery(r.URL.Query(), bounds)
	return table.Filter(filter), filter, bounds, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeFileNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFile:
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

// handlers

// Column describes one table column for API consumers
type Column struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "numeric" or "categorical"
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	table, err := s.loader.Load(r.URL.Query().Get("dataset"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	numeric := map[string]bool{
		listing.ColPrice:     true,
		listing.ColOdometer:  true,
		listing.ColModelYear: true,
	}
	columns := make([]Column, 0, len(table.Columns))
	for _, name := range table.Columns {
		kind := "categorical"
		if numeric[name] {
			kind = "numeric"
		}
		columns = append(columns, Column{Name: name, Kind: kind})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": columns,
		"rows":    len(table.Rows),
	})
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	table, err := s.loader.Load(r.URL.Query().Get("dataset"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listing.DeriveBounds(table))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, _, _, err := s.filteredView(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, listing.Summarize(view))
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	view, _, _, err := s.filteredView(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := queryIntDefault(r, "limit", DefaultPageSize)
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	offset := queryIntDefault(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	total := len(view.Rows)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"columns": view.Columns,
		"rows":    view.Rows[start:end],
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleChartBundle(w http.ResponseWriter, r *http.Request) {
	view, filter, _, err := s.filteredView(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	bundle, err := charts.BuildAll(r.Context(), view, filter.LogPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	view, filter, _, err := s.filteredView(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch chi.URLParam(r, "name") {
	case "scatter":
		s.writeJSON(w, http.StatusOK, charts.BuildScatter(view, filter.LogPrice))
	case "box":
		s.writeJSON(w, http.StatusOK, charts.BuildBox(view, filter.LogPrice))
	case "models":
		s.writeJSON(w, http.StatusOK, charts.BuildModels(view))
	default:
		s.writeError(w, apperrors.InvalidInput("unknown chart: "+chi.URLParam(r, "name")))
	}
}

func queryIntDefault(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
