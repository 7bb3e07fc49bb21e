// Package server exposes the SQLite catalog over the paged list HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
	"github.com/five82/lister/internal/source"
)

// Catalog is the data the server pages through. *source.SQLite implements it.
type Catalog interface {
	ProductsPage(ctx context.Context, page, limit int) (pager.Page[catalog.Product], error)
	ContactsPage(ctx context.Context, page, limit int) (pager.Page[catalog.Contact], error)
}

var _ Catalog = (*source.SQLite)(nil)

// Server serves paged lists over HTTP.
type Server struct {
	httpServer   *http.Server
	catalog      Catalog
	defaultLimit int
	logger       *zap.Logger
	mux          *http.ServeMux
}

// New creates a Server listening on addr. defaultLimit applies when a request
// omits limit.
func New(addr string, cat Catalog, defaultLimit int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		catalog:      cat,
		defaultLimit: source.ClampLimit(defaultLimit),
		logger:       logger,
		mux:          mux,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/products", s.handleProducts)
	s.mux.HandleFunc("GET /api/contacts", s.handleContacts)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, source.HealthResponse{Status: "ok"})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.pageParams(w, r)
	if !ok {
		return
	}
	p, err := s.catalog.ProductsPage(r.Context(), page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logPage(r, page, len(p.Items), p.HasMore)
	writeJSON(w, http.StatusOK, source.PageResponse[catalog.Product]{Items: nonNil(p.Items), HasMore: p.HasMore, Page: page})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := s.pageParams(w, r)
	if !ok {
		return
	}
	p, err := s.catalog.ContactsPage(r.Context(), page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logPage(r, page, len(p.Items), p.HasMore)
	writeJSON(w, http.StatusOK, source.PageResponse[catalog.Contact]{Items: nonNil(p.Items), HasMore: p.HasMore, Page: page})
}

// pageParams parses page (default 1) and limit (default s.defaultLimit,
// clamped). It writes a 400 and returns false on bad input.
func (s *Server) pageParams(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	q := r.URL.Query()
	page, limit = 1, s.defaultLimit
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, source.ErrorResponse{Error: fmt.Sprintf("invalid page %q", raw)})
			return 0, 0, false
		}
		page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, source.ErrorResponse{Error: fmt.Sprintf("invalid limit %q", raw)})
			return 0, 0, false
		}
		limit = source.ClampLimit(n)
	}
	if _, err := source.PageOffset(page, limit); err != nil {
		writeJSON(w, http.StatusBadRequest, source.ErrorResponse{Error: err.Error()})
		return 0, 0, false
	}
	return page, limit, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("page query failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, source.ErrorResponse{Error: "internal error"})
}

func (s *Server) logPage(r *http.Request, page, n int, hasMore bool) {
	s.logger.Debug("served page",
		zap.String("path", r.URL.Path),
		zap.Int("page", page),
		zap.Int("items", n),
		zap.Bool("has_more", hasMore),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// nonNil keeps empty pages encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
