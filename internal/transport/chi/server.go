// Package chi exposes the catalog query engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeNotFound         = "not_found"
	CodeUnknownTable     = "unknown_table"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

// ProductQuerier pages through the product catalog.
type ProductQuerier interface {
	Query(ctx context.Context, q *request.Query) (result.Page[catalog.Product], error)
}

// ProductReader loads a single product with its reviews.
type ProductReader interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
	Reviews(ctx context.Context, productID string) ([]catalog.Review, error)
}

// Searcher runs the dashboard global search.
type Searcher interface {
	Search(ctx context.Context, term string) []result.Hit
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the storefront catalog and the admin dashboard queries.
type Server struct {
	products      ProductQuerier
	productReader ProductReader
	tables        map[string]Table
	search        Searcher
	health        HealthChecker
	pageSize      int
	adminPageSize int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	products ProductQuerier,
	productReader ProductReader,
	search Searcher,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	return &Server{
		products:      products,
		productReader: productReader,
		tables:        make(map[string]Table),
		search:        search,
		health:        health,
		pageSize:      request.DefaultPageSize,
		adminPageSize: 10,
		logger:        logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
			sentinelHandler(domain.ErrUnknownTable, http.StatusNotFound, CodeUnknownTable),
		},
	}
}

// WithTable exposes an admin table under /api/v1/admin/{name}.
func (s *Server) WithTable(name string, t Table) *Server {
	s.tables[name] = t
	return s
}

// WithPageSizes overrides the catalog and admin table page sizes.
func (s *Server) WithPageSizes(catalogSize, adminSize int) *Server {
	if catalogSize > 0 {
		s.pageSize = catalogSize
	}
	if adminSize > 0 {
		s.adminPageSize = adminSize
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.ListProducts)
		r.Get("/products/{id}", s.GetProduct)
		r.Get("/admin/search", s.GlobalSearch)
		r.Get("/admin/{table}", s.ListTable)
	})
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := request.FromValues(r.URL.Query(), s.pageSize)

	p, err := s.products.Query(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(&p, &q))
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.productReader.Product(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	reviews, err := s.productReader.Reviews(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []catalog.Review{}
	}

	writeJSON(w, http.StatusOK, ProductDetailResponse{
		Product:       p,
		Reviews:       reviews,
		AverageRating: catalog.AverageRating(reviews),
	})
}

// ListTable handles GET /api/v1/admin/{table}.
func (s *Server) ListTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	t, ok := s.tables[name]
	if !ok {
		s.handleDomainError(w, fmt.Errorf("%w: %s", domain.ErrUnknownTable, name))
		return
	}

	ctx := logger.WithFields(r.Context(), zap.String("table", name))
	q := request.FromValues(r.URL.Query(), s.adminPageSize)
	resp, err := t.Query(ctx, &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GlobalSearch handles GET /api/v1/admin/search.
func (s *Server) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get(request.ParamTerm)
	hits := s.search.Search(r.Context(), term)

	items := make([]HitResponse, len(hits))
	for i := range hits {
		items[i] = hitToResponse(&hits[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{Query: term, Hits: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// TableNames returns the registered admin table names in sorted order.
func (s *Server) TableNames() []string {
	return slices.Sorted(maps.Keys(s.tables))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var nf *domain.RecordNotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	for _, s := range []error{domain.ErrNotFound, domain.ErrUnknownTable} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
