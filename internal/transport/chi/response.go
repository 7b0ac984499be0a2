package chi

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// PageResponse is the JSON form of one page of query results.
type PageResponse[T any] struct {
	Items     []T    `json:"items"`
	Total     int    `json:"total"`
	Page      int    `json:"page"`
	PageCount int    `json:"page_count"`
	PageSize  int    `json:"page_size"`
	Pages     []int  `json:"pages"`
	HasPrev   bool   `json:"has_prev"`
	HasNext   bool   `json:"has_next"`
	Query     string `json:"query"`
}

// ProductDetailResponse is the product page payload.
type ProductDetailResponse struct {
	Product       catalog.Product  `json:"product"`
	Reviews       []catalog.Review `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}

// HitResponse is one global search hit.
type HitResponse struct {
	Kind     record.Kind `json:"kind"`
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Href     string      `json:"href"`
}

// SearchResponse is the global search payload.
type SearchResponse struct {
	Query string        `json:"query"`
	Hits  []HitResponse `json:"hits"`
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Table answers admin table queries with a ready-to-encode page.
type Table interface {
	Query(ctx context.Context, q *request.Query) (any, error)
}

type querier[T any] interface {
	Query(ctx context.Context, q *request.Query) (result.Page[T], error)
}

type table[T any] struct {
	inner querier[T]
}

// NewTable adapts a typed querier to Table.
func NewTable[T any](q querier[T]) Table {
	return table[T]{inner: q}
}

func (t table[T]) Query(ctx context.Context, q *request.Query) (any, error) {
	p, err := t.inner.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return pageToResponse(&p, q), nil
}

func pageToResponse[T any](p *result.Page[T], q *request.Query) PageResponse[T] {
	items := p.Items()
	if items == nil {
		items = []T{}
	}
	meta := p.Meta()
	canonical := q.WithPage(meta.Number())
	return PageResponse[T]{
		Items:     items,
		Total:     p.TotalMatched(),
		Page:      meta.Number(),
		PageCount: p.PageCount(),
		PageSize:  p.PageSize(),
		Pages:     p.Window(),
		HasPrev:   meta.HasPrev(),
		HasNext:   meta.HasNext(),
		Query:     canonical.Encode(),
	}
}

func hitToResponse(h *result.Hit) HitResponse {
	return HitResponse{
		Kind:     h.Kind(),
		ID:       h.ID(),
		Title:    h.Title(),
		Subtitle: h.Subtitle(),
		Href:     h.Href(),
	}
}
