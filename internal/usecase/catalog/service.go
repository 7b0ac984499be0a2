// Package catalog evaluates filter, sort and page queries over an in-memory
// collection.
package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/storefront/internal/domain/query/filter"
	"github.com/kailas-cloud/storefront/internal/domain/query/page"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
)

// Service runs queries against one source. The source is never mutated.
type Service[T any] struct {
	src Source[T]
}

// New creates a query service over src.
func New[T any](src Source[T]) *Service[T] {
	return &Service[T]{src: src}
}

// Name returns the source name.
func (s *Service[T]) Name() string { return s.src.Name() }

// Query filters, sorts and paginates the source.
func (s *Service[T]) Query(ctx context.Context, q *request.Query) (result.Page[T], error) {
	if err := ctx.Err(); err != nil {
		return result.Page[T]{}, fmt.Errorf("query %s: %w", s.src.Name(), err)
	}

	matched := s.match(q)

	window, meta := page.Slice(matched, q.PageSize(), q.Page())

	items := s.src.Items()
	out := make([]T, len(window))
	for i, idx := range window {
		out[i] = items[idx]
	}
	return result.NewPage(out, meta), nil
}

// Count returns how many records match q, ignoring pagination.
func (s *Service[T]) Count(q *request.Query) int {
	return len(s.match(q))
}

// match returns the indices of matching records in display order.
func (s *Service[T]) match(q *request.Query) []int {
	recs := s.src.Records()
	pred := filter.Build(q.Filters())

	matched := make([]int, 0, len(recs))
	for i := range recs {
		if pred(&recs[i]) {
			matched = append(matched, i)
		}
	}

	if cmp := q.Sort().Compare(); cmp != nil {
		slices.SortStableFunc(matched, func(a, b int) int {
			return cmp(&recs[a], &recs[b])
		})
	}
	return matched
}
