package catalog

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Source is a read-only collection whose items and record projections share
// the same order.
type Source[T any] interface {
	Name() string
	Items() []T
	Records() []record.Record
}

// Querier answers a query with one page of items.
type Querier[T any] interface {
	Query(ctx context.Context, q *request.Query) (result.Page[T], error)
}
