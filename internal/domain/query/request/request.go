package request

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/query/filter"
	"github.com/kailas-cloud/storefront/internal/domain/query/sortkey"
)

// Page size limits.
const (
	// DefaultPageSize is the storefront grid size.
	DefaultPageSize = 9
	MaxPageSize     = 100
)

// Query is an immutable snapshot of filter, sort and page state for one evaluation.
type Query struct {
	filters  filter.Expression
	sortKey  sortkey.Key
	page     int
	pageSize int
}

// New normalizes query parameters.
// Defaults: sort=featured, page=1, pageSize=DefaultPageSize. pageSize is clamped to MaxPageSize.
func New(filters filter.Expression, key sortkey.Key, page, pageSize int) Query {
	if !key.IsValid() {
		key = sortkey.Featured
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Query{filters: filters, sortKey: key, page: page, pageSize: pageSize}
}

// Term returns the free-text search term.
func (q *Query) Term() string { return q.filters.Term() }

// Filters returns the filter expression.
func (q *Query) Filters() filter.Expression { return q.filters }

// Sort returns the sort key.
func (q *Query) Sort() sortkey.Key { return q.sortKey }

// Page returns the requested 1-based page number (not yet clamped to the page count).
func (q *Query) Page() int { return q.page }

// PageSize returns the number of items per page.
func (q *Query) PageSize() int { return q.pageSize }

// WithPage returns a copy of the query targeting another page.
func (q *Query) WithPage(page int) Query {
	return New(q.filters, q.sortKey, page, q.pageSize)
}

// Values returns the URL query parameters describing the query. Inactive
// filters and default sort/page are omitted.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if t := q.filters.Term(); t != "" {
		v.Set(ParamTerm, t)
	}
	for _, c := range q.filters.Conditions() {
		if !c.IsActive() {
			continue
		}
		switch {
		case c.IsRange():
			r := c.Range()
			if r.Min() != nil {
				v.Set(boundParam("min", c.Key()), formatFloat(*r.Min()))
			}
			if r.Max() != nil {
				v.Set(boundParam("max", c.Key()), formatFloat(*r.Max()))
			}
		case c.IsAnyOf():
			v.Set(c.Key(), strings.Join(c.AnyOf(), ","))
		default:
			v.Set(c.Key(), c.Match())
		}
	}
	if q.sortKey != sortkey.Featured {
		v.Set(ParamSort, string(q.sortKey))
	}
	if q.page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.page))
	}
	return v
}

// Encode returns the canonical URL-encoded form (keys sorted).
func (q *Query) Encode() string { return q.Values().Encode() }

// CacheKey identifies the evaluation result of the query, including page size.
func (q *Query) CacheKey() string {
	return strconv.Itoa(q.pageSize) + "?" + q.Encode()
}

// boundParam builds minPrice / maxPrice style parameter names.
func boundParam(prefix, key string) string {
	if key == "" {
		return prefix
	}
	return prefix + strings.ToUpper(key[:1]) + key[1:]
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
