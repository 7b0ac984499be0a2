package storefront

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/domain/query/sortkey"
)

// Entities returned by the client.
type (
	Product  = catalog.Product
	Order    = catalog.Order
	Customer = catalog.Customer
	User     = catalog.User
	Review   = catalog.Review
)

// Sort selects the result ordering.
type Sort string

// Supported orderings. An empty Sort keeps the natural order.
const (
	SortFeatured  Sort = Sort(sortkey.Featured)
	SortNewest    Sort = Sort(sortkey.Newest)
	SortPriceLow  Sort = Sort(sortkey.PriceLow)
	SortPriceHigh Sort = Sort(sortkey.PriceHigh)
	SortRating    Sort = Sort(sortkey.Rating)
)

// Table names accepted by Client.Table.
const (
	TableOrders    = "orders"
	TableCustomers = "customers"
	TableUsers     = "users"
	TableProducts  = "products"
)

// Params selects one page of a collection. Zero values mean "no filter".
type Params struct {
	Query    string
	Category string
	Style    string
	Status   string
	Role     string
	Brands   []string
	Colors   []string
	MinPrice *float64
	MaxPrice *float64
	Sort     Sort
	Page     int
}

// Float returns a pointer to f, for Params.MinPrice and Params.MaxPrice.
func Float(f float64) *float64 { return &f }

// Values encodes the params as HTTP query parameters.
func (p Params) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set(request.ParamTerm, p.Query)
	set(request.ParamCategory, p.Category)
	set(request.ParamStyle, p.Style)
	set(request.ParamStatus, p.Status)
	set(request.ParamRole, p.Role)
	set(request.ParamBrand, strings.Join(p.Brands, ","))
	set(request.ParamColors, strings.Join(p.Colors, ","))
	if p.MinPrice != nil {
		set(request.ParamMinPrice, strconv.FormatFloat(*p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice != nil {
		set(request.ParamMaxPrice, strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	set(request.ParamSort, string(p.Sort))
	if p.Page > 0 {
		set(request.ParamPage, strconv.Itoa(p.Page))
	}
	return v
}

func (p Params) query(pageSize int) request.Query {
	return request.FromValues(p.Values(), pageSize)
}

// Page is one page of a filtered, sorted collection.
type Page[T any] struct {
	Items     []T
	Total     int   // matches across all pages
	Page      int   // effective 1-based page after clamping
	PageCount int   // at least 1
	PageSize  int
	Pages     []int // navigable page numbers around Page
	Query     string
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.PageCount }

func pageFromResult[T any](r result.Page[T], q *request.Query) Page[T] {
	meta := r.Meta()
	canonical := q.WithPage(meta.Number())
	items := r.Items()
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:     items,
		Total:     r.TotalMatched(),
		Page:      meta.Number(),
		PageCount: r.PageCount(),
		PageSize:  r.PageSize(),
		Pages:     r.Window(),
		Query:     canonical.Encode(),
	}
}

// ProductDetail is a product with its reviews.
type ProductDetail struct {
	Product       Product
	Reviews       []Review
	AverageRating float64
}

// Hit is one global search result.
type Hit struct {
	Kind     string
	ID       string
	Title    string
	Subtitle string
	Href     string
}

func hitsFromResult(in []result.Hit) []Hit {
	out := make([]Hit, len(in))
	for i := range in {
		h := &in[i]
		out[i] = Hit{
			Kind:     string(h.Kind()),
			ID:       h.ID(),
			Title:    h.Title(),
			Subtitle: h.Subtitle(),
			Href:     h.Href(),
		}
	}
	return out
}
