package request

import (
	"net/url"
	"testing"

	"github.com/kailas-cloud/storefront/internal/domain/query/filter"
	"github.com/kailas-cloud/storefront/internal/domain/query/sortkey"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

func emptyFilters() filter.Expression {
	e, _ := filter.NewExpression("")
	return e
}

func TestNew_Defaults(t *testing.T) {
	q := New(emptyFilters(), "", 0, 0)
	if q.Sort() != sortkey.Featured {
		t.Errorf("Sort() = %q, want featured (default)", q.Sort())
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if q.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", q.PageSize(), DefaultPageSize)
	}
	if q.Term() != "" {
		t.Errorf("Term() = %q", q.Term())
	}
}

func TestNew_ClampsPageSize(t *testing.T) {
	q := New(emptyFilters(), sortkey.Rating, 3, 5000)
	if q.PageSize() != MaxPageSize {
		t.Errorf("PageSize() = %d, want %d", q.PageSize(), MaxPageSize)
	}
	if q.Page() != 3 {
		t.Errorf("Page() = %d", q.Page())
	}
}

func TestWithPage(t *testing.T) {
	q := New(emptyFilters(), sortkey.Newest, 1, 10)
	next := q.WithPage(2)
	if next.Page() != 2 || next.Sort() != sortkey.Newest || next.PageSize() != 10 {
		t.Errorf("WithPage(2) = page %d sort %q size %d", next.Page(), next.Sort(), next.PageSize())
	}
	if q.Page() != 1 {
		t.Error("WithPage must not modify the original query")
	}
}

func TestFromValues_Full(t *testing.T) {
	v := url.Values{}
	v.Set("q", "linen")
	v.Set("category", "Shirts")
	v.Set("minPrice", "100")
	v.Set("maxPrice", "200")
	v.Set("brand", "Acme, Loom,,")
	v.Set("colors", "white")
	v.Set("sort", "price-high")
	v.Set("page", "2")

	q := FromValues(v, 9)

	if q.Term() != "linen" {
		t.Errorf("Term() = %q", q.Term())
	}
	if q.Sort() != sortkey.PriceHigh {
		t.Errorf("Sort() = %q", q.Sort())
	}
	if q.Page() != 2 {
		t.Errorf("Page() = %d", q.Page())
	}

	var sawCategory, sawRange, sawBrand, sawColors bool
	for _, c := range q.Filters().Conditions() {
		switch {
		case c.Key() == record.FieldCategory && c.Match() == "Shirts":
			sawCategory = true
		case c.IsRange():
			r := c.Range()
			sawRange = r.Min() != nil && *r.Min() == 100 && r.Max() != nil && *r.Max() == 200
		case c.Key() == record.FieldBrand:
			sawBrand = len(c.AnyOf()) == 2 && c.AnyOf()[0] == "Acme" && c.AnyOf()[1] == "Loom"
		case c.Key() == record.FieldColors:
			sawColors = len(c.AnyOf()) == 1
		}
	}
	if !sawCategory || !sawRange || !sawBrand || !sawColors {
		t.Errorf("conditions: category=%v range=%v brand=%v colors=%v",
			sawCategory, sawRange, sawBrand, sawColors)
	}
}

func TestFromValues_MalformedFallsBackToDefaults(t *testing.T) {
	v := url.Values{}
	v.Set("minPrice", "cheap")
	v.Set("maxPrice", "-5")
	v.Set("page", "two")
	v.Set("sort", "bogus")
	v.Set("category", "all")

	q := FromValues(v, 9)

	if !q.Filters().IsEmpty() {
		t.Error("malformed bounds and category=all should leave no active filter")
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if q.Sort() != sortkey.Featured {
		t.Errorf("Sort() = %q, want featured", q.Sort())
	}
}

func TestFromValues_OneSidedBound(t *testing.T) {
	v := url.Values{}
	v.Set("maxPrice", "150")
	q := FromValues(v, 9)

	conds := q.Filters().Conditions()
	if len(conds) != 1 || !conds[0].IsRange() {
		t.Fatalf("expected one range condition, got %d", len(conds))
	}
	if conds[0].Range().Min() != nil {
		t.Error("min should be unbounded")
	}
	if !conds[0].Range().Contains(0) || conds[0].Range().Contains(151) {
		t.Error("range should be [-inf, 150]")
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	raw := "brand=Acme%2CLoom&category=Shirts&maxPrice=200&minPrice=100&page=3&q=linen+shirt&sort=rating"
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	q := FromValues(v, 9)
	if got := q.Encode(); got != raw {
		t.Errorf("Encode() =\n  %q\nwant\n  %q", got, raw)
	}
}

func TestEncode_OmitsDefaults(t *testing.T) {
	v := url.Values{}
	v.Set("category", "ALL")
	v.Set("sort", "featured")
	v.Set("page", "1")
	q := FromValues(v, 9)
	if got := q.Encode(); got != "" {
		t.Errorf("Encode() = %q, want empty", got)
	}
}

func TestCacheKey_IncludesPageSize(t *testing.T) {
	a := New(emptyFilters(), sortkey.Featured, 1, 9)
	b := New(emptyFilters(), sortkey.Featured, 1, 10)
	if a.CacheKey() == b.CacheKey() {
		t.Errorf("cache keys collide: %q", a.CacheKey())
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a, ,b ,,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("SplitList = %q", got)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Errorf("SplitList(\"\") = %q", got)
	}
}
