package catalog

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/storefront/internal/domain/catalog"
	"github.com/kailas-cloud/storefront/internal/domain/query/request"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
)

func newProductService(t *testing.T) (*Service[catalog.Product], *memstore.Store) {
	t.Helper()
	st, err := memstore.Default()
	if err != nil {
		t.Fatalf("memstore.Default: %v", err)
	}
	return New[catalog.Product](st.Products()), st
}

func query(raw string) *request.Query {
	v, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	q := request.FromValues(v, request.DefaultPageSize)
	return &q
}

func productIDs(items []catalog.Product) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func TestQuery_DefaultFirstPage(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Query(context.Background(), query(""))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	if diff := cmp.Diff(want, productIDs(p.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if p.TotalMatched() != 10 || p.PageCount() != 2 || p.PageIndex() != 0 {
		t.Errorf("meta = total %d count %d index %d", p.TotalMatched(), p.PageCount(), p.PageIndex())
	}
}

func TestQuery_PriceRangeSortedLowToHigh(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Query(context.Background(), query("minPrice=100&maxPrice=200&sort=price-low"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	// Equal prices keep natural order: 1 before 8, 2 before 5.
	want := []string{"3", "6", "1", "8", "2", "5"}
	if diff := cmp.Diff(want, productIDs(p.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_NewestIsLexicographic(t *testing.T) {
	svc, _ := newProductService(t)

	first, err := svc.Query(context.Background(), query("sort=newest"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := []string{"9", "8", "7", "6", "5", "4", "3", "2", "10"}
	if diff := cmp.Diff(want, productIDs(first.Items())); diff != "" {
		t.Errorf("page 1 mismatch (-want +got):\n%s", diff)
	}

	second, err := svc.Query(context.Background(), query("sort=newest&page=2"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if diff := cmp.Diff([]string{"1"}, productIDs(second.Items())); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_PageIsClamped(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Query(context.Background(), query("page=7"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if p.PageIndex() != 1 {
		t.Errorf("PageIndex() = %d, want 1", p.PageIndex())
	}
	if diff := cmp.Diff([]string{"10"}, productIDs(p.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_NoMatchesIsPageOneOfOne(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Query(context.Background(), query("q=zzz&page=3"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !p.IsEmpty() || len(p.Items()) != 0 {
		t.Errorf("expected empty page, got %v", productIDs(p.Items()))
	}
	if p.PageIndex() != 0 || p.PageCount() != 1 {
		t.Errorf("index %d count %d, want 0 and 1", p.PageIndex(), p.PageCount())
	}
}

func TestQuery_CombinedFilters(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Query(context.Background(), query("category=outerwear&brand=Rivet,Loom+%26+Co&q=denim"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if diff := cmp.Diff([]string{"5"}, productIDs(p.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if got := svc.Count(query("category=outerwear")); got != 2 {
		t.Errorf("Count(outerwear) = %d, want 2", got)
	}
}

func TestQuery_DoesNotReorderSource(t *testing.T) {
	svc, st := newProductService(t)

	for _, raw := range []string{"sort=price-high", "sort=rating", "sort=newest"} {
		if _, err := svc.Query(context.Background(), query(raw)); err != nil {
			t.Fatalf("Query(%s): %v", raw, err)
		}
	}

	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	if diff := cmp.Diff(want, productIDs(st.Products().Items())); diff != "" {
		t.Errorf("source reordered (-want +got):\n%s", diff)
	}
}

func TestQuery_AdminTable(t *testing.T) {
	st, err := memstore.Default()
	if err != nil {
		t.Fatalf("memstore.Default: %v", err)
	}
	svc := New[catalog.Order](st.Orders())

	v := url.Values{"status": {"Delivered"}}
	q := request.FromValues(v, 10)
	p, err := svc.Query(context.Background(), &q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	var ids []string
	for _, o := range p.Items() {
		ids = append(ids, o.ID)
	}
	want := []string{"ORD-1001", "ORD-1004", "ORD-1009", "ORD-1011"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if svc.Name() != memstore.Orders {
		t.Errorf("Name() = %q", svc.Name())
	}
}

func TestQuery_CancelledContext(t *testing.T) {
	svc, _ := newProductService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Query(ctx, query(""))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
