package globalsearch

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/domain/record"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
)

type mockIndex struct {
	recs []record.Record
}

func (m *mockIndex) Records() []record.Record { return m.recs }

func (m *mockIndex) Href(r *record.Record) string { return "/x/" + r.ID() }

func rec(id string, kind record.Kind, title string, text ...string) record.Record {
	return record.New(id, kind, title, text, nil, nil, nil)
}

func hitIDs(hits []result.Hit) []string {
	ids := make([]string, len(hits))
	for i := range hits {
		ids[i] = hits[i].ID()
	}
	return ids
}

func TestSearch_Ranking(t *testing.T) {
	idx := &mockIndex{recs: []record.Record{
		rec("rp", record.KindReport, "Sales Report", "coat sales"),
		rec("u", record.KindUser, "Coat Admin"),
		rec("p2", record.KindProduct, "Wool Coat"),
		rec("o", record.KindOrder, "ORD-1", "bought a coat"),
		rec("p1", record.KindProduct, "coat"),
		rec("c", record.KindCustomer, "Coates Lee"),
	}}

	got := hitIDs(New(idx).Search(context.Background(), "  COAT "))

	// exact, then prefix by kind priority, then the rest by kind priority.
	want := []string{"p1", "c", "u", "p2", "o", "rp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_StableWithinClassAndKind(t *testing.T) {
	idx := &mockIndex{recs: []record.Record{
		rec("b", record.KindProduct, "Blue Shirt"),
		rec("a", record.KindProduct, "Blue Tee"),
		rec("c", record.KindProduct, "Blue Coat"),
	}}

	got := hitIDs(New(idx).Search(context.Background(), "blue"))
	if diff := cmp.Diff([]string{"b", "a", "c"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_Truncates(t *testing.T) {
	recs := make([]record.Record, 25)
	for i := range recs {
		recs[i] = rec(string(rune('a'+i)), record.KindProduct, "Item")
	}
	idx := &mockIndex{recs: recs}

	if got := New(idx).Search(context.Background(), "item"); len(got) != DefaultLimit {
		t.Errorf("len = %d, want %d", len(got), DefaultLimit)
	}
	if got := New(idx).WithLimit(3).Search(context.Background(), "item"); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
	if got := New(idx).WithLimit(0).Search(context.Background(), "item"); len(got) != DefaultLimit {
		t.Errorf("WithLimit(0) should keep the default, got %d", len(got))
	}
}

func TestSearch_BlankTerm(t *testing.T) {
	idx := &mockIndex{recs: []record.Record{rec("1", record.KindProduct, "Tee")}}
	for _, term := range []string{"", "   ", "\t"} {
		if got := New(idx).Search(context.Background(), term); got != nil {
			t.Errorf("Search(%q) = %v, want nil", term, got)
		}
	}
}

func TestSearch_HitFields(t *testing.T) {
	idx := &mockIndex{recs: []record.Record{
		rec("u1", record.KindUser, "Mia Chen", "", "mia@example.com"),
		rec("s1", record.KindSetting, "Mia Settings"),
	}}

	hits := New(idx).Search(context.Background(), "mia")
	if len(hits) != 2 {
		t.Fatalf("len = %d, want 2", len(hits))
	}
	h := hits[0]
	if h.Kind() != record.KindUser || h.Title() != "Mia Chen" || h.Href() != "/x/u1" {
		t.Errorf("hit = %+v", h)
	}
	if h.Subtitle() != "mia@example.com" {
		t.Errorf("Subtitle() = %q, want first non-empty text", h.Subtitle())
	}
	if hits[1].Subtitle() != string(record.KindSetting) {
		t.Errorf("Subtitle() = %q, want kind fallback", hits[1].Subtitle())
	}
}

func TestSearch_SeedData(t *testing.T) {
	st, err := memstore.Default()
	if err != nil {
		t.Fatalf("memstore.Default: %v", err)
	}

	hits := New(st).Search(context.Background(), "mia chen")
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	// customer c5 and user u1 both match exactly; customer has higher priority.
	if diff := cmp.Diff([]string{"c5", "u1"}, hitIDs(hits)[:2]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	for i := range hits {
		if hits[i].Href() == "" {
			t.Errorf("hit %s has no href", hits[i].ID())
		}
	}

	reports := New(st).Search(context.Background(), "report")
	for i := range reports {
		if reports[i].Kind() != record.KindReport {
			t.Errorf("unexpected %s hit %s for 'report'", reports[i].Kind(), reports[i].ID())
		}
	}
	if len(reports) != 3 {
		t.Errorf("report hits = %d, want 3", len(reports))
	}
}
