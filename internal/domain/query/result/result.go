package result

import (
	"github.com/kailas-cloud/storefront/internal/domain/query/page"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Page is one render-ready page of matched items.
type Page[T any] struct {
	items        []T
	totalMatched int
	pageIndex    int
	pageCount    int
	pageSize     int
}

// NewPage creates a result page from paginator metadata.
func NewPage[T any](items []T, meta page.Meta) Page[T] {
	return Page[T]{
		items:        items,
		totalMatched: meta.Total,
		pageIndex:    meta.Index,
		pageCount:    meta.Count,
		pageSize:     meta.Size,
	}
}

// Items returns the items on this page.
func (p *Page[T]) Items() []T { return p.items }

// TotalMatched returns the number of matches across all pages.
func (p *Page[T]) TotalMatched() int { return p.totalMatched }

// PageIndex returns the 0-based page index.
func (p *Page[T]) PageIndex() int { return p.pageIndex }

// PageCount returns the number of pages, at least 1.
func (p *Page[T]) PageCount() int { return p.pageCount }

// PageSize returns the page size the result was cut with.
func (p *Page[T]) PageSize() int { return p.pageSize }

// Meta returns the paginator metadata of the page.
func (p *Page[T]) Meta() page.Meta {
	return page.Meta{Index: p.pageIndex, Count: p.pageCount, Size: p.pageSize, Total: p.totalMatched}
}

// Window returns the navigable page numbers around the current page.
func (p *Page[T]) Window() []int { return page.Window(p.pageIndex+1, p.pageCount) }

// IsEmpty reports whether nothing matched.
func (p *Page[T]) IsEmpty() bool { return p.totalMatched == 0 }

// Hit is a single global search result.
type Hit struct {
	kind     record.Kind
	id       string
	title    string
	subtitle string
	href     string
}

// NewHit creates a global search hit.
func NewHit(kind record.Kind, id, title, subtitle, href string) Hit {
	return Hit{kind: kind, id: id, title: title, subtitle: subtitle, href: href}
}

// Kind returns the kind of the matched record.
func (h *Hit) Kind() record.Kind { return h.kind }

// ID returns the matched record identifier.
func (h *Hit) ID() string { return h.id }

// Title returns the matched record title.
func (h *Hit) Title() string { return h.title }

// Subtitle returns secondary text for the hit.
func (h *Hit) Subtitle() string { return h.subtitle }

// Href returns the dashboard path of the hit.
func (h *Hit) Href() string { return h.href }
