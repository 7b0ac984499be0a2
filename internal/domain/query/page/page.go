// Package page slices ordered results into fixed-size pages.
package page

// WindowSize is the maximum number of navigable page numbers shown at once.
const WindowSize = 5

// Meta describes the page that was cut from a result sequence.
type Meta struct {
	// Index is the effective 0-based page index after clamping.
	Index int
	// Count is the number of pages, at least 1 so an empty result still
	// renders as page 1 of 1.
	Count int
	Size  int
	Total int
}

// Number returns the effective 1-based page number.
func (m Meta) Number() int { return m.Index + 1 }

// HasPrev reports whether a previous page exists.
func (m Meta) HasPrev() bool { return m.Index > 0 }

// HasNext reports whether a next page exists.
func (m Meta) HasNext() bool { return m.Index+1 < m.Count }

// Count returns ceil(total/size), or 1 when total is 0.
func Count(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Bounds clamps the 1-based requested page to [1, Count] and returns the
// half-open item range for it.
func Bounds(total, size, requested int) (start, end int, meta Meta) {
	count := Count(total, size)
	n := requested
	if n < 1 {
		n = 1
	}
	if n > count {
		n = count
	}
	if size > 0 {
		start = min((n-1)*size, total)
		end = min(n*size, total)
	}
	return start, end, Meta{Index: n - 1, Count: count, Size: size, Total: total}
}

// Slice returns the requested page of items. The returned slice shares the
// backing array of items.
func Slice[T any](items []T, size, requested int) ([]T, Meta) {
	start, end, meta := Bounds(len(items), size, requested)
	return items[start:end], meta
}

// Window returns at most WindowSize page numbers around current: all pages
// when count <= 5, otherwise 1..5 near the start, the last five near the
// end, and current-2..current+2 in between.
func Window(current, count int) []int {
	if count < 1 {
		count = 1
	}
	first := 1
	n := count
	if count > WindowSize {
		n = WindowSize
		switch {
		case current <= 3:
			first = 1
		case current >= count-2:
			first = count - WindowSize + 1
		default:
			first = current - 2
		}
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}
