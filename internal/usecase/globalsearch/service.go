// Package globalsearch implements the dashboard search-everything box.
package globalsearch

import (
	"context"
	"slices"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/query/result"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// DefaultLimit is the maximum number of hits returned.
const DefaultLimit = 10

// Title match classes, best first.
const (
	matchExact = iota
	matchPrefix
	matchOther
)

// Service ranks records of every kind against a free-text term.
type Service struct {
	index Index
	limit int
}

// New creates a global search service.
func New(index Index) *Service {
	return &Service{index: index, limit: DefaultLimit}
}

// WithLimit overrides the hit limit. Non-positive values are ignored.
func (s *Service) WithLimit(n int) *Service {
	if n > 0 {
		s.limit = n
	}
	return s
}

type candidate struct {
	rec   *record.Record
	class int
}

// Search returns at most limit hits ordered by exact title match, then title
// prefix, then kind priority. Ties keep store order. A blank term yields no hits.
func (s *Service) Search(_ context.Context, term string) []result.Hit {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	recs := s.index.Records()
	var found []candidate
	for i := range recs {
		r := &recs[i]
		if !r.Contains(needle) {
			continue
		}
		found = append(found, candidate{rec: r, class: classify(r.Title(), needle)})
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		if a.class != b.class {
			return a.class - b.class
		}
		return a.rec.Kind().Priority() - b.rec.Kind().Priority()
	})

	if len(found) > s.limit {
		found = found[:s.limit]
	}

	hits := make([]result.Hit, len(found))
	for i, c := range found {
		hits[i] = result.NewHit(c.rec.Kind(), c.rec.ID(), c.rec.Title(), subtitle(c.rec), s.index.Href(c.rec))
	}
	return hits
}

func classify(title, needle string) int {
	lower := strings.ToLower(title)
	switch {
	case lower == needle:
		return matchExact
	case strings.HasPrefix(lower, needle):
		return matchPrefix
	default:
		return matchOther
	}
}

func subtitle(r *record.Record) string {
	for _, t := range r.Text() {
		if t != "" {
			return t
		}
	}
	return string(r.Kind())
}
