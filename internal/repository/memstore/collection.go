package memstore

import (
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Collection is an immutable list of entities with their record projections
// kept in the same order.
type Collection[T record.Projector] struct {
	name    string
	items   []T
	records []record.Record
	byID    map[string]int
}

// NewCollection projects items once. The slice is owned by the collection afterwards.
func NewCollection[T record.Projector](name string, items []T) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		items:   items,
		records: make([]record.Record, len(items)),
		byID:    make(map[string]int, len(items)),
	}
	for i, it := range items {
		c.records[i] = it.Record()
		c.byID[c.records[i].ID()] = i
	}
	return c
}

// Name returns the collection name.
func (c *Collection[T]) Name() string { return c.name }

// Len returns the number of entities.
func (c *Collection[T]) Len() int { return len(c.items) }

// Items returns the entities in natural order. Callers must not modify it.
func (c *Collection[T]) Items() []T { return c.items }

// Records returns the projections in natural order. Callers must not modify it.
func (c *Collection[T]) Records() []record.Record { return c.records }

// Get returns the entity with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	i, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}
