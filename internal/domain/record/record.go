// Package record defines the generic projection of a domain entity that the
// query engine filters, sorts and ranks.
package record

import (
	"maps"
	"slices"
	"strings"
)

// Well-known field names shared by entity projections.
const (
	FieldCategory = "category"
	FieldStyle    = "style"
	FieldStatus   = "status"
	FieldRole     = "role"
	FieldPrice    = "price"
	FieldRating   = "rating"
	FieldBrand    = "brand"
	FieldColors   = "colors"
)

// Record is a read-only view of one entity.
type Record struct {
	id       string
	kind     Kind
	title    string
	text     []string
	tags     map[string]string
	numerics map[string]float64
	sets     map[string][]string
	haystack string
}

// New creates a record. text holds searchable fields besides the title.
// Tag values also become searchable.
func New(
	id string, kind Kind, title string, text []string,
	tags map[string]string, numerics map[string]float64, sets map[string][]string,
) Record {
	parts := make([]string, 0, 1+len(text)+len(tags))
	parts = append(parts, title)
	parts = append(parts, text...)
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		parts = append(parts, tags[k])
	}
	return Record{
		id: id, kind: kind, title: title, text: text,
		tags: tags, numerics: numerics, sets: sets,
		haystack: strings.ToLower(strings.Join(parts, " ")),
	}
}

// ID returns the stable identifier.
func (r *Record) ID() string { return r.id }

// Kind returns the entity kind.
func (r *Record) Kind() Kind { return r.kind }

// Title returns the human-readable name.
func (r *Record) Title() string { return r.title }

// Text returns the searchable fields besides the title.
func (r *Record) Text() []string { return r.text }

// Tag returns a categorical field value.
func (r *Record) Tag(name string) (string, bool) {
	v, ok := r.tags[name]
	return v, ok
}

// Numeric returns a numeric field value.
func (r *Record) Numeric(name string) (float64, bool) {
	v, ok := r.numerics[name]
	return v, ok
}

// Values returns the values of a multi-value field.
func (r *Record) Values(name string) []string { return r.sets[name] }

// Contains reports whether the lowercased needle occurs in the searchable text.
func (r *Record) Contains(lowerNeedle string) bool {
	return strings.Contains(r.haystack, lowerNeedle)
}

// Projector is implemented by entities that project into a Record.
type Projector interface {
	Record() Record
}
