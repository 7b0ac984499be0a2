package sortkey

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Key is the result ordering selected by the shopper or operator.
type Key string

// Sort key constants.
const (
	// Featured keeps the store's natural order.
	Featured  Key = "featured"
	Newest    Key = "newest"
	PriceLow  Key = "price-low"
	PriceHigh Key = "price-high"
	Rating    Key = "rating"
)

// Parse returns the key for s. Unknown or empty values fall back to Featured.
func Parse(s string) Key {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return Featured
	}
	return k
}

// IsValid checks if the key is one of the supported values.
func (k Key) IsValid() bool {
	return k == Featured || k == Newest || k == PriceLow || k == PriceHigh || k == Rating
}

// Compare returns the ordering function for the key, or nil for Featured.
//
// Newest compares ids as plain strings, so "10" sorts after "9" when
// descending. Records missing a numeric field compare as zero.
func (k Key) Compare() func(a, b *record.Record) int {
	switch k {
	case Newest:
		return func(a, b *record.Record) int { return strings.Compare(b.ID(), a.ID()) }
	case PriceLow:
		return func(a, b *record.Record) int {
			return cmp.Compare(numeric(a, record.FieldPrice), numeric(b, record.FieldPrice))
		}
	case PriceHigh:
		return func(a, b *record.Record) int {
			return cmp.Compare(numeric(b, record.FieldPrice), numeric(a, record.FieldPrice))
		}
	case Rating:
		return func(a, b *record.Record) int {
			return cmp.Compare(numeric(b, record.FieldRating), numeric(a, record.FieldRating))
		}
	default:
		return nil
	}
}

// Sort orders recs in place with a stable sort so ties keep input order.
func (k Key) Sort(recs []*record.Record) {
	if c := k.Compare(); c != nil {
		slices.SortStableFunc(recs, c)
	}
}

func numeric(r *record.Record, field string) float64 {
	v, _ := r.Numeric(field)
	return v
}
