package request

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/query/filter"
	"github.com/kailas-cloud/storefront/internal/domain/query/sortkey"
	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// URL query parameter names.
const (
	ParamTerm     = "q"
	ParamCategory = record.FieldCategory
	ParamStyle    = record.FieldStyle
	ParamStatus   = record.FieldStatus
	ParamRole     = record.FieldRole
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamBrand    = record.FieldBrand
	ParamColors   = record.FieldColors
	ParamSort     = "sort"
	ParamPage     = "page"
)

// matchParams are single-value exact filters; "all" or absent disables them.
var matchParams = []string{ParamCategory, ParamStyle, ParamStatus, ParamRole}

// multiParams are comma-separated multi-select filters.
var multiParams = []string{ParamBrand, ParamColors}

// FromValues builds a Query from URL query parameters. Malformed numbers
// fall back to defaults: an unparsable or negative price bound is unbounded,
// an unparsable page is page 1.
func FromValues(v url.Values, pageSize int) Query {
	conds := make([]filter.Condition, 0, len(matchParams)+len(multiParams)+1)

	for _, name := range matchParams {
		if val := v.Get(name); val != "" {
			if c, err := filter.NewMatch(name, val); err == nil {
				conds = append(conds, c)
			}
		}
	}

	lower, upper := parseBound(v.Get(ParamMinPrice)), parseBound(v.Get(ParamMaxPrice))
	if lower != nil || upper != nil {
		if c, err := filter.NewRange(record.FieldPrice, filter.NewRangeFilter(lower, upper)); err == nil {
			conds = append(conds, c)
		}
	}

	for _, name := range multiParams {
		if val := v.Get(name); val != "" {
			if c, err := filter.NewAnyOf(name, SplitList(val)); err == nil {
				conds = append(conds, c)
			}
		}
	}

	// Fewer conditions than filter.MaxConditions, so this cannot fail.
	expr, _ := filter.NewExpression(v.Get(ParamTerm), conds...)

	return New(expr, sortkey.Parse(v.Get(ParamSort)), parsePage(v.Get(ParamPage)), pageSize)
}

// SplitList splits a comma-separated parameter, dropping blank entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
