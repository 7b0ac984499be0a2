package filter

import (
	"fmt"
	"strings"
)

// All is the match value that disables a match condition.
const All = "all"

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 32

// Expression is a free-text term plus conditions combined with AND.
type Expression struct {
	term       string
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(term string, conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	return Expression{term: strings.TrimSpace(term), conditions: conditions}, nil
}

// Term returns the trimmed free-text term.
func (e Expression) Term() string { return e.term }

// Conditions returns all conditions, active or not.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression matches every record.
func (e Expression) IsEmpty() bool {
	if e.term != "" {
		return false
	}
	for _, c := range e.conditions {
		if c.IsActive() {
			return false
		}
	}
	return true
}

// Condition is a single filter clause: a tag match, a numeric range or a
// multi-value intersection.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
	anyOf     []string
}

// NewMatch creates a case-insensitive exact tag match condition.
// An empty value or All yields an inactive condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, match: strings.TrimSpace(match)}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// NewAnyOf creates a multi-select condition. Blank values are dropped; an
// empty selection yields an inactive condition.
func NewAnyOf(key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	selected := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	if len(selected) == 0 {
		selected = nil
	}
	return Condition{key: key, anyOf: selected}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// AnyOf returns the selected values of a multi-select condition.
func (c Condition) AnyOf() []string { return c.anyOf }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.rangeExpr == nil && c.anyOf == nil && c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsAnyOf reports whether this is a multi-select condition.
func (c Condition) IsAnyOf() bool { return c.anyOf != nil }

// IsActive reports whether the condition restricts the result at all.
func (c Condition) IsActive() bool {
	switch {
	case c.IsRange():
		return !c.rangeExpr.IsUnbounded()
	case c.IsAnyOf():
		return true
	case c.IsMatch():
		return !strings.EqualFold(c.match, All)
	default:
		return false
	}
}

// Range is an inclusive numeric range. A nil bound is unbounded.
type Range struct {
	min *float64
	max *float64
}

// NewRangeFilter creates a Range from optional inclusive bounds.
func NewRangeFilter(lower, upper *float64) Range {
	return Range{min: lower, max: upper}
}

// Min returns the inclusive lower bound.
func (r Range) Min() *float64 { return r.min }

// Max returns the inclusive upper bound.
func (r Range) Max() *float64 { return r.max }

// IsUnbounded reports whether neither bound is set.
func (r Range) IsUnbounded() bool { return r.min == nil && r.max == nil }

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}
