package filter

import (
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/record"
)

// Predicate reports whether a record satisfies an expression.
type Predicate func(r *record.Record) bool

// MatchAll accepts every record.
func MatchAll(*record.Record) bool { return true }

// Build compiles the expression into a predicate. Inactive conditions are
// skipped; the remaining checks are ANDed and short-circuit on the first miss.
func Build(expr Expression) Predicate {
	checks := make([]Predicate, 0, len(expr.conditions)+1)

	if expr.term != "" {
		needle := strings.ToLower(expr.term)
		checks = append(checks, func(r *record.Record) bool { return r.Contains(needle) })
	}

	for _, c := range expr.conditions {
		if !c.IsActive() {
			continue
		}
		checks = append(checks, conditionPredicate(c))
	}

	switch len(checks) {
	case 0:
		return MatchAll
	case 1:
		return checks[0]
	}
	return func(r *record.Record) bool {
		for _, check := range checks {
			if !check(r) {
				return false
			}
		}
		return true
	}
}

func conditionPredicate(c Condition) Predicate {
	key := c.key
	switch {
	case c.IsRange():
		rng := *c.rangeExpr
		return func(r *record.Record) bool {
			v, ok := r.Numeric(key)
			return ok && rng.Contains(v)
		}
	case c.IsAnyOf():
		selected := make(map[string]struct{}, len(c.anyOf))
		for _, v := range c.anyOf {
			selected[strings.ToLower(v)] = struct{}{}
		}
		return func(r *record.Record) bool {
			for _, v := range r.Values(key) {
				if _, ok := selected[strings.ToLower(v)]; ok {
					return true
				}
			}
			return false
		}
	default:
		want := c.match
		return func(r *record.Record) bool {
			v, ok := r.Tag(key)
			return ok && strings.EqualFold(v, want)
		}
	}
}
