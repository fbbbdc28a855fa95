// Package report filters extracted records and aggregates them into the
// summaries shown on dashboards and exports.
package report

import (
	"strings"
	"time"

	"casereport/internal/timeutil"
	"casereport/normalize"
	"casereport/record"

	"golang.org/x/text/cases"
)

type Predicate interface {
	Match(r record.Record) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(record.Record) bool

func (f PredicateFunc) Match(r record.Record) bool { return f(r) }

// Filter returns the records matching every predicate, in input order.
// The input slice is never modified.
func Filter(records []record.Record, predicates ...Predicate) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchAll(r, predicates) {
			out = append(out, r)
		}
	}
	return out
}

func matchAll(r record.Record, predicates []Predicate) bool {
	for _, predicate := range predicates {
		if predicate != nil && !predicate.Match(r) {
			return false
		}
	}
	return true
}

// Text matches records whose Field contains Query, ignoring case. An empty
// Field searches every field; an empty Query matches everything.
type Text struct {
	Field string
	Query string
}

func (p Text) Match(r record.Record) bool {
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(query)
	if p.Field != "" {
		return strings.Contains(fold.String(record.Value(r, p.Field)), needle)
	}
	for _, field := range r.Fields() {
		if strings.Contains(fold.String(field.Value), needle) {
			return true
		}
	}
	return false
}

// DateRange matches records whose Field falls on a day in [From, To]. A zero
// bound is open. Records without a parseable date are kept only when To is
// zero, so still-open records show up under "since" queries.
type DateRange struct {
	Field string
	From  time.Time
	To    time.Time
}

func (p DateRange) Match(r record.Record) bool {
	if p.From.IsZero() && p.To.IsZero() {
		return true
	}
	value, ok := normalize.ParseDate(record.Value(r, p.Field))
	if !ok {
		return p.To.IsZero()
	}
	return timeutil.WithinDays(value, p.From, p.To)
}

// Select matches records whose Field equals any of Values, ignoring case.
// No values matches everything.
type Select struct {
	Field  string
	Values []string
}

func (p Select) Match(r record.Record) bool {
	if len(p.Values) == 0 {
		return true
	}
	value := strings.TrimSpace(record.Value(r, p.Field))
	for _, candidate := range p.Values {
		if strings.EqualFold(value, strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}

// Checkbox matches records whose Field equals Value when Checked. Value
// defaults to "Yes".
type Checkbox struct {
	Field   string
	Checked bool
	Value   string
}

func (p Checkbox) Match(r record.Record) bool {
	if !p.Checked {
		return true
	}
	want := p.Value
	if want == "" {
		want = "Yes"
	}
	return strings.EqualFold(strings.TrimSpace(record.Value(r, p.Field)), want)
}
