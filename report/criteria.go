package report

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"casereport/normalize"
	"casereport/record"
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// ParseCriteria builds predicates from query parameters:
//
//	q=<text>            text search over every field
//	q.<field>=<text>    text search on one field
//	from.<field>=<day>  lower day bound, inclusive
//	to.<field>=<day>    upper day bound, inclusive
//	in.<field>=<a,b>    any-of selection, repeatable
//	is.<field>[=<v>]    checkbox, matches "Yes" unless v is given
//
// Fields are checked against ft. Other parameters are ignored.
func ParseCriteria(ft record.FileType, values url.Values) ([]Predicate, error) {
	predicates := make([]Predicate, 0, len(values))
	ranges := make(map[string]*DateRange)

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := values[key]
		if key == "q" {
			predicates = append(predicates, Text{Query: strings.Join(raw, " ")})
			continue
		}
		kind, field, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		switch kind {
		case "q", "from", "to", "in", "is":
		default:
			continue
		}
		if !record.HasField(ft, field) {
			return nil, fmt.Errorf("%w: %s has no field %q", ErrInvalidCriteria, ft, field)
		}

		switch kind {
		case "q":
			predicates = append(predicates, Text{Field: field, Query: strings.Join(raw, " ")})
		case "from", "to":
			day, err := parseDay(firstValue(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCriteria, key, err)
			}
			r, exists := ranges[field]
			if !exists {
				r = &DateRange{Field: field}
				ranges[field] = r
			}
			if kind == "from" {
				r.From = day
			} else {
				r.To = day
			}
		case "in":
			predicates = append(predicates, Select{Field: field, Values: splitValues(raw)})
		case "is":
			checkbox := Checkbox{Field: field, Checked: true, Value: firstValue(raw)}
			if checked, err := strconv.ParseBool(checkbox.Value); err == nil {
				checkbox = Checkbox{Field: field, Checked: checked}
			}
			predicates = append(predicates, checkbox)
		}
	}

	for _, field := range sortedKeys(ranges) {
		r := ranges[field]
		if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
			return nil, fmt.Errorf("%w: %s range ends before it starts", ErrInvalidCriteria, field)
		}
		predicates = append(predicates, *r)
	}
	return predicates, nil
}

// parseDay accepts ISO days as sent by date inputs and the normalized
// day-month-year form. An empty value is an open bound.
func parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if day, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		return day, nil
	}
	if day, ok := normalize.ParseDate(value); ok {
		return day, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
