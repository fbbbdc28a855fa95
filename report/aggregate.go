package report

import (
	"math"
	"sort"
	"strings"

	"casereport/internal/timeutil"
	"casereport/normalize"
	"casereport/record"
)

type Group struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GroupCounts counts records per distinct value of field, largest group
// first. Percentages are of len(records).
func GroupCounts(records []record.Record, field string) []Group {
	if len(records) == 0 {
		return []Group{}
	}
	counts := make(map[string]int)
	for _, r := range records {
		counts[strings.TrimSpace(record.Value(r, field))]++
	}

	groups := make([]Group, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, Group{
			Key:        key,
			Count:      count,
			Percentage: percentage(count, len(records)),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count == groups[j].Count {
			return groups[i].Key < groups[j].Key
		}
		return groups[i].Count > groups[j].Count
	})
	return groups
}

type Duration struct {
	Key string `json:"key"`
	// Count is every record of the group; Measured only those with both dates.
	Count       int     `json:"count"`
	Measured    int     `json:"measured"`
	AverageDays float64 `json:"averageDays"`
}

// AverageDurations averages the days from startField to endField per value
// of groupField. Negative spans count as 0.
func AverageDurations(records []record.Record, groupField, startField, endField string) []Duration {
	type acc struct {
		count, measured int
		days            float64
	}
	byKey := make(map[string]*acc)
	for _, r := range records {
		key := strings.TrimSpace(record.Value(r, groupField))
		a, ok := byKey[key]
		if !ok {
			a = &acc{}
			byKey[key] = a
		}
		a.count++
		start, okStart := normalize.ParseDate(record.Value(r, startField))
		end, okEnd := normalize.ParseDate(record.Value(r, endField))
		if !okStart || !okEnd {
			continue
		}
		a.measured++
		a.days += timeutil.DaysBetween(start, end)
	}

	out := make([]Duration, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		a := byKey[key]
		d := Duration{Key: key, Count: a.count, Measured: a.measured}
		if a.measured > 0 {
			d.AverageDays = round2(a.days / float64(a.measured))
		}
		out = append(out, d)
	}
	return out
}

type Flag struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Matching   int     `json:"matching"`
	Percentage float64 `json:"percentage"`
}

// FlagPercentages reports per value of groupField the share of records
// whose flagField equals value, ignoring case.
func FlagPercentages(records []record.Record, groupField, flagField, value string) []Flag {
	byKey := make(map[string]*Flag)
	for _, r := range records {
		key := strings.TrimSpace(record.Value(r, groupField))
		f, ok := byKey[key]
		if !ok {
			f = &Flag{Key: key}
			byKey[key] = f
		}
		f.Count++
		if strings.EqualFold(strings.TrimSpace(record.Value(r, flagField)), value) {
			f.Matching++
		}
	}

	out := make([]Flag, 0, len(byKey))
	for _, key := range sortedKeys(byKey) {
		f := *byKey[key]
		f.Percentage = percentage(f.Matching, f.Count)
		out = append(out, f)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(total))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
