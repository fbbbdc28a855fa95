package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"casereport/normalize"
	"casereport/record"
)

type LossOfServiceRow struct {
	ProgramOrSite              string  `json:"programOrSite"`
	Count                      int     `json:"count"`
	AverageDays                float64 `json:"avgLOS"`
	CriticalIncidentPercentage float64 `json:"criticalIncidentPercentage"`
}

// LossOfServiceSummary groups loss of service records by program or site.
func LossOfServiceSummary(records []record.Record) []LossOfServiceRow {
	durations := AverageDurations(records, record.FieldProgramOrSite, "startDateTimeOfLOS", "endDateTimeOfLOS")
	flags := FlagPercentages(records, record.FieldProgramOrSite, "wasRelatedToCriticalIncident", "Yes")

	out := make([]LossOfServiceRow, 0, len(durations))
	for i, d := range durations {
		out = append(out, LossOfServiceRow{
			ProgramOrSite:              d.Key,
			Count:                      d.Count,
			AverageDays:                d.AverageDays,
			CriticalIncidentPercentage: flags[i].Percentage,
		})
	}
	return out
}

type FlowThroughRow struct {
	ProgramOrSite   string  `json:"programOrSite"`
	Count           int     `json:"count"`
	Open            int     `json:"open"`
	AverageStayDays float64 `json:"averageStayDays"`
	Graduated       int     `json:"graduated"`
	Transferred     int     `json:"transferred"`
}

// FlowThroughSummary reports stays per program or site. A record without an
// exit date is open and does not count towards the average stay.
func FlowThroughSummary(records []record.Record) []FlowThroughRow {
	durations := AverageDurations(records, record.FieldProgramOrSite, "startDate", "exitDate")
	out := make([]FlowThroughRow, 0, len(durations))
	index := make(map[string]int, len(durations))
	for _, d := range durations {
		index[d.Key] = len(out)
		out = append(out, FlowThroughRow{ProgramOrSite: d.Key, Count: d.Count, AverageStayDays: d.AverageDays})
	}
	for _, r := range records {
		row := &out[index[strings.TrimSpace(record.Value(r, record.FieldProgramOrSite))]]
		if _, ok := normalize.ParseDate(record.Value(r, "exitDate")); !ok {
			row.Open++
		}
		reason := strings.ToLower(record.Value(r, "exitReason"))
		switch {
		case strings.Contains(reason, "graduat"):
			row.Graduated++
		case strings.Contains(reason, "transfer"):
			row.Transferred++
		}
	}
	return out
}

type IncidentBreakdown struct {
	Total    int     `json:"total"`
	ByType   []Group `json:"byType"`
	ByDegree []Group `json:"byDegree"`
}

func IncidentSummary(records []record.Record) IncidentBreakdown {
	return IncidentBreakdown{
		Total:    len(records),
		ByType:   GroupCounts(records, "typeOfSeriousIncident"),
		ByDegree: GroupCounts(records, "degreeOfInjury"),
	}
}

type ShelterDiversionRow struct {
	Community            string  `json:"community"`
	Count                int     `json:"count"`
	SuccessfulPercentage float64 `json:"successfulPercentage"`
	TotalCost            float64 `json:"totalCost"`
}

func ShelterDiversionSummary(records []record.Record) []ShelterDiversionRow {
	flags := FlagPercentages(records, "community", "successfulDiversion", "Yes")
	costs := make(map[string]float64, len(flags))
	for _, r := range records {
		if diversion, ok := r.(record.ShelterDiversion); ok {
			costs[strings.TrimSpace(diversion.Community)] += diversion.DiversionCost
		}
	}

	out := make([]ShelterDiversionRow, 0, len(flags))
	for _, f := range flags {
		out = append(out, ShelterDiversionRow{
			Community:            f.Key,
			Count:                f.Count,
			SuccessfulPercentage: f.Percentage,
			TotalCost:            round2(costs[f.Key]),
		})
	}
	return out
}

// IntakeTable returns the rows of one intake breakdown table, largest count
// first.
func IntakeTable(records []record.Record, table string) []record.IntakeRow {
	out := make([]record.IntakeRow, 0)
	for _, r := range records {
		row, ok := r.(record.IntakeRow)
		if !ok || !strings.EqualFold(row.Table, table) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summary is a rendered table used by exports, the CLI and the web API.
type Summary struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Summarize builds the default summary table of ft.
func Summarize(ft record.FileType, records []record.Record) Summary {
	title := fmt.Sprintf("%s summary", ft)
	switch ft {
	case record.LossOfServiceType:
		summary := Summary{Title: title, Columns: []string{"Program/Site", "Count", "Avg LOS (days)", "Critical incident %"}}
		for _, row := range LossOfServiceSummary(records) {
			summary.Rows = append(summary.Rows, []string{row.ProgramOrSite, itoa(row.Count), ftoa(row.AverageDays), ftoa(row.CriticalIncidentPercentage)})
		}
		return summary.normalized()
	case record.FlowThroughType:
		summary := Summary{Title: title, Columns: []string{"Program/Site", "Count", "Open", "Avg stay (days)", "Graduated", "Transferred"}}
		for _, row := range FlowThroughSummary(records) {
			summary.Rows = append(summary.Rows, []string{row.ProgramOrSite, itoa(row.Count), itoa(row.Open), ftoa(row.AverageStayDays), itoa(row.Graduated), itoa(row.Transferred)})
		}
		return summary.normalized()
	case record.IncidentType:
		summary := Summary{Title: title, Columns: []string{"Type of serious incident", "Count", "%"}}
		for _, group := range IncidentSummary(records).ByType {
			summary.Rows = append(summary.Rows, []string{group.Key, itoa(group.Count), ftoa(group.Percentage)})
		}
		return summary.normalized()
	case record.ShelterDiversionType:
		summary := Summary{Title: title, Columns: []string{"Community", "Count", "Successful %", "Total cost"}}
		for _, row := range ShelterDiversionSummary(records) {
			summary.Rows = append(summary.Rows, []string{row.Community, itoa(row.Count), ftoa(row.SuccessfulPercentage), ftoa(row.TotalCost)})
		}
		return summary.normalized()
	case record.IntakeAggregateType:
		summary := Summary{Title: title, Columns: []string{"Table", "Label", "Count", "%"}}
		for _, r := range records {
			if row, ok := r.(record.IntakeRow); ok {
				summary.Rows = append(summary.Rows, []string{row.Table, row.Label, ftoa(row.Count), ftoa(row.Percentage)})
			}
		}
		return summary.normalized()
	}

	field := GroupField(ft)
	summary := Summary{Title: title, Columns: []string{field, "Count", "%"}}
	for _, group := range GroupCounts(records, field) {
		summary.Rows = append(summary.Rows, []string{group.Key, itoa(group.Count), ftoa(group.Percentage)})
	}
	return summary.normalized()
}

// GroupField names the field records of ft are bucketed by in summaries and
// charts. Types without a natural grouping fall back to their first column.
func GroupField(ft record.FileType) string {
	var field string
	switch ft {
	case record.IncidentType:
		field = "typeOfSeriousIncident"
	case record.ShelterDiversionType:
		field = "community"
	case record.IntakeAggregateType:
		field = "table"
	case record.GoalsProgressType:
		field = "programResidence"
	case record.IndividualsType:
		field = "site"
	case record.SiteListType:
		field = "housingType"
	default:
		field = record.FieldProgramOrSite
	}
	if record.HasField(ft, field) {
		return field
	}
	if columns := record.Columns(ft); len(columns) > 0 {
		return columns[0]
	}
	return ""
}

func (s Summary) normalized() Summary {
	if s.Rows == nil {
		s.Rows = [][]string{}
	}
	return s
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func ftoa(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
