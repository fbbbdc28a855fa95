package importer

import (
	"strings"

	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	goalsIndividualMarker      = "Individual:"
	goalsColIndividual         = 2
	goalsColProgramOrResidence = 6
	goalsColGoalDescription    = 2
	goalsColGoalProgress       = 2
)

type goalsField struct {
	marker string
	// below reads the value one row down in the marker's column; otherwise
	// the value sits on the marker's row in column col.
	below  bool
	col    int
	date   bool
	assign func(*record.GoalsProgress, string)
}

var goalsFields = []goalsField{
	{marker: "Goal Title:", below: true, assign: func(r *record.GoalsProgress, v string) { r.GoalTitle = v }},
	{marker: "Goal Type:", below: true, assign: func(r *record.GoalsProgress, v string) { r.GoalType = v }},
	{marker: "Personal Outcome:", below: true, assign: func(r *record.GoalsProgress, v string) { r.PersonalOutcome = v }},
	{marker: "Start Date:", below: true, date: true, assign: func(r *record.GoalsProgress, v string) { r.StartDate = v }},
	{marker: "Completion Date:", below: true, date: true, assign: func(r *record.GoalsProgress, v string) { r.CompletionDate = v }},
	{marker: "Discontinued Date:", below: true, date: true, assign: func(r *record.GoalsProgress, v string) { r.DiscontinuedDate = v }},
	{marker: "Goal Description:", col: goalsColGoalDescription, assign: func(r *record.GoalsProgress, v string) { r.GoalDescription = v }},
	{marker: "Goal Progress:", col: goalsColGoalProgress, assign: func(r *record.GoalsProgress, v string) { r.GoalProgress = v }},
}

// GoalsProgressExtractor reads the multi-row goals layout: an "Individual:"
// row opens a record and the marker rows that follow fill it in.
type GoalsProgressExtractor struct{}

func (GoalsProgressExtractor) FileType() record.FileType { return record.GoalsProgressType }

func (e GoalsProgressExtractor) Extract(g *grid.Grid) Extraction {
	out := newExtraction(e.FileType())
	rows := newRowScanner(&out)
	var current *record.GoalsProgress
	flush := func() {
		if current != nil {
			out.Records = append(out.Records, *current)
			current = nil
		}
	}

	for i := 0; i < g.Len(); i++ {
		row := g.Row(i)
		if rows.skip(row) {
			continue
		}

		if strings.Contains(normalize.Text(row.Cell(0)), goalsIndividualMarker) {
			flush()
			current = &record.GoalsProgress{
				Individual:       normalize.Text(row.Cell(goalsColIndividual)),
				ProgramResidence: normalize.Text(row.Cell(goalsColProgramOrResidence)),
			}
			continue
		}
		if current == nil {
			out.RowsSkipped++
			continue
		}
		for col, cell := range row {
			text := normalize.Text(cell)
			if text == "" {
				continue
			}
			for _, field := range goalsFields {
				if !strings.Contains(text, field.marker) {
					continue
				}
				field.assign(current, goalsValue(g, i, col, field))
			}
		}
	}
	flush()
	return out
}

func goalsValue(g *grid.Grid, rowIndex, col int, field goalsField) string {
	if field.below {
		cell := g.Cell(rowIndex+1, col)
		if isGoalsMarker(cell) {
			return ""
		}
		if field.date {
			if date := normalize.Date(cell); date != "" {
				return date
			}
		}
		return normalize.Text(cell)
	}

	cell := g.Cell(rowIndex, field.col)
	if isGoalsMarker(cell) {
		return ""
	}
	return normalize.Text(cell)
}

func isGoalsMarker(cell grid.Cell) bool {
	text := normalize.Text(cell)
	if text == "" {
		return false
	}
	if strings.Contains(text, goalsIndividualMarker) {
		return true
	}
	for _, field := range goalsFields {
		if strings.Contains(text, field.marker) {
			return true
		}
	}
	return false
}
