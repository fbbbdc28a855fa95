package importer

import (
	"strings"

	"casereport/grid"
	"casereport/normalize"
	"casereport/record"
)

const (
	intakeColLabel = iota
	intakeColCount
	intakeColPercentage
)

// IntakeTables lists the breakdown tables of an intake report in sheet order.
var IntakeTables = []string{
	"Previous Living Situation",
	"Immediate Needs",
	"Citizenship Status",
	"Veteran Status",
	"Income Type",
}

// IntakeExtractor emits one IntakeRow per counted line, tagged with the table
// named by the closest section row above it.
type IntakeExtractor struct{}

func (IntakeExtractor) FileType() record.FileType { return record.IntakeAggregateType }

func (e IntakeExtractor) Extract(g *grid.Grid) Extraction {
	out := newExtraction(e.FileType())
	rows := newRowScanner(&out)
	table := ""
	for i := 0; i < g.Len(); i++ {
		row := g.Row(i)
		if rows.skip(row) {
			continue
		}
		if name, ok := intakeSection(row); ok {
			table = name
			out.RowsSkipped++
			continue
		}

		// Column headings have no numeric count; totals restate the table.
		count, ok := normalize.Number(row.Cell(intakeColCount))
		label := normalize.Text(row.Cell(intakeColLabel))
		if !ok || isIntakeTotal(label) {
			out.RowsSkipped++
			continue
		}
		percentage, _ := normalize.Number(row.Cell(intakeColPercentage))
		out.Records = append(out.Records, record.IntakeRow{
			Table:      table,
			Label:      label,
			Count:      count,
			Percentage: percentage,
		})
	}
	return out
}

func isIntakeTotal(label string) bool {
	lower := strings.ToLower(strings.TrimSpace(label))
	return lower == "total" || lower == "grand total" || strings.HasPrefix(lower, "total ")
}

// intakeSection reports whether row is a table title: it names a known
// table and carries no count.
func intakeSection(row grid.Row) (string, bool) {
	if _, ok := normalize.Number(row.Cell(intakeColCount)); ok {
		return "", false
	}
	_, first := row.FirstText()
	lower := strings.ToLower(first)
	for _, name := range IntakeTables {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name, true
		}
	}
	return "", false
}
