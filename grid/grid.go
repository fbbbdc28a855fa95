// Package grid decodes the first sheet of an uploaded spreadsheet into a
// rectangular grid of raw cell values.
package grid

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDate
)

// Cell is one raw spreadsheet value. The zero Cell is empty.
type Cell struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

func StringCell(value string) Cell {
	if value == "" {
		return Cell{}
	}
	return Cell{kind: KindString, text: value}
}

func NumberCell(value float64) Cell {
	return Cell{kind: KindNumber, num: value}
}

func DateCell(value time.Time) Cell {
	return Cell{kind: KindDate, date: value}
}

func (c Cell) Kind() Kind {
	return c.kind
}

// Number returns the numeric value and true for number cells.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// Date returns the date value and true for date cells.
func (c Cell) Date() (time.Time, bool) {
	return c.date, c.kind == KindDate
}

// Text returns the string value and true for string cells.
func (c Cell) Text() (string, bool) {
	return c.text, c.kind == KindString
}

// String renders the cell for display; empty cells render as "".
func (c Cell) String() string {
	switch c.kind {
	case KindString:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindDate:
		return c.date.Format(time.RFC3339)
	default:
		return ""
	}
}

// IsBlank reports whether the cell is empty or whitespace-only text.
func (c Cell) IsBlank() bool {
	switch c.kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(c.text) == ""
	default:
		return false
	}
}

type Row []Cell

// Cell returns the cell at col, or the empty cell when the row is shorter.
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// IsBlank reports whether every cell of the row trims to "".
func (r Row) IsBlank() bool {
	for _, cell := range r {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}

// FirstText returns the index and trimmed text of the first non-blank cell.
func (r Row) FirstText() (int, string) {
	for i, cell := range r {
		if !cell.IsBlank() {
			return i, strings.TrimSpace(cell.String())
		}
	}
	return -1, ""
}

// Grid is an immutable decoded sheet. Rows are zero-based.
type Grid struct {
	sheet string
	rows  []Row
}

// New builds a grid from rows. The rows are copied.
func New(sheet string, rows []Row) *Grid {
	copied := make([]Row, len(rows))
	for i, row := range rows {
		copied[i] = append(Row(nil), row...)
	}
	return &Grid{sheet: sheet, rows: copied}
}

// FromStrings builds a grid of string cells, inferring numbers and dates the
// same way the CSV loader does.
func FromStrings(rows [][]string) *Grid {
	out := make([]Row, len(rows))
	for i, values := range rows {
		row := make(Row, len(values))
		for col, value := range values {
			row[col] = ParseCell(value)
		}
		out[i] = row
	}
	return &Grid{rows: out}
}

func (g *Grid) Sheet() string {
	return g.sheet
}

func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.rows)
}

// Row returns row i, or nil when out of range.
func (g *Grid) Row(i int) Row {
	if g == nil || i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// Cell returns the cell at (row, col), or the empty cell.
func (g *Grid) Cell(row, col int) Cell {
	return g.Row(row).Cell(col)
}

var inferredDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"02-01-2006",
	"02-01-2006 15:04",
	"02/01/2006",
	"02/01/2006 15:04",
	"02.01.2006",
}

// ParseCell infers a cell from text: blank text is empty, numeric text is a
// number, text matching a known date layout is a date, anything else a string.
func ParseCell(value string) Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Cell{}
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(number) && !math.IsInf(number, 0) {
		return NumberCell(number)
	}
	for _, layout := range inferredDateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return DateCell(parsed)
		}
	}
	return StringCell(value)
}
