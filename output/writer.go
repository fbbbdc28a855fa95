package output

import (
	"fmt"
	"strings"

	"casereport/record"
	"casereport/report"
)

// Writer exports the records of one file type to path.
type Writer interface {
	Write(path string, ft record.FileType, records []record.Record) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteSummary exports a summary table in the given format.
func WriteSummary(path, format string, summary report.Summary) error {
	t := table{headers: summary.Columns, rows: summary.Rows}
	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, t)
	case "excel", "xlsx":
		return writeExcel(path, sheetName(summary.Title), t)
	default:
		return fmt.Errorf("unsupported output format for summaries: %s", format)
	}
}

type table struct {
	headers []string
	rows    [][]string
}

func recordTable(ft record.FileType, records []record.Record) table {
	t := table{headers: record.Columns(ft), rows: make([][]string, 0, len(records))}
	for _, r := range records {
		fields := r.Fields()
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = field.Value
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
