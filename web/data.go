package web

import (
	"casereport/record"
	"casereport/report"
)

const defaultPageSize = 100

// TableView is the data behind a records table: one row of display strings
// per record, in column order.
type TableView struct {
	FileType record.FileType `json:"fileType"`
	Columns  []string        `json:"columns"`
	Rows     [][]string      `json:"rows"`
	Page     Page            `json:"page"`
}

type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// BuildTableView renders records[offset:offset+limit]. A limit <= 0 means
// defaultPageSize.
func BuildTableView(ft record.FileType, records []record.Record, offset, limit int) TableView {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(records) {
		offset = len(records)
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}

	view := TableView{
		FileType: ft,
		Columns:  record.Columns(ft),
		Rows:     make([][]string, 0, end-offset),
		Page:     Page{Offset: offset, Limit: limit, Total: len(records)},
	}
	for _, r := range records[offset:end] {
		fields := r.Fields()
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = field.Value
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// SummaryView feeds the dashboard charts of one upload.
type SummaryView struct {
	FileType record.FileType `json:"fileType"`
	Total    int             `json:"total"`
	Table    report.Summary  `json:"table"`
	Groups   []report.Group  `json:"groups"`
}

func BuildSummaryView(ft record.FileType, records []record.Record) SummaryView {
	table := report.Summarize(ft, records)
	groups := []report.Group{}
	if field := report.GroupField(ft); len(table.Columns) > 0 && field != "" {
		groups = report.GroupCounts(records, field)
	}
	return SummaryView{FileType: ft, Total: len(records), Table: table, Groups: groups}
}
