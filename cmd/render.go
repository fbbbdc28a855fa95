package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"casereport/record"
	"casereport/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func normalizeOutputFormat(value string) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(value)); format {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return format, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: table|json|yaml)", value)
	}
}

func renderRecords(w io.Writer, format string, ft record.FileType, records []record.Record) error {
	switch format {
	case formatJSON:
		if records == nil {
			records = []record.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case formatYAML:
		return encodeYAML(w, recordsNode(records))
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(ft.String())

	columns := record.Columns(ft)
	header := make(table.Row, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	t.AppendHeader(header)

	for _, r := range records {
		fields := r.Fields()
		row := make(table.Row, len(fields))
		for i, field := range fields {
			row[i] = field.Value
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d records", len(records))})
	t.Render()
	return nil
}

func renderSummary(w io.Writer, format string, summary report.Summary) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case formatYAML:
		return encodeYAML(w, summary)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(summary.Title)

	header := make(table.Row, len(summary.Columns))
	for i, column := range summary.Columns {
		header[i] = column
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(summary.Columns))
	for i := 1; i < len(summary.Columns); i++ {
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	for _, values := range summary.Rows {
		row := make(table.Row, len(values))
		for i, value := range values {
			row[i] = value
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// recordsNode keeps the field order of each record, which a plain struct
// marshal would lose to yaml's lowercased field names.
func recordsNode(records []record.Record) *yaml.Node {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		item := &yaml.Node{Kind: yaml.MappingNode}
		for _, field := range r.Fields() {
			item.Content = append(item.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Value},
			)
		}
		list.Content = append(list.Content, item)
	}
	return list
}

func encodeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
