package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"casereport/output"
	"casereport/report"
	"casereport/upload"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportWhere  []string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export <file-id>",
	Short: "Export the filtered records or summary of one upload to CSV/Excel",
	Long: `Export one stored upload.

Modes:
- records: export each filtered record, one column per field
- summary: export the summary table of the filtered records

Output format can be selected explicitly via --format or inferred from --output extension.
Filter criteria use the same --where syntax as "report".`,
	Example: `
  # Export records to CSV
  casereport export 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11 --output ./los.csv

  # Export the summary of one program to Excel
  casereport export 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11 --mode summary --where in.programOrSite="Program A" --output ./los-summary.xlsx
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, closeStore, err := openStore(*cfg, exportDBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		return runExport(cmd.Context(), os.Stdout, store, args[0], exportWhere, exportMode, exportFormat, exportOutput)
	},
}

func runExport(ctx context.Context, w io.Writer, store upload.Store, fileID string, where []string, mode, format, path string) error {
	if strings.TrimSpace(format) == "" {
		format = detectExportFormat(path)
	}

	ft, records, err := fetchFiltered(ctx, store, fileID, where)
	if err != nil {
		return err
	}

	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "records":
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(path, ft, records); err != nil {
			return err
		}
		fmt.Fprintf(w, "Export completed. Records: %d, Mode: records, Format: %s, File: %s\n", len(records), format, path)
	case "summary":
		summary := report.Summarize(ft, records)
		if err := output.WriteSummary(path, format, summary); err != nil {
			return err
		}
		fmt.Fprintf(w, "Export completed. Rows: %d, Mode: summary, Format: %s, File: %s\n", len(summary.Rows), format, path)
	default:
		return fmt.Errorf("unsupported export mode: %s (supported: records, summary)", mode)
	}
	return nil
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "records", "Export mode: records|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringArrayVarP(&exportWhere, "where", "w", nil, "Filter criterion key=value (repeatable)")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Path to local SQLite database (overrides storage.path)")

	_ = exportCmd.MarkFlagRequired("output")
}
