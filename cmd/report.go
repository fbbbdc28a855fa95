package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"casereport/record"
	"casereport/report"
	"casereport/upload"

	"github.com/spf13/cobra"
)

var (
	reportWhere   []string
	reportRecords bool
	reportOutput  string
	reportDBPath  string
)

var reportCmd = &cobra.Command{
	Use:   "report <file-id>",
	Short: "Summarize or list the filtered records of one upload",
	Long: `Load one stored upload, apply filter criteria, and print its summary table
(or the filtered records with --records).

Criteria are given as repeated --where key=value flags:
- q=<text>                 text search over all fields
- q.<field>=<text>         text search in one field
- from.<field>=YYYY-MM-DD  date range start (inclusive)
- to.<field>=YYYY-MM-DD    date range end (inclusive)
- in.<field>=a,b           field equals one of the values
- is.<field>=true|false    checkbox field is (not) ticked`,
	Example: `
  # Summary of a Loss of Service upload
  casereport report 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11

  # Records of one program started in March, as JSON
  casereport report 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11 --records --output json \
    --where in.programOrSite="Program A" --where from.startDateTimeOfLOS=2024-03-01 --where to.startDateTimeOfLOS=2024-03-31
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, closeStore, err := openStore(*cfg, reportDBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		return runReport(cmd.Context(), os.Stdout, store, args[0], reportWhere, reportRecords, reportOutput)
	},
}

func runReport(ctx context.Context, w io.Writer, store upload.Store, fileID string, where []string, listRecords bool, outputFormat string) error {
	format, err := normalizeOutputFormat(outputFormat)
	if err != nil {
		return err
	}

	ft, records, err := fetchFiltered(ctx, store, fileID, where)
	if err != nil {
		return err
	}

	if listRecords {
		return renderRecords(w, format, ft, records)
	}
	return renderSummary(w, format, report.Summarize(ft, records))
}

// fetchFiltered loads one upload and keeps the records matching where.
func fetchFiltered(ctx context.Context, store upload.Store, fileID string, where []string) (record.FileType, []record.Record, error) {
	values, err := parseWhere(where)
	if err != nil {
		return 0, nil, err
	}

	ft, records, err := upload.Fetch(ctx, store, fileID)
	if err != nil {
		return 0, nil, fmt.Errorf("load upload %s: %w", fileID, err)
	}

	predicates, err := report.ParseCriteria(ft, values)
	if err != nil {
		return 0, nil, err
	}
	return ft, report.Filter(records, predicates...), nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringArrayVarP(&reportWhere, "where", "w", nil, "Filter criterion key=value (repeatable)")
	reportCmd.Flags().BoolVar(&reportRecords, "records", false, "Print the filtered records instead of the summary")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", formatTable, "Output format: table|json|yaml")
	reportCmd.Flags().StringVar(&reportDBPath, "db", "", "Path to local SQLite database (overrides storage.path)")
}
