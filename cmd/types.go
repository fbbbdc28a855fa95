package cmd

import (
	"io"
	"os"

	"casereport/importer"
	"casereport/record"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported report file types",
	Long: `List every report file type with the numeric id, slug, and name accepted by --type
and by config rules. Types without extraction logic are marked.`,
	Example: `
  casereport types
`,
	Run: func(cmd *cobra.Command, args []string) {
		printFileTypes(os.Stdout)
	},
}

func printFileTypes(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Slug", "Name", "Extractor"})
	for _, ft := range record.FileTypes() {
		supported := "yes"
		if _, ok := importer.ExtractorFor(ft); !ok {
			supported = "no"
		}
		t.AppendRow(table.Row{int(ft), ft.Slug(), ft.String(), supported})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
