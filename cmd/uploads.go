package cmd

import (
	"context"
	"io"
	"os"

	"casereport/upload"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var uploadsDBPath string

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List and delete stored uploads",
	Long: `Manage the uploads held by the configured store (remote report server or local SQLite).`,
	Example: `
  # List stored uploads, newest first
  casereport uploads list

  # Delete one upload
  casereport uploads delete 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11
`,
}

var uploadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored uploads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, closeStore, err := openStore(*cfg, uploadsDBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		return listUploads(cmd.Context(), os.Stdout, store)
	},
}

func listUploads(ctx context.Context, w io.Writer, store upload.Store) error {
	uploads, err := store.ListUploads(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File ID", "File", "Type", "Records", "Created"})
	for _, info := range uploads {
		t.AppendRow(table.Row{info.FileID, info.FileName, info.FileType.String(), info.RecordCount, info.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.AppendFooter(table.Row{"", "", "", len(uploads), ""})
	t.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(uploadsCmd)
	uploadsCmd.AddCommand(uploadsListCmd)

	uploadsCmd.PersistentFlags().StringVar(&uploadsDBPath, "db", "", "Path to local SQLite database (overrides storage.path)")
}
