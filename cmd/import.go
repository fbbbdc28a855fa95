package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"casereport/config"
	"casereport/importer"
	"casereport/upload"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importInputs []string
	importType   string
	importDBPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Extract report files and store their records",
	Long: `Read report files, extract typed records, and store one upload per file.

Records go to the remote report server when backend.url is configured, otherwise to the
local SQLite database (storage.path, or --db). Each file is stored on its own; a failed
file does not undo files stored before it.`,
	Example: `
  # Import two exports, types resolved from config rules
  casereport import -i LOS_2024_03.xlsx -i FlowThrough_Q1.xlsx

  # Force the file type and database
  casereport import -i incidents.csv --type incident --db ./casereport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		store, closeStore, err := openStore(*cfg, importDBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		return runImport(cmd.Context(), os.Stdout, store, *cfg, logger, importInputs, importType)
	},
}

func runImport(ctx context.Context, w io.Writer, store upload.Store, cfg config.Config, logger *zap.Logger, inputs []string, fileType string) error {
	ft, err := parseOptionalFileType(fileType)
	if err != nil {
		return err
	}

	result, err := importer.Run(inputs, cfg, importer.RunOptions{FileType: ft, Logger: logger})
	if err != nil {
		return err
	}

	var session upload.Session
	failed := 0
	for _, file := range result.Files {
		if file.Warning != "" {
			fmt.Fprintf(w, "SKIPPED %s\n", file.Warning)
			continue
		}
		outcome := session.Submit(ctx, store, upload.Payload{
			FileName: file.Path,
			FileType: file.FileType,
			Records:  file.Extraction.Records,
		})
		if !outcome.Pass {
			failed++
			logger.Error("upload failed", zap.String("path", file.Path), zap.String("message", outcome.Message))
			fmt.Fprintf(w, "FAILED  %s\n", outcome.Message)
			continue
		}
		fmt.Fprintf(w, "OK      %s (file id %s)\n", outcome.Message, outcome.FileID)
	}

	fmt.Fprintf(w, "Import completed. Files: %d, Rows read: %d, Rows skipped: %d, Records extracted: %d, Files stored: %d, Warnings: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsSkipped,
		result.RecordsExtracted,
		len(session.Files()),
		len(result.Warnings),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to upload", failed, len(result.Files))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importType, "type", "t", "", "File type id, slug, or name (optional, resolved from config rules when omitted)")
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (overrides storage.path)")

	_ = importCmd.MarkFlagRequired("input")
}
