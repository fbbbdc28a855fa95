package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"casereport/config"
	"casereport/importer"
	"casereport/record"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extractInputs []string
	extractType   string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract records from report files and print them without storing",
	Long: `Read report files, extract typed records, and print them.

The file type comes from --type, else from the first config rule whose file_template matches
the file name. Files whose type has no extraction logic are reported as warnings.`,
	Example: `
  # Print records as a table
  casereport extract -i LOS_2024_03.xlsx --type 2

  # Dump records as YAML, resolving the type from config rules
  casereport extract -i LOS_2024_03.xlsx --output yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return runExtract(os.Stdout, *cfg, logger, extractInputs, extractType, extractOutput)
	},
}

func runExtract(w io.Writer, cfg config.Config, logger *zap.Logger, inputs []string, fileType, outputFormat string) error {
	format, err := normalizeOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	ft, err := parseOptionalFileType(fileType)
	if err != nil {
		return err
	}

	result, err := importer.Run(inputs, cfg, importer.RunOptions{FileType: ft, Logger: logger})
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		if file.Warning != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", file.Warning)
			continue
		}
		if format == formatTable {
			for _, key := range slices.Sorted(maps.Keys(file.Extraction.Metadata)) {
				fmt.Fprintf(w, "%s: %s\n", key, file.Extraction.Metadata[key])
			}
		}
		if err := renderRecords(w, format, file.FileType, file.Extraction.Records); err != nil {
			return err
		}
	}
	return nil
}

func parseOptionalFileType(value string) (record.FileType, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return record.ParseFileType(value)
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringArrayVarP(&extractInputs, "input", "i", nil, "Input file path (repeatable)")
	extractCmd.Flags().StringVarP(&extractType, "type", "t", "", "File type id, slug, or name (optional, resolved from config rules when omitted)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", formatTable, "Output format: table|json|yaml")

	_ = extractCmd.MarkFlagRequired("input")
}
