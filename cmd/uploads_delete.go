package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"casereport/upload"

	"github.com/spf13/cobra"
)

var (
	uploadsDeleteAll bool
	uploadsDeleteYes bool
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var uploadsDeleteCmd = &cobra.Command{
	Use:   "delete [file-id...]",
	Short: "Delete stored uploads and their records",
	Long: `Destructive cleanup command.

Deletes the named uploads, or every upload with --all. Before deletion, an interactive
security prompt requires typing exactly "Y" unless --yes is given.`,
	Example: `
  # Delete one upload (requires interactive confirmation)
  casereport uploads delete 5b0f2c1e-8a7d-4a55-9d5e-3f8f2f0d9b11

  # Delete every upload without prompting
  casereport uploads delete --all --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadsDeleteAll == (len(args) > 0) {
			return fmt.Errorf("pass either file ids or --all")
		}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if !uploadsDeleteYes {
			target := strings.Join(args, ", ")
			if uploadsDeleteAll {
				target = "all uploads"
			}
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, target)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
		}

		store, closeStore, err := openStore(*cfg, uploadsDBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		if uploadsDeleteAll {
			deleted, err := deleteAllUploads(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted uploads: %d\n", deleted)
			return nil
		}
		return deleteUploads(cmd.Context(), os.Stdout, store, args)
	},
}

type bulkDeleter interface {
	DeleteAllUploads(ctx context.Context) (int64, error)
}

// deleteAllUploads uses the store's bulk delete when it has one and falls
// back to deleting every listed upload.
func deleteAllUploads(ctx context.Context, store upload.Store) (int64, error) {
	if bulk, ok := store.(bulkDeleter); ok {
		return bulk.DeleteAllUploads(ctx)
	}

	uploads, err := store.ListUploads(ctx)
	if err != nil {
		return 0, err
	}
	var deleted int64
	for _, info := range uploads {
		if err := store.DeleteUpload(ctx, info.FileID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func deleteUploads(ctx context.Context, w io.Writer, store upload.Store, fileIDs []string) error {
	var errs []error
	for _, fileID := range fileIDs {
		if err := store.DeleteUpload(ctx, fileID); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", fileID, err))
			continue
		}
		fmt.Fprintf(w, "Deleted upload: %s\n", fileID)
	}
	return errors.Join(errs...)
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func init() {
	uploadsCmd.AddCommand(uploadsDeleteCmd)

	uploadsDeleteCmd.Flags().BoolVar(&uploadsDeleteAll, "all", false, "Delete every stored upload")
	uploadsDeleteCmd.Flags().BoolVarP(&uploadsDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
