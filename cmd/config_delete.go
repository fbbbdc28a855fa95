package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by casereport, including its
file type rules. Uploads stored in the database are not touched.

Type "Y" at the prompt to confirm, or pass --yes.`,
	Example: `
  # Delete active config
  casereport config delete

  # Delete config at a custom path without prompting
  casereport --configFile ./custom-casereport.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(deletePromptInput, deletePromptOutput, viper.ConfigFileUsed(), configDeleteYes)
	},
}

func deleteConfigFile(input io.Reader, output io.Writer, configPath string, skipPrompt bool) error {
	if configPath == "" {
		return fmt.Errorf("no configuration file found")
	}

	if !skipPrompt {
		confirmed, err := confirmDeletePrompt(input, output, configPath)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}
	}

	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Fprintf(output, "Configuration file successfully deleted: %s\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
