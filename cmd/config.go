package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage casereport configuration file values.",
	Long: `Create, edit, display, and delete the casereport configuration file.

The configuration stores application-wide values and file type rules:
- storage.path
- backend.url / backend.token / backend.timeout_seconds
- server.addr
- log.level
- rules[].name / file_template / file_type`,
	Example: `
  # Create default config in $HOME/.casereport.yaml
  casereport config create

  # Show active config and source file
  casereport config show

  # Open active config in editor (creates example if missing)
  casereport config edit

  # Delete active config file
  casereport config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
