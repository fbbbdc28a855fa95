package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"casereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateStdout bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file with one rule per file type.",
	Long: `Create a new configuration file holding the default storage, backend and server
values plus a rules block with one rule per supported file type. Each rule maps
workbooks named after the type's display name, e.g. "Flow Through*.xlsx".

If a configuration file is already in use, no new file is written. With --stdout
the template is printed instead of written.`,
	Example: `
  # Create default config at $HOME/.casereport.yaml
  casereport config create

  # Print the template, e.g. to merge its rules into an existing config
  casereport config create --stdout
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configCreateStdout {
			_, err := io.WriteString(cmd.OutOrStdout(), config.ExampleYAML())
			return err
		}
		return saveDefaultConfig(cmd.OutOrStdout())
	},
}

func saveDefaultConfig(out io.Writer) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(out, "New config file created at: %s\n", configPath)
	rules := config.DefaultRules()
	fmt.Fprintf(out, "Rules written: %d\n", len(rules))
	for _, rule := range rules {
		fmt.Fprintf(out, "  %-22s %s\n", rule.Name, rule.FileTemplate)
	}
	return nil
}

// ensureConfigFileWithTemplate writes the example config to path unless a
// file is already there.
func ensureConfigFileWithTemplate(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file failed: %w", err)
	}

	content := config.ExampleYAML()
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return false, fmt.Errorf("example config is invalid: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("creating example config failed: %w", err)
	}

	return true, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateStdout, "stdout", false, "Print the template instead of writing it")
}
