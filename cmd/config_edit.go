package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"casereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errInvalidRules = errors.New("config has invalid rules")

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active casereport config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, this command creates one with a rule per file type first.
After the editor exits, every rule is checked and each problem is listed with the
rule it belongs to, then the whole file is validated as casereport YAML config.`,
	Example: `
  # Edit active config
  casereport config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "No config file found. Created example config at: %s\n", configPath)
		}

		editor := resolveEditorValue(os.Getenv("VISUAL"), os.Getenv("EDITOR"))
		editorCommand, err := buildEditorCommand(editor, configPath)
		if err != nil {
			return err
		}
		editorCommand.Stdin = os.Stdin
		editorCommand.Stdout = os.Stdout
		editorCommand.Stderr = os.Stderr
		if err := editorCommand.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading edited config failed: %w", err)
		}
		if err := checkEditedConfig(cmd.OutOrStdout(), content); err != nil {
			return fmt.Errorf("config validation failed in %s: %w", configPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved and validated: %s\n", configPath)
		return nil
	},
}

// checkEditedConfig lists rule problems grouped by rule before validating
// the whole config.
func checkEditedConfig(out io.Writer, content []byte) error {
	rules, err := config.ReadRules(content)
	if err != nil {
		return err
	}
	if problems := config.CheckRules(rules); len(problems) > 0 {
		writeRuleProblems(out, problems)
		return fmt.Errorf("%w: %d problem(s)", errInvalidRules, len(problems))
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		return err
	}
	fmt.Fprintf(out, "Rules: %d valid\n", len(rules))
	return nil
}

func writeRuleProblems(out io.Writer, problems []config.RuleProblem) {
	last := -1
	for _, problem := range problems {
		if problem.Index != last {
			name := problem.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "rules[%d] %s:\n", problem.Index, name)
			last = problem.Index
		}
		fmt.Fprintf(out, "  %s %s\n", problem.Field, problem.Message)
	}
}

func resolveConfigEditPath(configFileFlag, configFileUsed string) (string, error) {
	if strings.TrimSpace(configFileFlag) != "" {
		return configFileFlag, nil
	}
	if strings.TrimSpace(configFileUsed) != "" {
		return configFileUsed, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".casereport.yaml"), nil
}

func resolveEditorValue(visual, editor string) string {
	if strings.TrimSpace(visual) != "" {
		return visual
	}
	if strings.TrimSpace(editor) != "" {
		return editor
	}
	return "vi"
}

func buildEditorCommand(editorValue, configPath string) (*exec.Cmd, error) {
	fields := strings.Fields(strings.TrimSpace(editorValue))
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	args := append(fields[1:], configPath)
	return exec.Command(fields[0], args...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
