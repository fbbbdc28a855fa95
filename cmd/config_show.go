package cmd

import (
	"fmt"

	"casereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The backend token is masked.`,
	Example: `
  # Show active configuration
  casereport config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("storage.path: %s\n", cfg.Storage.Path)
		fmt.Printf("backend.url: %s\n", cfg.Backend.URL)
		fmt.Printf("backend.token: %s\n", maskSecret(cfg.Backend.Token))
		fmt.Printf("backend.timeout_seconds: %d\n", cfg.Backend.TimeoutSeconds)
		fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
		fmt.Printf("rules: %d\n", len(cfg.Rules))
		for i, rule := range cfg.Rules {
			fmt.Printf("rules[%d].name: %s\n", i, rule.Name)
			fmt.Printf("rules[%d].file_template: %s\n", i, rule.FileTemplate)
			ft := rule.Type()
			fmt.Printf("rules[%d].file_type: %s (%d)\n", i, ft, int(ft))
		}
	},
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
