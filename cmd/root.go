/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"casereport/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "casereport",
	Short: "Extract, store, filter, and summarize case-management spreadsheet reports.",
	Long: `
**********************************************
*              CASE REPORT                   *
**********************************************

This CLI reads case-management report exports (Excel, CSV), extracts typed records per
report type, stores them in a local SQLite database or a remote report server, and renders
filtered tables and summaries.

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv
`,
	Example: `
  # Create configuration file
  casereport config create

  # List supported report types
  casereport types

  # Preview the records of a Loss of Service export
  casereport extract -i LOS_2024_03.xlsx --type loss-of-service

  # Store extracted records
  casereport import -i LOS_2024_03.xlsx -i FlowThrough_Q1.xlsx

  # List stored uploads
  casereport uploads list

  # Summarize one upload, filtered to one program
  casereport report <file-id> --where in.programOrSite="Program A"

  # Export filtered records to Excel
  casereport export <file-id> --output ./los.xlsx

  # Serve the JSON API
  casereport serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.casereport.yaml, then ./.casereport.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".casereport" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".casereport")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: casereport config create")
	}
}
