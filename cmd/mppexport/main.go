// Copyright Fernando Simich, 2026. All rights reserved.

// Package main is the entry point for the mppexport CLI: convert project
// plans to Excel workbooks, render Gantt charts, and inspect the run log.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the mppexport CLI.
var rootCmd = &cobra.Command{
	Use:   "mppexport",
	Short: "Convert Microsoft Project plans to Excel and Gantt charts",
	Long: `mppexport converts Microsoft Project plans (MSPDI XML exports) into Excel
workbooks with Tasks and Resources sheets, optionally reconciling durations
against a trusted reference export, and renders HTML Gantt charts from the
exported workbooks.

Each step is a subcommand: convert produces the workbook, chart renders the
timeline, history lists past conversion runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mppexport.yaml or ~/.config/mppexport/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mppexport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mppexport"))
		}
	}

	viper.SetEnvPrefix("MPPEXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
