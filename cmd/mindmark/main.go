// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mindmark CLI.
// Implements: prd001-extraction through prd005-interactive (CLI surface).
// See docs/ARCHITECTURE § CLI.
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

// rootCmd is the base command for the mindmark CLI.
var rootCmd = &cobra.Command{
	Use:   "mindmark",
	Short: "Convert mind-map archives to Markdown",
	Long: `mindmark converts mind-map documents (zip archives carrying a JSON
outline) into Markdown, as nested headings or nested list items.

Point it at individual archives or at a directory to discover them, pick the
subset to convert, and get per-file outcomes, a run report, and a local
history of past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mindmark.yaml or ~/.config/mindmark/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mindmark")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mindmark"))
		}
	}

	viper.SetEnvPrefix("MINDMARK")
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
