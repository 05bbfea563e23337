// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chat2md CLI, which converts
// exported chat-log JSON files into readable Markdown documents.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chat2md/internal/convert"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the chat2md CLI.
var rootCmd = &cobra.Command{
	Use:   "chat2md",
	Short: "Convert exported chat logs to Markdown",
	Long: `chat2md converts exported chat-log JSON files into readable Markdown
documents. Each turn renders under a role heading; code blocks are fenced,
tool invocations are summarized with their parameters and output.

Conversion is deterministic: the same input always produces byte-identical
output. Output files are written atomically, so a failed run never leaves a
partially written document behind.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chat2md.yaml or ~/.config/chat2md/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chat2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chat2md"))
		}
	}

	viper.SetEnvPrefix("CHAT2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps an error to the process exit code: 2 for output write
// failures, 1 for everything else (missing or malformed input included).
func exitCode(err error) int {
	if errors.Is(err, convert.ErrWriteOutput) {
		return 2
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
