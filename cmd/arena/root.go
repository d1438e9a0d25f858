package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Global flag values.
var (
	configPath string
	verbose    bool
	noColor    bool
)

// rootCmd is the base command for arena.
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Send one prompt to several models and compare the answers",
	Long: `Arena sends a prompt to several language models in parallel through
OpenRouter, prints every answer as it arrives, and can ask a judge model to
pick a winner or merge the answers into one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}
