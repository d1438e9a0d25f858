package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/ui"
)

// modelsCmd lists the catalog.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog, presets, and judges",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ui.PrintCatalog(cmd.OutOrStdout(), domain.Catalog, domain.EvaluatorModels)
	},
}

// versionCmd prints the arena version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arena %s\n", Version)
	},
}
