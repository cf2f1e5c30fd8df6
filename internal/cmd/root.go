// Package cmd wires the mousemetrics CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for mousemetrics
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mousemetrics",
		Short: "Behavioral-assay summary pipeline",
		Long: `Mousemetrics extracts scalar metrics from raw behavioral-assay
recordings (open-field locomotion, light-dark preference, self-grooming,
marble burying), joins them against colony genotype records, and exports a
single per-subject summary table.

All inputs, recording constants, and outputs are declared in a YAML
configuration file.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewRunsCommand())

	return cmd
}
