package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/mousemetrics/internal/config"
)

// NewValidateCommand creates the validate command that checks a configuration
// file and the inputs it points at without running the pipeline.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a configuration file and its inputs",
		Long: `Validate parses the configuration file, checks its constants and
patterns, and verifies that every configured input path exists.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd.OutOrStdout())
		},
	}
}

func runValidate(configPath string, output io.Writer) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(output, "✗ %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}
	fmt.Fprintf(output, "✓ configuration parses and validates\n")

	failures := 0
	check := func(label, path string, wantDir bool) {
		if path == "" {
			return
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			fmt.Fprintf(output, "✗ %s: %s: %v\n", label, path, err)
			failures++
		case wantDir && !info.IsDir():
			fmt.Fprintf(output, "✗ %s: %s is not a directory\n", label, path)
			failures++
		case !wantDir && info.IsDir():
			fmt.Fprintf(output, "✗ %s: %s is a directory, expected a file\n", label, path)
			failures++
		default:
			fmt.Fprintf(output, "✓ %s: %s\n", label, path)
		}
	}

	check("open-field directory", cfg.OpenField.Dir, true)
	check("light-dark directory", cfg.LightDark.Dir, true)
	check("never-left directory", cfg.LightDark.NeverLeftDir, true)
	check("grooming directory", cfg.Grooming.Dir, true)
	check("marble workbook", cfg.Marbles.Workbook, false)
	for _, export := range cfg.Colony.Exports {
		check("colony export", export, false)
	}
	check("cage-ID sheet", cfg.Colony.CageIDSheet, false)

	if failures > 0 {
		return fmt.Errorf("%d input check(s) failed", failures)
	}
	fmt.Fprintf(output, "✓ all configured inputs are present\n")
	return nil
}
