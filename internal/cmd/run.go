package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/mousemetrics/internal/assay"
	"github.com/harrison/mousemetrics/internal/colony"
	"github.com/harrison/mousemetrics/internal/config"
	"github.com/harrison/mousemetrics/internal/filelock"
	"github.com/harrison/mousemetrics/internal/logger"
	"github.com/harrison/mousemetrics/internal/report"
	"github.com/harrison/mousemetrics/internal/store"
	"github.com/harrison/mousemetrics/internal/summary"
)

// NewRunCommand creates the run command that executes the full analysis
// pipeline described by a configuration file.
func NewRunCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the analysis pipeline",
		Long: `Run extracts metrics from every configured assay, joins colony
genotype records, and writes the summary outputs.

Per-subject failures (missing files, malformed records, unresolved IDs) are
logged as warnings and skip only the affected subject; the run fails outright
only when an entire configured input is unusable.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(args[0], cmd.OutOrStdout(), quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the console summary table")

	return cmd
}

func runPipeline(configPath string, output io.Writer, quiet bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	log := logger.NewConsole(output, cfg.LogLevel)
	table := summary.NewTable()

	if cfg.OpenField.Dir != "" {
		log.Infof("extracting open-field metrics from %s", cfg.OpenField.Dir)
		results, arena, warnings, err := assay.ExtractOpenField(assay.OpenFieldOptions{
			Dir:            cfg.OpenField.Dir,
			SubjectPattern: config.MustPattern(cfg.OpenField.SubjectPattern),
			ExpectedFrames: cfg.OpenField.ExpectedFrames,
			PxToMeters:     cfg.OpenField.PxToMeters,
		})
		if err != nil {
			return fmt.Errorf("open-field extraction: %w", err)
		}
		logWarnings(log, warnings)
		table.MergeOpenField(results)
		log.Debugf("arena fit: center (%.1f, %.1f) radius %.1f px", arena.X, arena.Y, arena.R)
		log.Successf("open field: %d subjects", len(results))
	}

	if cfg.LightDark.Dir != "" {
		log.Infof("extracting light-dark metrics from %s", cfg.LightDark.Dir)
		results, warnings, err := assay.ExtractLightDark(assay.LightDarkOptions{
			Dir:            cfg.LightDark.Dir,
			NeverLeftDir:   cfg.LightDark.NeverLeftDir,
			SubjectPattern: config.MustPattern(cfg.LightDark.SubjectPattern),
			ExpectedFrames: cfg.LightDark.ExpectedFrames,
			PxToMeters:     cfg.LightDark.PxToMeters(),
		})
		if err != nil {
			return fmt.Errorf("light-dark extraction: %w", err)
		}
		logWarnings(log, warnings)
		table.MergeLightDark(results)
		log.Successf("light-dark: %d subjects", len(results))
	}

	if cfg.Grooming.Dir != "" {
		log.Infof("extracting grooming metrics from %s", cfg.Grooming.Dir)
		results, warnings, err := assay.ExtractGrooming(assay.GroomingOptions{
			Dir:            cfg.Grooming.Dir,
			SubjectPattern: config.MustPattern(cfg.Grooming.SubjectPattern),
		})
		if err != nil {
			return fmt.Errorf("grooming extraction: %w", err)
		}
		logWarnings(log, warnings)
		table.MergeGrooming(results)
		log.Successf("grooming: %d subjects", len(results))
	}

	// Marbles last: the workbook covers the whole colony, so counts only
	// attach to subjects another assay has already produced.
	if cfg.Marbles.Workbook != "" {
		log.Infof("reading marble-burying workbook %s", cfg.Marbles.Workbook)
		results, warnings, err := assay.ReadMarbleWorkbook(cfg.Marbles.Workbook)
		if err != nil {
			return fmt.Errorf("marble workbook: %w", err)
		}
		logWarnings(log, warnings)
		table.MergeMarbles(results)
		log.Successf("marbles: %d counts", len(results))
	}

	if table.Len() == 0 {
		return fmt.Errorf("no subjects produced by any configured assay")
	}

	var groups []summary.GroupStats
	if cfg.Colony.Enabled() {
		log.Infof("annotating genotypes from %d colony export(s)", len(cfg.Colony.Exports))
		records, err := colony.LoadRecords(cfg.Colony.Exports...)
		if err != nil {
			return fmt.Errorf("load colony exports: %w", err)
		}
		assignments, err := colony.LoadAssignments(cfg.Colony.CageIDSheet)
		if err != nil {
			return fmt.Errorf("load cage-ID sheet: %w", err)
		}
		db := colony.NewDatabase(records, assignments)
		logWarnings(log, table.AnnotateGenotypes(db))
		groups = table.GroupByGenotype()
		log.Successf("genotypes: %d colony records, %d groups", db.Size(), len(groups))
	}

	rows := table.Rows()

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode summary csv: %w", err)
	}
	if err := filelock.LockAndWrite(cfg.Output.CSV, buf.Bytes()); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	log.Successf("wrote %s (%d subjects)", cfg.Output.CSV, len(rows))

	if cfg.Output.Markdown != "" || cfg.Output.HTML != "" {
		markdown := report.Markdown(cfg.Output.RunLabel, rows, groups)
		if cfg.Output.Markdown != "" {
			if err := filelock.AtomicWrite(cfg.Output.Markdown, []byte(markdown)); err != nil {
				return fmt.Errorf("write markdown report: %w", err)
			}
			log.Successf("wrote %s", cfg.Output.Markdown)
		}
		if cfg.Output.HTML != "" {
			html, err := report.HTML(markdown)
			if err != nil {
				return fmt.Errorf("render html report: %w", err)
			}
			if err := filelock.AtomicWrite(cfg.Output.HTML, html); err != nil {
				return fmt.Errorf("write html report: %w", err)
			}
			log.Successf("wrote %s", cfg.Output.HTML)
		}
	}

	if cfg.Output.Database != "" {
		st, err := store.NewStore(cfg.Output.Database)
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer st.Close()
		runID, err := st.SaveRun(cfg.Output.RunLabel, rows)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		log.Successf("saved run %s to %s", runID, cfg.Output.Database)
	}

	if !quiet {
		fmt.Fprintln(output)
		report.PrintConsole(output, rows)
	}

	return nil
}

func logWarnings(log *logger.Console, warnings []error) {
	for _, w := range warnings {
		log.Warnf("%v", w)
	}
}
