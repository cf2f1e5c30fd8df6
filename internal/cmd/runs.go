package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/mousemetrics/internal/report"
	"github.com/harrison/mousemetrics/internal/store"
)

// NewRunsCommand creates the runs command that inspects the results database.
func NewRunsCommand() *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "runs <results.db>",
		Short: "List or show persisted runs",
		Long: `Runs lists the pipeline executions saved in a results database,
newest first. With --show it prints the summary table of one run instead.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" {
				return showRun(args[0], show, cmd.OutOrStdout())
			}
			return listRuns(args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "print the summary table of the run with this ID")

	return cmd
}

func listRuns(dbPath string, output io.Writer) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "no runs recorded")
		return nil
	}

	fmt.Fprintf(output, "%-36s  %-19s  %8s  %s\n", "ID", "CREATED", "SUBJECTS", "LABEL")
	for _, r := range runs {
		fmt.Fprintf(output, "%-36s  %-19s  %8d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Subjects, r.Label)
	}
	return nil
}

func showRun(dbPath, runID string, output io.Writer) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.GetRun(runID)
	if err != nil {
		return err
	}
	report.PrintConsole(output, rows)
	return nil
}
