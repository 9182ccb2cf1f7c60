package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wbrown/timex/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List stored batch runs, or the failures of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.GetString("report-db")
		if dbPath == "" {
			return errors.New("--report-db is required")
		}
		store, err := report.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if len(args) == 1 {
			return printFailures(cmd, store, args[0], cmd.OutOrStdout())
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return printRuns(cmd, store, limit, cmd.OutOrStdout())
	},
}

func init() {
	runsCmd.Flags().String("report-db", "", "SQLite database of batch runs")
	runsCmd.Flags().Int("limit", 20, "number of runs to list")
}

func printRuns(cmd *cobra.Command, store *report.Store, limit int,
	out io.Writer) error {
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s\t%s\t%d/%d\t%s\n", run.ID, run.Lang,
			run.Passed, run.Total, humanize.Time(run.StartedAt))
	}
	return nil
}

func printFailures(cmd *cobra.Command, store *report.Store, runID string,
	out io.Writer) error {
	failures, err := store.Failures(cmd.Context(), runID)
	if err != nil {
		return err
	}
	for _, c := range failures {
		fmt.Fprintf(out, "FAIL %s:%d\n", c.Source, c.Line)
		fmt.Fprintf(out, "  query:    %s\n", c.Query)
		fmt.Fprintf(out, "  base:     %s\n", c.Base)
		fmt.Fprintf(out, "  markup:   %s\n", c.Markup)
		fmt.Fprintf(out, "  expected: %s\n", c.Expected)
		fmt.Fprintf(out, "  got:      %s\n", c.Got)
	}
	fmt.Fprintf(out, "%d failures\n", len(failures))
	return nil
}
