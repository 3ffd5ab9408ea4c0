package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"postsweep/internal/journal"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent run history from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()

			if !cfg.Journal.Enabled {
				fmt.Fprintln(out, "journal is disabled; enable it in the config to record run history")
				return nil
			}

			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limitFlag)
			if err != nil {
				return fmt.Errorf("read run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.Cutoff,
					run.Direction,
					statusOutcome(run),
					strconv.Itoa(run.Deleted),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Remaining),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Cutoff", "Direction", "Outcome", "Deleted", "Skipped", "Remaining"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Maximum runs to show")
	return cmd
}

func statusOutcome(run journal.RunSummary) string {
	if run.FinishedAt == nil {
		return "in progress"
	}
	if run.Error != "" {
		return fmt.Sprintf("%s (%s)", run.Outcome, run.Error)
	}
	return run.Outcome
}
