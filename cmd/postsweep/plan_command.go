package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"postsweep/internal/archive"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var directionFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "plan <archive> <cutoff>",
		Short: "Show which posts a run would delete, without deleting anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			sweep, err := parseSweepArgs(args, directionFlag)
			if err != nil {
				return err
			}

			records, err := archive.Load(sweep.archivePath)
			if err != nil {
				return err
			}
			items, err := archive.Filter(records, sweep.cutoff, sweep.direction)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "no posts match (%s %s); archive holds %d records\n",
					sweep.direction, sweep.cutoffLabel, len(records))
				return nil
			}

			createdAt := make(map[uint64]string, len(records))
			for _, record := range records {
				if record.Post == nil {
					continue
				}
				if id, parseErr := strconv.ParseUint(record.Post.ID, 10, 64); parseErr == nil {
					createdAt[id] = record.Post.CreatedAt
				}
			}

			shown := len(items)
			if limitFlag > 0 && shown > limitFlag {
				shown = limitFlag
			}
			rows := make([][]string, 0, shown)
			for _, item := range items[:shown] {
				rows = append(rows, []string{
					strconv.FormatUint(item.ID, 10),
					createdAt[item.ID],
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			if shown < len(items) {
				fmt.Fprintf(out, "... and %d more\n", len(items)-shown)
			}
			fmt.Fprintf(out, "%d of %d posts match (%s %s)\n",
				len(items), len(records), sweep.direction, sweep.cutoffLabel)
			return nil
		},
	}

	cmd.Flags().StringVar(&directionFlag, "direction", string(archive.Before), `Which side of the cutoff to delete ("before" or "after")`)
	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum rows to print (0 shows all)")
	return cmd
}
