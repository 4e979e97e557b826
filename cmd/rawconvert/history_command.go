package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rawconvert/internal/batch"
	"rawconvert/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled in the configuration.")
				return nil
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					humanize.Time(run.StartedAt),
					batch.FormatDuration(run.FinishedAt.Sub(run.StartedAt)),
					strings.Join(run.Formats, "+"),
					strconv.FormatFloat(run.Ratio, 'g', -1, 64),
					fmt.Sprintf("%d/%d", run.Completed, run.Total),
					strconv.Itoa(run.Failed),
					strconv.Itoa(run.Skipped),
					yesNo(run.Stopped),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Duration", "Formats", "Ratio", "Done", "Failed", "Skipped", "Stopped"},
				rows,
				2, 4, 5, 6, 7,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}
