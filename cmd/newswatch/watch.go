package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pevans/newswatch/monitor"
)

func newWatchCommand() *cobra.Command {
	var (
		dryRun   bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check the listing on a schedule until interrupted",
		Long: `Run a check immediately and then on the configured cron schedule
(for example "*/30 * * * *" or "@every 30m"). A check that is still running
when the next one is due causes that one to be skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if schedule == "" {
				schedule = a.cfg.Schedule
			}

			m, err := a.monitor(dryRun)
			if err != nil {
				return err
			}

			return m.Watch(cmd.Context(), schedule, func(r *monitor.RunResult) {
				printResult(os.Stderr, r)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log notifications instead of mailing them")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (overrides the config file)")

	return cmd
}
