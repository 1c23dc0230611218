// Package schedule implements the schedule command: crawl runs driven by
// a cron spec until interrupted.
package schedule

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/newsradar/cmd/common"
	"github.com/jonesrussell/newsradar/internal/scheduler"
)

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run crawls on a cron schedule",
		Long: `Run a crawl on every tick of the configured cron spec. Each run
writes fresh report files; the shared dedup cache keeps repeated runs
from reprocessing known URLs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps()
			if err != nil {
				return err
			}

			spec := deps.Config.Schedule.Cron
			if cmd.Flags().Changed("cron") {
				spec = cronSpec
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.New(deps.Logger)
			if err := sched.Add(ctx, spec, func(runCtx context.Context) error {
				return common.RunCrawl(runCtx, deps)
			}); err != nil {
				return err
			}

			deps.Logger.Info("scheduling crawls", "cron", spec)
			sched.Start(ctx)

			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "cron spec overriding the configured schedule")

	return cmd
}
