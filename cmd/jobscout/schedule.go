package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scrape cycle on a fixed interval until interrupted",
	RunE:  runSchedule,
}

var every time.Duration

func init() {
	scheduleCmd.Flags().DurationVar(&every, "every", 24*time.Hour, "Interval between cycles")
	scheduleCmd.Flags().StringSliceVarP(&sourceFiles, "sources", "s", nil, "Company CSV files (repeatable)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	sources, err := loadSources(d.cfg, sourceFiles)
	if err != nil {
		return err
	}

	sched := scheduler.New(every, func(ctx context.Context) error {
		_, err := d.pipeline.Run(ctx, sources)
		return err
	})
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	<-ctx.Done()
	return nil
}
