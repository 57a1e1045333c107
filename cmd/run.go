package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quotereel/internal/app"
	"quotereel/internal/publish"
	"quotereel/pkg/config"

	"github.com/spf13/cobra"
)

var runAt string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Daemon mode: publish on a daily schedule",
	Long: `Run continuously, generating and publishing one video per day at the
configured schedule time. Overlapping cycles are skipped, not queued.`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().StringVar(&runAt, "at", "", "Daily publish time (HH:MM), overrides config")
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	scheduleTime := cfg.Publish.ScheduleTime
	if runAt != "" {
		scheduleTime = runAt
	}
	hour, minute, err := publish.ParseScheduleTime(scheduleTime)
	if err != nil {
		return err
	}

	application, err := app.Build(ctx, cfg, slog.Default(), recorder)
	if err != nil {
		return err
	}
	defer application.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		next := publish.NextRun(time.Now(), hour, minute)
		slog.Info("Waiting for next publish cycle", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-sigChan:
			timer.Stop()
			slog.Info("Shutting down...")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			outcome := application.Runner.Run(ctx)
			slog.Info("Cycle finished", "status", outcome.Status)
		}
	}
}
