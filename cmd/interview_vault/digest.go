package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/digest"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send scheduled application digests",
	Long:  "Send the summary email to every user whose digest schedule is due. With --watch the check repeats every minute until interrupted.",
	RunE:  runDigest,
}

var (
	digestAt    string
	digestWatch bool
)

func init() {
	digestCmd.Flags().StringVar(&digestAt, "at", "", "Clock time HH:MM to check instead of now (today, local time)")
	digestCmd.Flags().BoolVar(&digestWatch, "watch", false, "Check every minute until interrupted")
	rootCmd.AddCommand(digestCmd)
}

// checkTime returns the minute to evaluate schedules against.
func checkTime(at string, now time.Time) (time.Time, error) {
	if at == "" {
		return now.Truncate(time.Minute), nil
	}
	hour, minute, err := digest.ParseClock(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value %q: %w", at, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}

func runDigest(_ *cobra.Command, _ []string) error {
	if digestWatch && digestAt != "" {
		return fmt.Errorf("cannot use --at with --watch")
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if sender == nil {
		return fmt.Errorf("EMAIL_SENDER is required to send digests")
	}

	database, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	runner := digest.NewRunner(database, email.NewComposer(cfg.Email.AppURL), sender, logger)

	runOnce := func(at time.Time) error {
		summary, err := runner.Run(ctx, at)
		if err != nil {
			return err
		}
		logger.Info("digest run complete",
			zap.Int("checked", summary.Checked),
			zap.Int("due", summary.Due),
			zap.Int("sent", summary.Sent),
			zap.Int("failed", len(summary.Failed)))
		return nil
	}

	if !digestWatch {
		at, err := checkTime(digestAt, time.Now())
		if err != nil {
			return err
		}
		return runOnce(at)
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		if err := runOnce(time.Now().Truncate(time.Minute)); err != nil && ctx.Err() == nil {
			logger.Error("digest run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
