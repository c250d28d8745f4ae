package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"duely/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder loops without the UI",
	Long: `Run the reminder loops headless until interrupted.

Priorities are escalated on every deadline tick and notifications are
written to stderr through the logger.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	perm, err := reminder.ParsePermission(a.cfg.Reminder.Notifications)
	if err != nil {
		return err
	}
	pendingEvery, deadlineEvery, err := a.cfg.Reminder.Intervals()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := reminder.NewGate(reminder.NewLogNotifier(a.logger, perm), a.logger)
	s := reminder.NewScheduler(a.store, gate,
		reminder.WithPendingInterval(pendingEvery),
		reminder.WithDeadlineInterval(deadlineEvery),
		reminder.WithLogger(a.logger),
	)

	a.logger.Info("reminders running", "pending", pendingEvery, "deadlines", deadlineEvery, "notifications", perm)
	s.Run(ctx)
	a.logger.Info("reminders stopped")
	return nil
}
