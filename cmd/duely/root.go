package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"duely/internal/ui"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "duely",
	Short: "Task list with deadlines, priority escalation and reminders",
	Long: `duely keeps a task list with optional deadlines.

Priorities rise as deadlines get close, and reminders fire every hour for
unfinished tasks and every five minutes for tasks due within the hour.
Run without a subcommand to open the interactive list.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $DUELY_CONFIG or <user config dir>/duely/config.toml)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ui.Run(ctx, a.store, a.cfg, a.logger)
}
