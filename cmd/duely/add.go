package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"duely/internal/deadline"
	"duely/internal/task"
)

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Add a task",
	Long: `Add a task with optional priority and deadline.

The deadline is read in local time as 2006-01-02T15:04, "2006-01-02 15:04",
RFC 3339, or a bare date meaning 23:59 that day.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addPriority string
	addDeadline string
)

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "low, medium or high (default from config)")
	addCmd.Flags().StringVarP(&addDeadline, "deadline", "d", "", "deadline, e.g. 2026-01-21T16:30")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	priority := a.cfg.Priority()
	if addPriority != "" {
		if priority, err = task.ParsePriority(addPriority); err != nil {
			return err
		}
	}
	due, err := deadline.Parse(addDeadline, time.Local)
	if err != nil {
		return err
	}

	t, err := a.store.AddTask(cmd.Context(), strings.Join(args, " "), priority, due)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d: %s\n", t.ID, t.Text)
	return nil
}
