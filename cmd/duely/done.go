package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Toggle a task between active and completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.store.ToggleComplete(cmd.Context(), id)
	if err != nil {
		return err
	}
	state := "reopened"
	if t.Completed {
		state = "completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s\n", state, t.ID, t.Text)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
