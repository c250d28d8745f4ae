package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.store.DeleteTask(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "no task %d\n", id)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
	return nil
}
