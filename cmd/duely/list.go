package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"duely/internal/task"
	"duely/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print tasks in deadline order",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var listFilter string

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "all, active or completed (default from config)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	filter := a.cfg.Filter()
	if listFilter != "" {
		if filter, err = task.ParseFilter(listFilter); err != nil {
			return err
		}
	}

	// Priorities shown must reflect deadlines at the moment of listing.
	now := time.Now()
	tasks, err := a.store.EscalatePriorities(cmd.Context(), now)
	if err != nil {
		return err
	}
	l := view.Build(tasks, filter, now)

	out := cmd.OutOrStdout()
	if l.Empty() {
		fmt.Fprintln(out, l.Placeholder)
		return nil
	}
	for _, r := range l.Rows {
		fmt.Fprintf(out, "%d %s\n", r.ID, view.RenderRow(r, false))
	}
	return nil
}
