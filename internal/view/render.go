package view

import (
	"fmt"
	"strings"

	"duely/internal/task"
)

var filterLabels = map[task.Filter]string{
	task.FilterAll:       "All",
	task.FilterActive:    "Active",
	task.FilterCompleted: "Completed",
}

// RenderTabs draws the three filter selectors with active highlighted.
func RenderTabs(active task.Filter) string {
	tabs := make([]string, 0, len(task.Filters()))
	for i, f := range task.Filters() {
		label := fmt.Sprintf("%d %s", i+1, filterLabels[f])
		if f == active {
			tabs = append(tabs, TabActive.Render(label))
		} else {
			tabs = append(tabs, TabInactive.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// Render draws the rows of l, marking the row at cursor. A cursor of -1
// marks nothing.
func Render(l List, cursor int) string {
	if l.Empty() {
		return Muted.Render(l.Placeholder)
	}

	var b strings.Builder
	for i, r := range l.Rows {
		b.WriteString(RenderRow(r, i == cursor))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRow draws one row: cursor, checkbox, text, priority badge and
// countdown.
func RenderRow(r Row, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}

	checkbox := "[ ]"
	text := r.Text
	if r.Completed {
		checkbox = "[x]"
		text = Done.Render(text)
	}

	badge := PriorityStyle(r.Priority).Render(fmt.Sprintf("%-6s", r.Priority))
	countdown := Countdown.Render(r.Countdown)
	if r.Overdue && !r.Completed {
		countdown = Overdue.Render(r.Countdown)
	}

	return fmt.Sprintf("%s %s %s %s  %s", cursor, checkbox, badge, text, countdown)
}
