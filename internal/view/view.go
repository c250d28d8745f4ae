// Package view turns the persisted task collection into what the list shows:
// deadline order, the active filter, countdown labels and the empty-state
// placeholder.
package view

import (
	"time"

	"duely/internal/deadline"
	"duely/internal/task"
)

var placeholders = map[task.Filter]string{
	task.FilterAll:       "No tasks. Add a new one!",
	task.FilterActive:    "No active tasks. Well done!",
	task.FilterCompleted: "No completed tasks yet. Get to work!",
}

// Placeholder returns the empty-list message for f.
func Placeholder(f task.Filter) string {
	if msg, ok := placeholders[f]; ok {
		return msg
	}
	return placeholders[task.FilterAll]
}

// State is the UI state shared by the renderer and the scheduler callbacks.
// The filter only changes through SetFilter.
type State struct {
	filter task.Filter
}

// NewState starts with filter f, or all when f is not a known filter.
func NewState(f task.Filter) *State {
	s := &State{filter: task.FilterAll}
	s.SetFilter(f)
	return s
}

func (s *State) Filter() task.Filter {
	return s.filter
}

// SetFilter selects f. Unknown filters are ignored and reported as false.
func (s *State) SetFilter(f task.Filter) bool {
	if _, ok := placeholders[f]; !ok {
		return false
	}
	s.filter = f
	return true
}

// Row is one rendered task. ID is what the toggle and delete actions bind to.
type Row struct {
	ID        int64
	Text      string
	Completed bool
	Priority  task.Priority
	Countdown string
	Overdue   bool
}

// List is a sorted, filtered view of the collection.
type List struct {
	Filter      task.Filter
	Rows        []Row
	Placeholder string
}

// Empty reports whether the list has no rows.
func (l List) Empty() bool {
	return len(l.Rows) == 0
}

// Build sorts tasks by deadline, applies filter and labels each row with
// its countdown at now. Placeholder is set only when no row survives.
func Build(tasks []task.Task, filter task.Filter, now time.Time) List {
	sorted := deadline.SortByDeadline(tasks)
	visible := filter.Apply(sorted)

	l := List{Filter: filter, Rows: make([]Row, 0, len(visible))}
	for _, t := range visible {
		l.Rows = append(l.Rows, Row{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Priority:  t.Priority,
			Countdown: deadline.FormatCountdown(t.Deadline, now),
			Overdue:   t.HasDeadline() && t.Remaining(now) < 0,
		})
	}
	if l.Empty() {
		l.Placeholder = Placeholder(filter)
	}
	return l
}

// Index returns the row position of id, or -1.
func (l List) Index(id int64) int {
	for i, r := range l.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
