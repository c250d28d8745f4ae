// Package task defines the task entity shared by storage, the deadline
// engine and the views.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item. ID, Text and Deadline never change after
// creation; Completed is flipped by the user and Priority only ever moves up.
type Task struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority"`
	Deadline  *time.Time `json:"deadline"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HasDeadline reports whether the task carries a deadline.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil
}

// Remaining returns the time left until the deadline. It is negative once the
// deadline has passed and zero for tasks without one.
func (t Task) Remaining(now time.Time) time.Duration {
	if t.Deadline == nil {
		return 0
	}
	return t.Deadline.Sub(now)
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}

// CloneAll copies a collection, deadlines included.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Filter selects which tasks a list shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter parses a filter name, ignoring case and surrounding space.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}

// Matches reports whether t belongs in a list using filter f.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks matching f, preserving order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
