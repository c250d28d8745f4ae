// Package deadline derives everything that depends on how close a task is to
// its deadline: countdown labels, automatic priority escalation, near-due
// detection and deadline ordering.
//
// All functions are pure. The caller supplies "now" so that a single pass
// over a collection sees one consistent instant.
package deadline

import (
	"fmt"
	"slices"
	"time"

	"duely/internal/task"
)

const (
	// HighWithin is the remaining time at or below which an incomplete task
	// is forced to high priority.
	HighWithin = 24 * time.Hour
	// MediumWithin is the remaining time at or below which a low priority
	// task is raised to medium.
	MediumWithin = 72 * time.Hour
	// ApproachingWithin bounds the window for near-due reminders.
	ApproachingWithin = time.Hour
)

const (
	NoDeadline = "–"
	Overdue    = "overdue"
)

// FormatCountdown renders the time left until deadline. Values are floored:
// 59m59s is "59 min left", never "1 h left".
func FormatCountdown(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return NoDeadline
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return Overdue
	case remaining < time.Hour:
		return fmt.Sprintf("%d min left", remaining/time.Minute)
	case remaining < 24*time.Hour:
		return fmt.Sprintf("%d h left", remaining/time.Hour)
	default:
		return fmt.Sprintf("%d d left", remaining/(24*time.Hour))
	}
}

// Escalate returns a copy of tasks with priorities raised by deadline
// proximity. The input is not modified.
func Escalate(tasks []task.Task, now time.Time) []task.Task {
	out, _ := EscalateChanged(tasks, now)
	return out
}

// EscalateChanged is [Escalate] that also reports the ids whose priority
// moved.
func EscalateChanged(tasks []task.Task, now time.Time) ([]task.Task, []int64) {
	out := task.CloneAll(tasks)
	var changed []int64
	for i := range out {
		target, ok := escalation(out[i], now)
		if !ok {
			continue
		}
		out[i].Priority = target
		changed = append(changed, out[i].ID)
	}
	return out, changed
}

// escalation returns the priority t should move to, if any. Only an exact
// low becomes medium; a task never moves down.
func escalation(t task.Task, now time.Time) (task.Priority, bool) {
	if t.Completed || !t.HasDeadline() {
		return t.Priority, false
	}
	remaining := t.Remaining(now)
	switch {
	case remaining <= HighWithin:
		return task.PriorityHigh, t.Priority < task.PriorityHigh
	case remaining <= MediumWithin && t.Priority == task.PriorityLow:
		return task.PriorityMedium, true
	default:
		return t.Priority, false
	}
}

// FindApproaching returns the incomplete tasks due in (0, ApproachingWithin].
// Already overdue tasks are not approaching.
func FindApproaching(tasks []task.Task, now time.Time) []task.Task {
	var out []task.Task
	for _, t := range tasks {
		if t.Completed || !t.HasDeadline() {
			continue
		}
		if r := t.Remaining(now); r > 0 && r <= ApproachingWithin {
			out = append(out, t)
		}
	}
	return out
}

// SortByDeadline returns tasks ordered by ascending deadline with tasks
// lacking a deadline last. Ties keep their input order.
func SortByDeadline(tasks []task.Task) []task.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, compareDeadline)
	return out
}

func compareDeadline(a, b task.Task) int {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return 0
	case a.Deadline == nil:
		return 1
	case b.Deadline == nil:
		return -1
	default:
		return a.Deadline.Compare(*b.Deadline)
	}
}
