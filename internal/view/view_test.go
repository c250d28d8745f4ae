package view_test

import (
	"strings"
	"testing"
	"time"

	"duely/internal/deadline"
	"duely/internal/task"
	"duely/internal/view"
)

var now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func in(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func fixture() []task.Task {
	return []task.Task{
		{ID: 1, Text: "no deadline"},
		{ID: 2, Text: "done soon", Completed: true, Deadline: in(2 * time.Hour)},
		{ID: 3, Text: "late", Priority: task.PriorityHigh, Deadline: in(-time.Hour)},
		{ID: 4, Text: "next week", Deadline: in(7 * 24 * time.Hour)},
	}
}

func rowIDs(l view.List) []int64 {
	out := make([]int64, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.ID
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := map[task.Filter][]int64{
		task.FilterAll:       {3, 2, 4, 1},
		task.FilterActive:    {3, 4, 1},
		task.FilterCompleted: {2},
	}
	for filter, want := range tests {
		t.Run(string(filter), func(t *testing.T) {
			t.Parallel()

			l := view.Build(fixture(), filter, now)
			got := rowIDs(l)
			if len(got) != len(want) {
				t.Fatalf("mismatch:\n  got:  %v\n  want: %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("mismatch:\n  got:  %v\n  want: %v", got, want)
				}
			}
			if l.Placeholder != "" {
				t.Errorf("unexpected placeholder %q", l.Placeholder)
			}
		})
	}
}

func TestBuildRowLabels(t *testing.T) {
	t.Parallel()

	l := view.Build(fixture(), task.FilterAll, now)
	byID := map[int64]view.Row{}
	for _, r := range l.Rows {
		byID[r.ID] = r
	}

	if got := byID[1].Countdown; got != deadline.NoDeadline {
		t.Errorf("no-deadline countdown = %q", got)
	}
	if r := byID[3]; r.Countdown != deadline.Overdue || !r.Overdue {
		t.Errorf("late row = %+v", r)
	}
	if got := byID[4].Countdown; got != "7 d left" {
		t.Errorf("next week countdown = %q", got)
	}
}

func TestBuildPlaceholders(t *testing.T) {
	t.Parallel()

	allDone := []task.Task{{ID: 1, Text: "x", Completed: true}}
	allActive := []task.Task{{ID: 1, Text: "x"}}

	tests := map[string]struct {
		tasks  []task.Task
		filter task.Filter
		want   string
	}{
		"empty collection": {tasks: nil, filter: task.FilterAll, want: "No tasks. Add a new one!"},
		"no active":        {tasks: allDone, filter: task.FilterActive, want: "No active tasks. Well done!"},
		"no completed":     {tasks: allActive, filter: task.FilterCompleted, want: "No completed tasks yet. Get to work!"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l := view.Build(tt.tasks, tt.filter, now)
			if !l.Empty() {
				t.Fatalf("expected no rows, got %d", len(l.Rows))
			}
			if l.Placeholder != tt.want {
				t.Errorf("mismatch:\n  got:  %q\n  want: %q", l.Placeholder, tt.want)
			}
			if out := view.Render(l, 0); !strings.Contains(out, tt.want) {
				t.Errorf("render %q does not contain placeholder", out)
			}
		})
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	s := view.NewState("bogus")
	if s.Filter() != task.FilterAll {
		t.Errorf("default filter = %q, want all", s.Filter())
	}
	if !s.SetFilter(task.FilterCompleted) || s.Filter() != task.FilterCompleted {
		t.Errorf("SetFilter(completed) failed, filter = %q", s.Filter())
	}
	if s.SetFilter("done") {
		t.Error("unknown filter accepted")
	}
	if s.Filter() != task.FilterCompleted {
		t.Errorf("rejected filter changed state to %q", s.Filter())
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	l := view.Build(fixture(), task.FilterAll, now)
	out := view.Render(l, l.Index(4))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], ">") {
		t.Errorf("cursor not on third row:\n%s", out)
	}
	if !strings.Contains(lines[1], "[x]") || !strings.Contains(lines[1], "done soon") {
		t.Errorf("completed row = %q", lines[1])
	}
	if !strings.Contains(lines[0], "high") || !strings.Contains(lines[0], deadline.Overdue) {
		t.Errorf("overdue row = %q", lines[0])
	}
	if l.Index(99) != -1 {
		t.Error("Index of unknown id should be -1")
	}
}

func TestRenderTabs(t *testing.T) {
	t.Parallel()

	out := view.RenderTabs(task.FilterActive)
	for _, label := range []string{"1 All", "2 Active", "3 Completed"} {
		if !strings.Contains(out, label) {
			t.Errorf("tabs %q missing %q", out, label)
		}
	}
}
