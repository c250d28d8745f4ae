package task_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"duely/internal/task"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    task.Priority
		wantErr bool
	}{
		"low":              {input: "low", want: task.PriorityLow},
		"medium":           {input: "medium", want: task.PriorityMedium},
		"high":             {input: "high", want: task.PriorityHigh},
		"mixed case":       {input: " High ", want: task.PriorityHigh},
		"unknown is error": {input: "urgent", wantErr: true},
		"empty is error":   {input: "", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := task.ParsePriority(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("mismatch:\n  got:  %q\n  want: %q", got, tt.want)
			}
		})
	}
}

func TestPriorityOrdering(t *testing.T) {
	t.Parallel()

	if !(task.PriorityLow < task.PriorityMedium && task.PriorityMedium < task.PriorityHigh) {
		t.Fatal("priorities must be ordered low < medium < high")
	}
	if got := task.PriorityHigh.Next(); got != task.PriorityLow {
		t.Errorf("high.Next() = %s, want low", got)
	}
	if got := task.PriorityLow.Next(); got != task.PriorityMedium {
		t.Errorf("low.Next() = %s, want medium", got)
	}
}

func TestTaskJSON(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tk := task.Task{
		ID:        1700000000000,
		Text:      "write report",
		Priority:  task.PriorityMedium,
		Deadline:  &deadline,
		CreatedAt: time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(tk)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"id":1700000000000`, `"text":"write report"`, `"completed":false`, `"priority":"medium"`, `"deadline":"2026-03-01T09:30:00Z"`, `"createdAt":"2026-02-27T08:00:00Z"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded task %s missing %s", data, field)
		}
	}

	noDeadline, err := json.Marshal(task.Task{ID: 2, Text: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(noDeadline), `"deadline":null`) {
		t.Errorf("expected null deadline, got %s", noDeadline)
	}

	var bad task.Task
	if err := json.Unmarshal([]byte(`{"id":1,"text":"x","priority":"urgent"}`), &bad); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for _, f := range task.Filters() {
		got, err := task.ParseFilter(strings.ToUpper(string(f)))
		if err != nil {
			t.Fatalf("ParseFilter(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("got %q, want %q", got, f)
		}
	}
	if _, err := task.ParseFilter("done"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestFilterApply(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b", Completed: true},
		{ID: 3, Text: "c"},
	}

	tests := map[task.Filter][]int64{
		task.FilterAll:       {1, 2, 3},
		task.FilterActive:    {1, 3},
		task.FilterCompleted: {2},
	}
	for f, want := range tests {
		got := f.Apply(tasks)
		if len(got) != len(want) {
			t.Fatalf("%s: got %d tasks, want %d", f, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("%s: position %d got id %d, want %d", f, i, got[i].ID, want[i])
			}
		}
	}
}

func TestCloneDoesNotShareDeadline(t *testing.T) {
	t.Parallel()

	d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orig := task.Task{ID: 1, Deadline: &d}
	clone := orig.Clone()
	*clone.Deadline = clone.Deadline.Add(time.Hour)

	if !orig.Deadline.Equal(d) {
		t.Errorf("original deadline changed to %s", orig.Deadline)
	}
}
