package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the urgency of a [Task]. Values are ordered, so a higher
// Priority compares greater.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

// Priorities returns all priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Next returns the following priority, wrapping from high back to low. It
// is used by input widgets, never by escalation.
func (p Priority) Next() Priority {
	if p >= PriorityHigh || p < PriorityLow {
		return PriorityLow
	}
	return p + 1
}

// ParsePriority parses a priority name, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return PriorityLow, fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", p)
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
