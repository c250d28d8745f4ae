package deadline

import (
	"fmt"
	"strings"
	"time"
)

var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// DateOnlyClock is the time of day given to deadlines entered as a bare date.
const DateOnlyClock = 23*time.Hour + 59*time.Minute

// Parse reads a user-entered deadline in loc. Blank input means no deadline.
// A bare date (2006-01-02) is due at the end of that day.
func Parse(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		t = t.Add(DateOnlyClock)
		return &t, nil
	}
	return nil, fmt.Errorf("invalid deadline %q (want YYYY-MM-DD HH:MM or YYYY-MM-DD)", s)
}
