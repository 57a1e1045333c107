package publish

import (
	"fmt"
	"time"
)

// ParseScheduleTime parses a daily "HH:MM" schedule.
func ParseScheduleTime(s string) (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM: %w", s, err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// NextRun returns the next occurrence of hour:minute after now, in now's
// location.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
