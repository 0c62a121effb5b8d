// Package dateutil derives calendar dates from provider activity timestamps
// and filters them against requested date windows.
//
// Calendar dates come from the wall-clock value embedded in the provider's
// local timestamp, not the device timezone. Window bounds, in contrast, are
// the requested YYYY-MM-DD strings parsed as UTC midnight. Activities close
// to midnight can therefore land on the far side of a window bound when the
// activity timezone differs from UTC; callers filtering day-granularity
// windows accept this approximation.
package dateutil

import (
	"fmt"
	"sort"
	"time"
)

// DayFormat is the canonical YYYY-MM-DD layout used for calendar dates.
const DayFormat = "2006-01-02"

// ParseTimestamp parses a provider activity timestamp. Providers emit RFC
// 3339 timestamps; local-time variants without an offset are also accepted.
func ParseTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", ts)
	}
	return t, nil
}

// LocalDay returns the calendar date of a provider timestamp as YYYY-MM-DD,
// using the timestamp's own wall-clock value.
func LocalDay(ts string) (string, error) {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}
	return t.Format(DayFormat), nil
}

// ParseDay parses a YYYY-MM-DD string as UTC midnight of that day.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", day)
	}
	return t, nil
}

// InWindow reports whether t falls inside [start, end], bounds inclusive.
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// UniqueSortedDays deduplicates a list of YYYY-MM-DD strings and returns them
// sorted ascending.
func UniqueSortedDays(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	result := make([]string, 0, len(days))
	for _, day := range days {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		result = append(result, day)
	}
	sort.Strings(result)
	return result
}
