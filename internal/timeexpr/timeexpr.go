// Package timeexpr parses the human-friendly past times accepted by the
// --from and --to flags.
package timeexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches "2h ago", "30m ago", "1d ago", "2w ago", "1mo ago".
var agoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)\s+ago$`)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParsePast resolves expressions such as "today", "yesterday", "monday",
// "last fri" and "3d ago" relative to now. Day names resolve to the start
// of the most recent such day, today included unless prefixed with "last".
func ParsePast(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	input := strings.ToLower(raw)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	switch input {
	case "now":
		return now, nil
	case "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := pastWeekday(input, now); ok {
		return t, nil
	}

	if m := agoRegex.FindStringSubmatch(input); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return ago(now, n, m[2]), nil
	}

	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func pastWeekday(input string, now time.Time) (time.Time, bool) {
	strict := false
	if rest, ok := strings.CutPrefix(input, "last "); ok {
		strict = true
		input = strings.TrimSpace(rest)
	}
	wd, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}
	base := StartOfDay(now)
	delta := (int(base.Weekday()) - int(wd) + 7) % 7
	if strict && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

func ago(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -n, 0)
	case "w":
		return now.AddDate(0, 0, -7*n)
	case "d":
		return now.AddDate(0, 0, -n)
	case "h":
		return now.Add(-time.Duration(n) * time.Hour)
	default:
		return now.Add(-time.Duration(n) * time.Minute)
	}
}
