// Package cli holds flag helpers shared by commands.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Matches "2h ago", "30m ago", "1d ago", "2w ago", "1mo ago".
var relativeAgoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)\s*ago$`)

// ParseTime parses the time filters accepted by list commands: "2h ago",
// "yesterday", "today", "last monday", YYYY-MM-DD and RFC3339. Weekdays
// always refer to the past.
func ParseTime(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := lastWeekday(input, now); ok {
		return t, nil
	}

	if m := relativeAgoRegex.FindStringSubmatch(input); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return ago(now, n, m[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// lastWeekday resolves "monday" or "last mon" to the most recent such day
// strictly before today.
func lastWeekday(input string, now time.Time) (time.Time, bool) {
	input = strings.TrimSpace(strings.TrimPrefix(input, "last "))
	weekday, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}
	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
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

// TimeValue is a pflag.Value accepting ParseTime expressions. The zero
// value is unset.
type TimeValue struct {
	Time *time.Time
	Now  func() time.Time
}

var _ pflag.Value = (*TimeValue)(nil)

func (v *TimeValue) String() string {
	if v.Time == nil {
		return ""
	}
	return v.Time.Format(time.RFC3339)
}

func (v *TimeValue) Set(s string) error {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	t, err := ParseTime(s, now())
	if err != nil {
		return err
	}
	v.Time = &t
	return nil
}

func (v *TimeValue) Type() string { return "time" }
