package api

import (
	"fmt"
	"strings"
	"time"
)

// iso8601Layout is the wire format for datetimes sent to the API.
const iso8601Layout = "2006-01-02T15:04:05.000000Z"

var (
	zonedLayouts = []string{
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02T15:04:05.999999999Z07",
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// FormatISO8601 renders t in UTC with microsecond precision.
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(iso8601Layout)
}

// ParseISO8601 parses an ISO-8601 datetime into a UTC instant. Fractional
// seconds are optional and values without a zone designator are taken to be
// UTC. An empty string parses to nil.
func ParseISO8601(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid ISO-8601 datetime %q", value)
}
