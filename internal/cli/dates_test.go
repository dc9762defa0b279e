package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	now := time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC) // Wednesday
	midnight := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"now", now},
		{"2h ago", now.Add(-2 * time.Hour)},
		{"30m ago", now.Add(-30 * time.Minute)},
		{"1d ago", now.AddDate(0, 0, -1)},
		{"2w ago", now.AddDate(0, 0, -14)},
		{"1mo ago", now.AddDate(0, -1, 0)},
		{"3 d ago", now.AddDate(0, 0, -3)},
		{"today", midnight},
		{"Yesterday", midnight.AddDate(0, 0, -1)},
		{"monday", midnight.AddDate(0, 0, -2)},
		{"last wed", midnight.AddDate(0, 0, -7)},
		{"thursday", midnight.AddDate(0, 0, -6)},
		{"2025-12-31", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"2025-12-31T10:00:00.5Z", time.Date(2025, 12, 31, 10, 0, 0, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTime_Invalid(t *testing.T) {
	now := time.Now()
	for _, input := range []string{"", "  ", "0d ago", "soon", "2x ago", "next monday"} {
		_, err := ParseTime(input, now)
		assert.Error(t, err, input)
	}
}

func TestTimeValue_Flag(t *testing.T) {
	now := time.Date(2026, 1, 28, 15, 0, 0, 0, time.UTC)
	v := &TimeValue{Now: func() time.Time { return now }}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(v, "after", "")
	assert.Equal(t, "", v.String())

	require.NoError(t, fs.Parse([]string{"--after", "1h ago"}))
	require.NotNil(t, v.Time)
	assert.Equal(t, "2026-01-28T14:00:00Z", v.String())
	assert.Equal(t, "time", v.Type())

	assert.Error(t, fs.Parse([]string{"--after", "whenever"}))
}
