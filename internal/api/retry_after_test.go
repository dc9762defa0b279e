package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryAfterDuration(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
		ok     bool
	}{
		{"seconds", "5", 5 * time.Second, true},
		{"negative clamps to zero", "-3", 0, true},
		{"past date", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat), 0, true},
		{"missing", "", 0, false},
		{"garbage", "soon", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			d, ok := retryAfterDuration(h)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestRetryAfterDuration_FutureDate(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", time.Now().Add(3*time.Second).UTC().Format(http.TimeFormat))

	d, ok := retryAfterDuration(h)

	assert.True(t, ok)
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, 4*time.Second)
}

func TestRetryAfterBackoff_NoResponse(t *testing.T) {
	assert.Zero(t, retryAfterBackoff(time.Second, time.Minute, 1, nil))
}
