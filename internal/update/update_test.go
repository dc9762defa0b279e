package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, HTTP: srv.Client()}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "v1.2.3", canonical("1.2.3"))
	assert.Equal(t, "v1.2.3", canonical("v1.2.3"))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		body      string
		available bool
	}{
		{"newer patch", "1.2.3", `{"tag_name": "v1.2.4", "html_url": "https://example.com/r"}`, true},
		{"newer major", "v1.9.0", `{"tag_name": "2.0.0"}`, true},
		{"same version", "v1.2.3", `{"tag_name": "1.2.3"}`, false},
		{"current newer", "1.3.0", `{"tag_name": "v1.2.9"}`, false},
		{"prerelease ignored", "1.2.3", `{"tag_name": "v1.3.0-rc.1", "prerelease": true}`, false},
		{"invalid tag", "1.2.3", `{"tag_name": "latest"}`, false},
		{"invalid current", "abc", `{"tag_name": "v1.0.0"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newChecker(t, http.StatusOK, tt.body).Check(context.Background(), tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.available, res.UpdateAvailable)
		})
	}
}

func TestCheck_ResultFields(t *testing.T) {
	res, err := newChecker(t, http.StatusOK, `{"tag_name": "v1.2.4", "html_url": "https://example.com/r"}`).
		Check(context.Background(), "v1.2.3")
	require.NoError(t, err)
	assert.Equal(t, &Result{
		CurrentVersion:  "1.2.3",
		LatestVersion:   "1.2.4",
		UpdateURL:       "https://example.com/r",
		UpdateAvailable: true,
	}, res)
}

func TestCheck_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewChecker().Check(ctx, "dev")
	assert.ErrorIs(t, err, ErrDevBuild)

	_, err = newChecker(t, http.StatusForbidden, `{}`).Check(ctx, "1.0.0")
	assert.ErrorContains(t, err, "unexpected status 403")

	_, err = newChecker(t, http.StatusOK, `{not json`).Check(ctx, "1.0.0")
	assert.ErrorContains(t, err, "decode latest release")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = newChecker(t, http.StatusOK, `{}`).Check(canceled, "1.0.0")
	assert.Error(t, err)
}
