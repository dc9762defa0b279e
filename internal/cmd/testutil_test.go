package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rapidpro/rapidpro-cli/internal/apitest"
)

// setupTestEnv points the CLI at a fresh fake API with an isolated settings
// file and no lookup cache.
func setupTestEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)
	t.Setenv("RAPIDPRO_HOST", srv.RootURL())
	t.Setenv("RAPIDPRO_TOKEN", apitest.DefaultToken)
	t.Setenv("RAPIDPRO_API_VERSION", "")
	t.Setenv("RAPIDPRO_PROFILE", "")
	t.Setenv("RAPIDPRO_NO_CACHE", "1")
	t.Setenv("RAPIDPRO_CACHE_BACKEND", "none")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return srv
}

// run executes the CLI with args, capturing stdout and stderr.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	settings := filepath.Join(t.TempDir(), "config.yaml")
	args = append([]string{"--config", settings}, args...)
	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			err = Execute(context.Background(), args)
		})
	})
	return stdout, stderr, err
}

// runOK is run that fails the test on error.
func runOK(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

func capture(t *testing.T, target **os.File, fn func()) string {
	t.Helper()
	old := *target
	r, w, err := os.Pipe()
	require.NoError(t, err)
	*target = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() { *target = old }()
	fn()
	_ = w.Close()
	*target = old
	return <-done
}

func decodeList(t *testing.T, out string) []map[string]any {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items), "output: %s", out)
	return items
}

func decodeObject(t *testing.T, out string) map[string]any {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &obj), "output: %s", out)
	return obj
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		lines = append(lines, m)
	}
	return lines
}

// lastRequest returns the most recent request to endpoint.
func lastRequest(t *testing.T, srv *apitest.Server, method, endpoint string) apitest.Recorded {
	t.Helper()
	reqs := srv.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Endpoint == endpoint {
			return reqs[i]
		}
	}
	t.Fatalf("no %s request to %s", method, endpoint)
	return apitest.Recorded{}
}

func seedGroups(srv *apitest.Server) {
	srv.Seed("groups",
		map[string]any{"uuid": "5f05311e-8f81-4a67-a5b5-1501b6d6496a", "name": "Doctors", "query": nil, "status": "ready", "system": false, "count": 315},
		map[string]any{"uuid": "04a4752b-0f49-480e-ae60-3a3f2bea485c", "name": "Nurses", "query": nil, "status": "ready", "system": false, "count": 12},
		map[string]any{"uuid": "a2fb3bcf-31e8-4d5a-8a36-c1a2d6f0b1d0", "name": "Patients", "query": "age > 18", "status": "ready", "system": false, "count": 2048},
	)
}

func seedContacts(srv *apitest.Server) {
	srv.Seed("contacts",
		map[string]any{
			"uuid": "09d23a05-47fe-11e4-bfe9-b8f6b119e9ab", "name": "Ben Haggerty", "language": "eng",
			"urns": []any{"tel:+250788123123"}, "status": "active",
			"groups": []any{map[string]any{"uuid": "5f05311e-8f81-4a67-a5b5-1501b6d6496a", "name": "Doctors"}},
			"flow":   map[string]any{"uuid": "f5901b62-ba76-4003-9c62-72fdacc1b7b7", "name": "Registration"},
			"fields": map[string]any{"nickname": "Macklemore"},
			"created_on": "2015-11-11T13:05:57.457742Z", "modified_on": "2020-08-11T13:05:57.576056Z",
			"last_seen_on": "2020-08-10T09:12:00.000000Z",
		},
		map[string]any{
			"uuid": "7e4b2f51-8a8b-4d56-9c8f-1f2a0f5d2c11", "name": "Ryan Lewis", "language": nil,
			"urns": []any{"tel:+250788123124"}, "status": "active", "groups": []any{},
			"flow": nil, "fields": map[string]any{},
			"created_on": "2016-01-01T09:00:00.000000Z", "modified_on": "2020-09-01T09:00:00.000000Z",
			"last_seen_on": nil,
		},
		map[string]any{
			"uuid": "c1d3d8a0-3a5b-4a4d-a3a8-2f6f9b7b4e22", "name": "Wanz", "language": "fra",
			"urns": []any{"twitter:wanz"}, "status": "blocked", "groups": []any{},
			"flow": nil, "fields": map[string]any{},
			"created_on": "2017-03-03T10:00:00.000000Z", "modified_on": "2021-02-02T10:00:00.000000Z",
			"last_seen_on": nil,
		},
	)
}

func seedFlows(srv *apitest.Server) {
	srv.Seed("flows",
		map[string]any{
			"uuid": "f5901b62-ba76-4003-9c62-72fdacc1b7b7", "name": "Registration", "type": "message",
			"archived": false, "labels": []any{}, "expires": 600,
			"runs":       map[string]any{"active": 47, "waiting": 0, "completed": 123, "interrupted": 2, "expired": 34, "failed": 0},
			"results":    []any{map[string]any{"key": "age", "name": "Age", "categories": []any{"Child", "Adult"}, "node_uuids": []any{"0e1c2b2c-7c1a-4b1e-8c1a-2d3e4f5a6b7c"}}},
			"created_on": "2016-01-06T15:33:00.813162Z",
		},
		map[string]any{
			"uuid": "9de3663f-c5c5-4c92-9f45-ecbc09abcc85", "name": "Survey", "type": "message",
			"archived": true, "labels": []any{}, "expires": 720,
			"runs":       map[string]any{"active": 0, "waiting": 0, "completed": 5, "interrupted": 0, "expired": 0, "failed": 0},
			"results":    []any{},
			"created_on": "2017-02-06T15:33:00.813162Z",
		},
	)
}
