package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowsList_HidesArchived(t *testing.T) {
	srv := setupTestEnv(t)
	seedFlows(srv)

	out := runOK(t, "flows", "list")
	assert.Contains(t, out, "Registration")
	assert.NotContains(t, out, "Survey")

	out = runOK(t, "flows", "list", "--archived")
	assert.Contains(t, out, "Survey")
}

func TestFlowsGet_ByName(t *testing.T) {
	srv := setupTestEnv(t)
	seedFlows(srv)

	out := runOK(t, "flows", "get", "registration")

	assert.Contains(t, out, "f5901b62-ba76-4003-9c62-72fdacc1b7b7")
	assert.Contains(t, out, "active=47")
	assert.Contains(t, out, "result.age")
	assert.Contains(t, out, "Child | Adult")
}

func TestFlowsGet_JSONKeepsWireKeys(t *testing.T) {
	srv := setupTestEnv(t)
	seedFlows(srv)

	obj := decodeObject(t, runOK(t, "flows", "get", "f5901b62-ba76-4003-9c62-72fdacc1b7b7", "-o", "json"))

	runs, ok := obj["runs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(123), runs["completed"])
	results, ok := obj["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "age", results[0].(map[string]any)["key"])
}

func TestFlowsDefinitions(t *testing.T) {
	srv := setupTestEnv(t)
	seedFlows(srv)
	srv.SetObject("definitions", map[string]any{
		"version":   "13",
		"flows":     []any{map[string]any{"uuid": "f5901b62-ba76-4003-9c62-72fdacc1b7b7", "name": "Registration"}},
		"campaigns": []any{},
		"triggers":  []any{},
		"fields":    []any{},
		"groups":    []any{},
	})

	obj := decodeObject(t, runOK(t, "flows", "definitions", "Registration", "--dependencies", "none"))

	assert.Equal(t, "13", obj["version"])
	req := lastRequest(t, srv, "GET", "definitions")
	assert.Equal(t, []string{"f5901b62-ba76-4003-9c62-72fdacc1b7b7"}, req.Query["flow"])
	assert.Equal(t, "none", req.Query.Get("dependencies"))
}

func TestFlowsDefinitions_BadDependencies(t *testing.T) {
	setupTestEnv(t)

	_, _, err := run(t, "flows", "definitions", "Registration", "--dependencies", "some")

	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}
