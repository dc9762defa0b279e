package cmd

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidpro/rapidpro-cli/internal/store"
)

func TestExport_JSONLToStdout(t *testing.T) {
	srv := setupTestEnv(t)
	seedContacts(srv)
	seedGroups(srv)
	t.Chdir(t.TempDir())

	out, errOut, err := run(t, "export", "contacts", "groups")
	require.NoError(t, err, errOut)

	lines := decodeLines(t, out)
	require.Len(t, lines, 6)
	counts := map[string]int{}
	for _, l := range lines {
		counts[l["resource"].(string)]++
		assert.NotNil(t, l["item"])
	}
	assert.Equal(t, map[string]int{"contacts": 3, "groups": 3}, counts)
	assert.Contains(t, errOut, "contacts: 3 records")

	_, statErr := os.Stat(defaultExportDB)
	assert.True(t, os.IsNotExist(statErr), "jsonl export without --db must not create a database")
}

func TestExport_SQLite(t *testing.T) {
	srv := setupTestEnv(t)
	seedContacts(srv)
	db := filepath.Join(t.TempDir(), "org.db")

	out := runOK(t, "export", "contacts", "--sink", "sqlite", "--db", db)
	assert.Contains(t, out, "contacts")

	st, err := store.Open(context.Background(), db)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	n, err := st.Count(context.Background(), "contacts")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	item, err := st.Item(context.Background(), "contacts", "7e4b2f51-8a8b-4d56-9c8f-1f2a0f5d2c11")
	require.NoError(t, err)
	assert.Equal(t, "Ryan Lewis", item["name"])

	cursor, err := st.Cursor(context.Background(), "contacts")
	require.NoError(t, err)
	assert.Empty(t, cursor, "a finished export clears its checkpoint")
}

func TestExport_ResumeFromCheckpoint(t *testing.T) {
	srv := setupTestEnv(t)
	seedContacts(srv)
	db := filepath.Join(t.TempDir(), "org.db")

	st, err := store.Open(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, st.SaveCursor(context.Background(), "contacts", base64.StdEncoding.EncodeToString([]byte("o=2"))))
	require.NoError(t, st.Close())

	out := runOK(t, "export", "contacts", "--sink", "sqlite", "--db", db, "--resume", "-o", "json")

	summaries := decodeList(t, out)
	require.Len(t, summaries, 1)
	assert.Equal(t, float64(1), summaries[0]["records"])
	assert.Equal(t, true, summaries[0]["resumed"])

	req := lastRequest(t, srv, "GET", "contacts")
	assert.Equal(t, "o=2", decodeCursorParam(t, req.Query.Get("cursor")))
}

func TestExport_All(t *testing.T) {
	srv := setupTestEnv(t)
	for _, name := range exportResourceNames() {
		srv.Seed(name)
	}
	seedGroups(srv)

	out, errOut, err := run(t, "export", "--all")
	require.NoError(t, err, errOut)

	assert.Len(t, decodeLines(t, out), 3)
	for _, name := range exportResourceNames() {
		assert.Contains(t, errOut, name+":")
	}
}

func TestExport_Validation(t *testing.T) {
	setupTestEnv(t)

	_, _, err := run(t, "export")
	require.Error(t, err)

	_, errOut, err := run(t, "export", "tickets", "-o", "json")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, errOut, "contacts")

	_, _, err = run(t, "export", "contacts", "--sink", "kafka")
	require.Error(t, err)

	_, errOut, err = run(t, "export", "contacts", "--sink", "nats")
	require.Error(t, err)
	assert.Contains(t, errOut, "--nats-url")
}

func TestExport_FailedResourceReported(t *testing.T) {
	srv := setupTestEnv(t)
	seedGroups(srv)
	t.Chdir(t.TempDir())

	// labels is not seeded, so the fake API answers 404.
	out, errOut, err := run(t, "export", "groups", "labels")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "labels")
	assert.Len(t, decodeLines(t, out), 3)
	assert.Contains(t, errOut, "groups: 3 records")
}

func decodeCursorParam(t *testing.T, cursor string) string {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(cursor)
	require.NoError(t, err)
	return string(data)
}
