package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"json", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"yaml", YAML, false},
		{"yml", YAML, false},
		{"invalid", Text, true},
		{"JSON", Text, true}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.expectError && mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsStructured(ctx) {
		t.Error("default mode should be unstructured text")
	}
	if !IsStructured(WithMode(ctx, YAML)) {
		t.Error("YAML should be structured")
	}
	if GetQuery(WithQuery(ctx, ".name")) != ".name" {
		t.Error("GetQuery should return the query set with WithQuery")
	}
	if !IsCompact(WithCompact(ctx, true)) {
		t.Error("IsCompact should be true")
	}
}

func TestFormatter_JSONWithQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(WithMode(context.Background(), JSON), "[.[].name]")
	f := NewFormatter(ctx, &buf, &buf)

	data := []map[string]any{{"name": "Doctors"}, {"name": "Nurses"}}
	if err := f.Output(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Join(strings.Fields(buf.String()), "")
	if got != `["Doctors","Nurses"]` {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestFormatter_InvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(WithMode(context.Background(), JSON), "invalid[[[")
	if err := NewFormatter(ctx, &buf, &buf).Output(map[string]any{}); err == nil {
		t.Error("expected error for invalid query")
	}
}

func TestFormatter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithMode(context.Background(), JSONL)
	f := NewFormatter(ctx, &buf, &buf)

	if err := f.Output([]map[string]any{{"uuid": "a"}, {"uuid": "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != `{"uuid":"a"}` {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithMode(context.Background(), YAML)
	f := NewFormatter(ctx, &buf, &buf)

	if err := f.Output(map[string]any{"name": "Doctors", "count": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: Doctors") || !strings.Contains(out, "count: 3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(context.Background(), &buf, &buf)

	if err := f.Table([]string{"UUID", "Name"}, [][]string{{"g1", "Doctors"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "UUID") || !strings.Contains(out, "Doctors") {
		t.Errorf("output should contain the table: %q", out)
	}
}

func TestFormatter_Empty(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewFormatter(context.Background(), &out, &errOut)

	f.Empty("No results found")
	if !strings.Contains(errOut.String(), "No results found") || out.Len() != 0 {
		t.Error("empty message should be written to stderr")
	}
}

func TestGeneric_PassesThroughPlainValues(t *testing.T) {
	m := map[string]any{"a": 1}
	got, err := Generic(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.(map[string]any)["a"] != 1 {
		t.Error("plain maps should be returned unchanged")
	}

	got, err = Generic(struct {
		Name string `json:"name"`
	}{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if got.(map[string]any)["name"] != "x" {
		t.Errorf("unexpected value: %#v", got)
	}
}
