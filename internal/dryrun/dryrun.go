// Package dryrun previews mutations without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type contextKey struct{}

func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview describes a request that would have been sent.
type Preview struct {
	Method   string         `json:"method"`
	Endpoint string         `json:"endpoint"`
	Params   map[string]any `json:"params,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Write renders the preview for humans. Keys are sorted.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s %s\n", p.Method, p.Endpoint)
	writeSection(w, "params", p.Params)
	writeSection(w, "payload", p.Payload)
	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

func writeSection(w io.Writer, title string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	_, _ = fmt.Fprintf(w, "  %s:\n", title)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "    %s: %v\n", k, values[k])
	}
}
