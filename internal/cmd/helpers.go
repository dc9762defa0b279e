package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/dryrun"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
	"github.com/rapidpro/rapidpro-cli/internal/outfmt"
)

// errAlreadyHandled marks errors that RunE already printed, so Execute does
// not print them a second time.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with error rendering: a StructuredError
// document on stderr in structured modes, suggestions otherwise.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		ioStreams := iocontext.GetIO(cmd.Context())
		if isStructured(cmd) {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = outfmt.WriteJSON(ioStreams.ErrOut, structured, outfmt.IsCompact(cmd.Context()))
			}
		} else {
			_, _ = fmt.Fprint(ioStreams.ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func isStructured(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

func formatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printf writes human-oriented text to stdout.
func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, format, args...)
}

// serializeAll converts API objects to wire-keyed maps for structured output.
func serializeAll[T any](schema *api.Schema[T], items []*T) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		m, err := schema.Serialize(it)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// writeList renders items as structured output or as a table.
func writeList[T any](cmd *cobra.Command, schema *api.Schema[T], items []*T, headers []string, row func(*T) []string) error {
	f := formatter(cmd)
	if f.Structured() {
		data, err := serializeAll(schema, items)
		if err != nil {
			return err
		}
		return f.Output(data)
	}
	if len(items) == 0 {
		f.Empty("No results")
		return nil
	}
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = row(it)
	}
	return f.Table(headers, rows)
}

// writeObject renders one object as structured output or a property table.
func writeObject[T any](cmd *cobra.Command, schema *api.Schema[T], item *T, pairs func(*T) [][2]string) error {
	f := formatter(cmd)
	if f.Structured() {
		data, err := schema.Serialize(item)
		if err != nil {
			return err
		}
		return f.Output(data)
	}
	return f.KeyValues(pairs(item))
}

// fetch reads up to limit items from q, all of them when limit is 0.
func fetch[T any](cmd *cobra.Command, q *api.Query[T], limit int) ([]*T, error) {
	if limit <= 0 {
		return q.All(cmd.Context(), flags.Retry)
	}
	var out []*T
	it := q.IterFetches(flags.Retry, "")
	for batch, err := range it.Batches(cmd.Context()) {
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(out) >= limit {
			return out[:limit], nil
		}
	}
	return out, nil
}

// previewWrite prints a dry-run preview and reports whether the caller should stop.
func previewWrite(cmd *cobra.Command, method, endpoint string, payload map[string]any) bool {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false
	}
	p := &dryrun.Preview{Method: method, Endpoint: endpoint, Payload: payload}
	p.Write(iocontext.GetIO(cmd.Context()).Out)
	return true
}

// confirm asks a yes/no question on stdin unless --yes is set. Structured
// output modes never prompt.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	if flags.Yes {
		return true, nil
	}
	if isStructured(cmd) {
		return false, fmt.Errorf("--yes is required when using --output %s", outfmt.ModeFromContext(cmd.Context()))
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.ErrOut, "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(ioStreams.In).ReadString('\n')
	if err != nil && response == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		_, _ = fmt.Fprintln(ioStreams.ErrOut, "Cancelled.")
		return false, nil
	}
}

// splitList splits comma separated flag values and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseKeyValues turns key=value pairs into a map.
func parseKeyValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid argument %q: must be key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func refName(r *v2.ObjectRef) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func refNames(refs []*v2.ObjectRef) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}

// sortedKeys is used for stable rendering of field maps.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// changedBool returns &v when the flag was given, nil otherwise.
func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// outputStructured writes data as JSON when text output is selected, for
// documents that have no tabular form.
func outputStructured(cmd *cobra.Command, data any) error {
	ctx := cmd.Context()
	if !outfmt.IsStructured(ctx) {
		ctx = outfmt.WithMode(ctx, outfmt.JSON)
	}
	ioStreams := iocontext.GetIO(ctx)
	return outfmt.NewFormatter(ctx, ioStreams.Out, ioStreams.ErrOut).Output(data)
}

// optional maps "" to nil so the parameter is left out of the request.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// pairsFrom reuses a table row as a property listing.
func pairsFrom[T any](headers []string, row func(*T) []string) func(*T) [][2]string {
	return func(t *T) [][2]string {
		values := row(t)
		pairs := make([][2]string, len(headers))
		for i, h := range headers {
			pairs[i] = [2]string{h, values[i]}
		}
		return pairs
	}
}
