package outfmt

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Formatter writes command results in the mode carried by ctx.
type Formatter struct {
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
}

func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{ctx: ctx, out: out, errOut: errOut}
}

// Structured reports whether Output should be used instead of a table.
func (f *Formatter) Structured() bool {
	return IsStructured(f.ctx)
}

// Output writes data in the structured mode, after applying any jq query.
func (f *Formatter) Output(data any) error {
	filtered, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return err
	}
	switch ModeFromContext(f.ctx) {
	case JSONL:
		return WriteJSONL(f.out, filtered)
	case YAML:
		return WriteYAML(f.out, filtered)
	default:
		return WriteJSON(f.out, filtered, IsCompact(f.ctx))
	}
}

// Table renders rows under headers.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(f.out)
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	table.Header(hdr...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// KeyValues renders a two-column property table.
func (f *Formatter) KeyValues(pairs [][2]string) error {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p[0], p[1]}
	}
	return f.Table([]string{"Property", "Value"}, rows)
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
