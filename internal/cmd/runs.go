package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/cli"
)

func newRunsCmd() *cobra.Command {
	var (
		flow      string
		contact   string
		responded bool
		paths     bool
		after     cli.TimeValue
		before    cli.TimeValue
		limit     int
	)

	cmd := &cobra.Command{
		Use:     "runs",
		Aliases: []string{"run"},
		Short:   "List flow runs",
		Example: strings.TrimSpace(`
  rapidpro runs --flow Registration --responded --limit 20
  rapidpro runs --contact 5079cb96-a1d8-4f47-8c87-d8c7bb6ddab9 -o jsonl
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			flowUUID, err := resolveOptional(cmd.Context(), s.flows(), flow)
			if err != nil {
				return err
			}
			q := s.client.Runs(v2.RunFilter{
				Flow:      optional(flowUUID),
				Contact:   optional(contact),
				Responded: changedBool(cmd, "responded", responded),
				Paths:     changedBool(cmd, "paths", paths),
				Before:    before.Time,
				After:     after.Time,
			})
			runs, err := fetch(cmd, q, limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.RunSchema, runs,
				[]string{"UUID", "Flow", "Contact", "Responded", "Exit", "Values", "Modified"},
				func(r *v2.Run) []string {
					return []string{
						r.UUID, refName(r.Flow), refName(r.Contact), formatBool(r.Responded),
						r.ExitType, runValues(r), formatTime(r.ModifiedOn),
					}
				})
		}),
	}

	cmd.Flags().StringVar(&flow, "flow", "", "Flow name or UUID")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact UUID")
	cmd.Flags().BoolVar(&responded, "responded", false, "Only runs where the contact responded")
	cmd.Flags().BoolVar(&paths, "paths", false, "Include the node path of each run")
	cmd.Flags().Var(&after, "after", "Modified after")
	cmd.Flags().Var(&before, "before", "Modified before")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of runs (0 for all)")
	return cmd
}

// runValues renders result values as key=category pairs.
func runValues(r *v2.Run) string {
	parts := make([]string, 0, len(r.Values))
	for _, k := range sortedKeys(r.Values) {
		v := r.Values[k]
		if v == nil {
			continue
		}
		shown := v.Category
		if shown == "" {
			shown = fmt.Sprint(v.Value)
		}
		parts = append(parts, k+"="+shown)
	}
	return truncate(strings.Join(parts, " "), 60)
}
