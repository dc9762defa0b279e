package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v1"
)

func newResultsCmd() *cobra.Command {
	var (
		ruleset      string
		contactField string
		segment      []string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Summarise flow results (API v1)",
		Long: strings.TrimSpace(`
Summarise the categories of a ruleset or the values of a contact field.

This uses the version 1 endpoint and works against servers that still serve
/api/v1. Segments split the summary, for example --segment location=State.
`),
		Example: strings.TrimSpace(`
  rapidpro results --ruleset 4b2d5fc8-8d0a-4c8a-9f1c-0c1f5a8f7e33
  rapidpro results --contact-field Gender --segment location=State
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if (ruleset == "") == (contactField == "") {
				return fmt.Errorf("exactly one of --ruleset or --contact-field is required")
			}
			seg, err := parseKeyValues(segment)
			if err != nil {
				return err
			}
			f, err := newClientFactory(cmd)
			if err != nil {
				return err
			}
			client, err := f.v1()
			if err != nil {
				return err
			}
			results, err := client.Results(cmd.Context(), optional(ruleset), contactField, seg)
			if err != nil {
				return err
			}
			return writeList(cmd, v1.ResultSchema, results,
				[]string{"Label", "Set", "Unset", "Categories"},
				func(r *v1.Result) []string {
					return []string{r.Label, formatInt(r.Set), formatInt(r.Unset), resultCategories(r)}
				})
		}),
	}

	cmd.Flags().StringVar(&ruleset, "ruleset", "", "Ruleset UUID")
	cmd.Flags().StringVar(&contactField, "contact-field", "", "Contact field label")
	cmd.Flags().StringArrayVar(&segment, "segment", nil, "Segment as key=value (repeatable)")
	return cmd
}

func resultCategories(r *v1.Result) string {
	parts := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		parts = append(parts, fmt.Sprintf("%s: %s", c.Label, formatInt(c.Count)))
	}
	return strings.Join(parts, ", ")
}
