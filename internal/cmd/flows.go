package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newFlowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flows",
		Aliases: []string{"flow"},
		Short:   "Inspect flows",
	}
	cmd.AddCommand(newFlowsListCmd())
	cmd.AddCommand(newFlowsGetCmd())
	cmd.AddCommand(newFlowsDefinitionsCmd())
	return cmd
}

func newFlowsListCmd() *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List flows",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			flows, err := client.Flows("").All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			if !archived {
				kept := flows[:0]
				for _, f := range flows {
					if f.Archived == nil || !*f.Archived {
						kept = append(kept, f)
					}
				}
				flows = kept
			}
			return writeList(cmd, v2.FlowSchema, flows,
				[]string{"UUID", "Name", "Type", "Active", "Completed", "Created"},
				func(f *v2.Flow) []string {
					var active, completed *int
					if f.Runs != nil {
						active, completed = f.Runs.Active, f.Runs.Completed
					}
					return []string{f.UUID, f.Name, f.Type, formatInt(active), formatInt(completed), formatTime(f.CreatedOn)}
				})
		}),
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived flows")
	return cmd
}

func newFlowsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name|uuid>",
		Short: "Show a flow with its run counts and result keys",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			uuid, err := s.flows().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			flow, err := s.client.Flows(uuid).Get(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.FlowSchema, flow, flowPairs)
		}),
	}
}

func flowPairs(f *v2.Flow) [][2]string {
	pairs := [][2]string{
		{"UUID", f.UUID},
		{"Name", f.Name},
		{"Type", f.Type},
		{"Archived", formatBool(f.Archived)},
		{"Labels", refNames(f.Labels)},
		{"Expires (min)", formatInt(f.Expires)},
		{"Created", formatTime(f.CreatedOn)},
	}
	if r := f.Runs; r != nil {
		pairs = append(pairs, [2]string{"Runs", fmt.Sprintf("active=%s waiting=%s completed=%s interrupted=%s expired=%s failed=%s",
			formatInt(r.Active), formatInt(r.Waiting), formatInt(r.Completed),
			formatInt(r.Interrupted), formatInt(r.Expired), formatInt(r.Failed))})
	}
	for _, res := range f.Results {
		pairs = append(pairs, [2]string{"result." + res.Key, strings.Join(res.Categories, " | ")})
	}
	return pairs
}

func newFlowsDefinitionsCmd() *cobra.Command {
	var (
		campaigns    []string
		dependencies string
	)
	cmd := &cobra.Command{
		Use:   "definitions <name|uuid>...",
		Short: "Export flow and campaign definitions as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			switch dependencies {
			case "", "none", "flows", "all":
			default:
				return fmt.Errorf("--dependencies must be none, flows or all")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			flowUUIDs, err := s.flows().ResolveAll(cmd.Context(), splitList(args))
			if err != nil {
				return err
			}
			export, err := s.client.Definitions(cmd.Context(), flowUUIDs, splitList(campaigns), dependencies)
			if err != nil {
				return err
			}
			data, err := v2.ExportSchema.Serialize(export)
			if err != nil {
				return err
			}
			return outputStructured(cmd, data)
		}),
	}
	cmd.Flags().StringSliceVar(&campaigns, "campaign", nil, "Campaign UUID to include (repeatable)")
	cmd.Flags().StringVar(&dependencies, "dependencies", "", "Include dependencies: none, flows or all")
	return cmd
}
