package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newGlobalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "globals",
		Aliases: []string{"global"},
		Short:   "Manage workspace globals",
	}
	cmd.AddCommand(newGlobalsListCmd())
	cmd.AddCommand(newGlobalsSetCmd())
	return cmd
}

func newGlobalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List globals",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			globals, err := client.Globals().All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.GlobalSchema, globals,
				[]string{"Key", "Name", "Value", "Modified"},
				func(g *v2.Global) []string {
					return []string{g.Key, g.Name, truncate(g.Value, 60), formatTime(g.ModifiedOn)}
				})
		}),
	}
}

func newGlobalsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key|name> <value>",
		Short: "Set a global, creating it when no global matches",
		Example: strings.TrimSpace(`
  rapidpro globals set org_name "Acme Health"
  rapidpro globals set "Support Email" help@example.com
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			globals, err := client.Globals().All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			existing := findGlobal(globals, args[0])

			var global *v2.Global
			if existing != nil {
				if previewWrite(cmd, "POST", "globals?key="+existing.Key, map[string]any{"value": args[1]}) {
					return nil
				}
				global, err = client.UpdateGlobal(cmd.Context(), existing.Key, args[1])
			} else {
				if previewWrite(cmd, "POST", "globals", map[string]any{"name": args[0], "value": args[1]}) {
					return nil
				}
				global, err = client.CreateGlobal(cmd.Context(), args[0], args[1])
			}
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return writeObject(cmd, v2.GlobalSchema, global, nil)
			}
			verb := "Created"
			if existing != nil {
				verb = "Updated"
			}
			printf(cmd, "%s global %s = %s\n", verb, global.Key, global.Value)
			return nil
		}),
	}
}

// findGlobal matches by key first, then case-insensitively by name.
func findGlobal(globals []*v2.Global, query string) *v2.Global {
	for _, g := range globals {
		if g.Key == query {
			return g
		}
	}
	for _, g := range globals {
		if strings.EqualFold(g.Name, query) {
			return g
		}
	}
	return nil
}

