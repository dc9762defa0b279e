package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Manage contact groups",
	}
	cmd.AddCommand(newGroupsListCmd())
	cmd.AddCommand(newGroupsCreateCmd())
	cmd.AddCommand(newGroupsRenameCmd())
	cmd.AddCommand(newGroupsDeleteCmd())
	return cmd
}

func groupRow(g *v2.Group) []string {
	kind := "manual"
	if g.Query != "" {
		kind = "smart"
	}
	return []string{g.UUID, g.Name, kind, g.Status, formatInt(g.Count)}
}

var groupHeaders = []string{"UUID", "Name", "Type", "Status", "Count"}

func newGroupsListCmd() *cobra.Command {
	var (
		name  string
		limit int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List groups",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			groups, err := fetch(cmd, client.Groups("", name), limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.GroupSchema, groups, groupHeaders, groupRow)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Exact group name")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of groups (0 for all)")
	return cmd
}

func newGroupsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if previewWrite(cmd, "POST", "groups", map[string]any{"name": args[0]}) {
				return nil
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			group, err := client.CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.GroupSchema, group, pairsFrom(groupHeaders, groupRow))
		}),
	}
}

func newGroupsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name|uuid> <new-name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			uuid, err := s.groups().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if previewWrite(cmd, "POST", "groups?uuid="+uuid, map[string]any{"name": args[1]}) {
				return nil
			}
			group, err := s.client.UpdateGroup(cmd.Context(), uuid, args[1])
			if err != nil {
				return err
			}
			s.cache.Store("groups", s.client.API().RootURL).Clear(cmd.Context())
			return writeObject(cmd, v2.GroupSchema, group, pairsFrom(groupHeaders, groupRow))
		}),
	}
}

func newGroupsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|uuid>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			uuid, err := s.groups().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if previewWrite(cmd, "DELETE", "groups?uuid="+uuid, nil) {
				return nil
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete group %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := s.client.DeleteGroup(cmd.Context(), uuid); err != nil {
				return err
			}
			s.cache.Store("groups", s.client.API().RootURL).Clear(cmd.Context())
			if isStructured(cmd) {
				return formatter(cmd).Output(map[string]any{"deleted": uuid})
			}
			printf(cmd, "Deleted group %s\n", uuid)
			return nil
		}),
	}
}
