package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "labels",
		Aliases: []string{"label"},
		Short:   "Manage message labels",
	}
	cmd.AddCommand(newLabelsListCmd())
	cmd.AddCommand(newLabelsCreateCmd())
	cmd.AddCommand(newLabelsRenameCmd())
	cmd.AddCommand(newLabelsDeleteCmd())
	return cmd
}

var labelHeaders = []string{"UUID", "Name", "Messages"}

func labelRow(l *v2.Label) []string {
	return []string{l.UUID, l.Name, formatInt(l.Count)}
}

func newLabelsListCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List labels",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			labels, err := client.Labels("", name).All(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.LabelSchema, labels, labelHeaders, labelRow)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Exact label name")
	return cmd
}

func newLabelsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if previewWrite(cmd, "POST", "labels", map[string]any{"name": args[0]}) {
				return nil
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			label, err := client.CreateLabel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.LabelSchema, label, pairsFrom(labelHeaders, labelRow))
		}),
	}
}

func newLabelsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name|uuid> <new-name>",
		Short: "Rename a label",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			uuid, err := s.labels().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if previewWrite(cmd, "POST", "labels?uuid="+uuid, map[string]any{"name": args[1]}) {
				return nil
			}
			label, err := s.client.UpdateLabel(cmd.Context(), uuid, args[1])
			if err != nil {
				return err
			}
			s.cache.Store("labels", s.client.API().RootURL).Clear(cmd.Context())
			return writeObject(cmd, v2.LabelSchema, label, pairsFrom(labelHeaders, labelRow))
		}),
	}
}

func newLabelsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|uuid>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			uuid, err := s.labels().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if previewWrite(cmd, "DELETE", "labels?uuid="+uuid, nil) {
				return nil
			}
			if ok, err := confirm(cmd, fmt.Sprintf("Delete label %s?", args[0])); err != nil || !ok {
				return err
			}
			if err := s.client.DeleteLabel(cmd.Context(), uuid); err != nil {
				return err
			}
			s.cache.Store("labels", s.client.API().RootURL).Clear(cmd.Context())
			printf(cmd, "Deleted label %s\n", uuid)
			return nil
		}),
	}
}
