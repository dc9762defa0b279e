package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
)

func newFlowStartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flow-starts",
		Aliases: []string{"starts"},
		Short:   "List and create flow starts",
	}
	cmd.AddCommand(newFlowStartsListCmd())
	cmd.AddCommand(newFlowStartsCreateCmd())
	return cmd
}

func newFlowStartsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List flow starts",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			starts, err := fetch(cmd, client.FlowStarts(""), limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.FlowStartSchema, starts,
				[]string{"UUID", "Flow", "Status", "Groups", "Contacts", "Created"},
				func(s *v2.FlowStart) []string {
					return []string{s.UUID, refName(s.Flow), s.Status, refNames(s.Groups), fmt.Sprint(len(s.Contacts)), formatTime(s.CreatedOn)}
				})
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of flow starts (0 for all)")
	return cmd
}

func newFlowStartsCreateCmd() *cobra.Command {
	var (
		urns          []string
		contacts      []string
		groups        []string
		restart       bool
		excludeActive bool
		params        []string
	)

	cmd := &cobra.Command{
		Use:   "create <flow>",
		Short: "Start contacts in a flow",
		Example: strings.TrimSpace(`
  rapidpro flow-starts create Registration --group "New Patients" --exclude-active
  rapidpro flow-starts create Survey --urn tel:+250788123123 --param source=cli
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			urns, contacts := splitList(urns), splitList(contacts)
			groupQueries := splitList(groups)
			if len(urns)+len(contacts)+len(groupQueries) == 0 {
				return fmt.Errorf("at least one of --urn, --contact or --group is required")
			}
			extra, err := parseKeyValues(params)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			flowUUID, err := s.flows().Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var groupUUIDs []string
			if len(groupQueries) > 0 {
				if groupUUIDs, err = s.groups().ResolveAll(cmd.Context(), groupQueries); err != nil {
					return err
				}
			}

			in := v2.FlowStartInput{
				Flow:                flowUUID,
				URNs:                urns,
				RestartParticipants: changedBool(cmd, "restart", restart),
				ExcludeActive:       changedBool(cmd, "exclude-active", excludeActive),
				Params:              extra,
			}
			if len(contacts) > 0 {
				in.Contacts = contacts
			}
			if len(groupUUIDs) > 0 {
				in.Groups = groupUUIDs
			}

			payload := map[string]any{"flow": flowUUID, "urns": urns, "contacts": contacts, "groups": groupUUIDs}
			if in.RestartParticipants != nil {
				payload["restart_participants"] = *in.RestartParticipants
			}
			if in.ExcludeActive != nil {
				payload["exclude_active"] = *in.ExcludeActive
			}
			if extra != nil {
				payload["params"] = extra
			}
			if previewWrite(cmd, "POST", "flow_starts", payload) {
				return nil
			}

			start, err := s.client.CreateFlowStart(cmd.Context(), in)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return writeObject(cmd, v2.FlowStartSchema, start, nil)
			}
			printf(cmd, "Started flow %s (%s)\n", refName(start.Flow), start.Status)
			printf(cmd, "  Start: %s\n", start.UUID)
			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&urns, "urn", nil, "URN to start (repeatable)")
	cmd.Flags().StringSliceVar(&contacts, "contact", nil, "Contact UUID to start (repeatable)")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group name or UUID to start (repeatable)")
	cmd.Flags().BoolVar(&restart, "restart", false, "Restart contacts who already ran the flow")
	cmd.Flags().BoolVar(&excludeActive, "exclude-active", false, "Skip contacts active in another flow")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Extra value as key=value, available as @trigger.params (repeatable)")
	return cmd
}
