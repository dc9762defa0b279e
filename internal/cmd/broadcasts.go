package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/cli"
)

func newBroadcastsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "broadcasts",
		Aliases: []string{"broadcast", "bc"},
		Short:   "List and send broadcasts",
	}
	cmd.AddCommand(newBroadcastsListCmd())
	cmd.AddCommand(newBroadcastsSendCmd())
	return cmd
}

func newBroadcastsListCmd() *cobra.Command {
	var (
		after  cli.TimeValue
		before cli.TimeValue
		limit  int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List broadcasts",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			q := client.Broadcasts(v2.BroadcastFilter{Before: before.Time, After: after.Time})
			broadcasts, err := fetch(cmd, q, limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.BroadcastSchema, broadcasts,
				[]string{"ID", "Status", "Recipients", "Text", "Created"},
				func(b *v2.Broadcast) []string {
					return []string{formatInt(b.ID), b.Status, broadcastRecipients(b), truncate(b.Text, 50), formatTime(b.CreatedOn)}
				})
		}),
	}
	cmd.Flags().Var(&after, "after", "Created after")
	cmd.Flags().Var(&before, "before", "Created before")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of broadcasts (0 for all)")
	return cmd
}

func broadcastRecipients(b *v2.Broadcast) string {
	var parts []string
	if n := len(b.URNs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d urns", n))
	}
	if n := len(b.Contacts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d contacts", n))
	}
	if len(b.Groups) > 0 {
		parts = append(parts, refNames(b.Groups))
	}
	return strings.Join(parts, ", ")
}

func newBroadcastsSendCmd() *cobra.Command {
	var (
		text     string
		urns     []string
		contacts []string
		groups   []string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to URNs, contacts and groups",
		Example: strings.TrimSpace(`
  rapidpro broadcasts send --text "Clinic closed Friday" --group Patients
  rapidpro broadcasts send --text hello --urn tel:+250788123123,tel:+250788123124
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required")
			}
			urns, contacts := splitList(urns), splitList(contacts)
			groupQueries := splitList(groups)
			if len(urns)+len(contacts)+len(groupQueries) == 0 {
				return fmt.Errorf("at least one of --urn, --contact or --group is required")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var groupUUIDs []string
			if len(groupQueries) > 0 {
				if groupUUIDs, err = s.groups().ResolveAll(cmd.Context(), groupQueries); err != nil {
					return err
				}
			}
			in := v2.BroadcastInput{Text: text, URNs: urns}
			if len(contacts) > 0 {
				in.Contacts = contacts
			}
			if len(groupUUIDs) > 0 {
				in.Groups = groupUUIDs
			}
			if previewWrite(cmd, "POST", "broadcasts", map[string]any{
				"text": text, "urns": urns, "contacts": contacts, "groups": groupUUIDs,
			}) {
				return nil
			}
			b, err := s.client.CreateBroadcast(cmd.Context(), in)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return writeObject(cmd, v2.BroadcastSchema, b, nil)
			}
			printf(cmd, "Broadcast %s queued (%s)\n", formatInt(b.ID), broadcastRecipients(b))
			return nil
		}),
	}

	cmd.Flags().StringVar(&text, "text", "", "Message text")
	cmd.Flags().StringSliceVar(&urns, "urn", nil, "Recipient URN (repeatable)")
	cmd.Flags().StringSliceVar(&contacts, "contact", nil, "Recipient contact UUID (repeatable)")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Recipient group name or UUID (repeatable)")
	return cmd
}
