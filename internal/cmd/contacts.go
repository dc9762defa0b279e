package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/cli"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact", "c"},
		Short:   "Manage contacts",
		Long:    "Contacts are identified by UUID or by URN (tel:+250788123123, twitter:bob).",
	}
	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsGetCmd())
	cmd.AddCommand(newContactsCreateCmd())
	cmd.AddCommand(newContactsUpdateCmd())
	cmd.AddCommand(newContactsDeleteCmd())
	cmd.AddCommand(newContactsActionCmd("block", "Block contacts", v2.ContactBlock))
	cmd.AddCommand(newContactsActionCmd("unblock", "Unblock contacts", v2.ContactUnblock))
	cmd.AddCommand(newContactsActionCmd("interrupt", "End the active flow runs of contacts", v2.ContactInterrupt))
	cmd.AddCommand(newContactsActionCmd("archive-messages", "Archive all messages of contacts", v2.ContactArchiveMessages))
	cmd.AddCommand(newContactsGroupActionCmd("add", "Add contacts to a group", v2.ContactAdd))
	cmd.AddCommand(newContactsGroupActionCmd("remove", "Remove contacts from a group", v2.ContactRemove))
	return cmd
}

func isURN(s string) bool {
	return strings.Contains(s, ":")
}

func contactFilterFor(id string) v2.ContactFilter {
	if isURN(id) {
		return v2.ContactFilter{URN: id}
	}
	return v2.ContactFilter{UUID: id}
}

func contactRows(c *v2.Contact) []string {
	return []string{c.UUID, c.Name, strings.Join(c.URNs, ", "), c.Status, refNames(c.Groups), formatTime(c.ModifiedOn)}
}

var contactHeaders = []string{"UUID", "Name", "URNs", "Status", "Groups", "Modified"}

func contactPairs(c *v2.Contact) [][2]string {
	pairs := [][2]string{
		{"UUID", c.UUID},
		{"Name", c.Name},
		{"Status", c.Status},
		{"Language", c.Language},
		{"URNs", strings.Join(c.URNs, ", ")},
		{"Groups", refNames(c.Groups)},
	}
	if c.Flow != nil {
		pairs = append(pairs, [2]string{"Flow", c.Flow.Name})
	}
	for _, k := range sortedKeys(c.Fields) {
		if v := c.Fields[k]; v != nil {
			pairs = append(pairs, [2]string{"fields." + k, fmt.Sprint(v)})
		}
	}
	return append(pairs,
		[2]string{"Created", formatTime(c.CreatedOn)},
		[2]string{"Last seen", formatTime(c.LastSeenOn)},
	)
}

func newContactsListCmd() *cobra.Command {
	var (
		group   string
		urn     string
		deleted bool
		reverse bool
		after   cli.TimeValue
		before  cli.TimeValue
		limit   int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contacts",
		Example: strings.TrimSpace(`
  rapidpro contacts list --group Doctors
  rapidpro contacts list --after "2d ago" --limit 50 -o json
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			groupUUID, err := resolveOptional(cmd.Context(), s.groups(), group)
			if err != nil {
				return err
			}
			q := s.client.Contacts(v2.ContactFilter{
				URN:     urn,
				Group:   optional(groupUUID),
				Deleted: changedBool(cmd, "deleted", deleted),
				Before:  before.Time,
				After:   after.Time,
				Reverse: changedBool(cmd, "reverse", reverse),
			})
			contacts, err := fetch(cmd, q, limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.ContactSchema, contacts, contactHeaders, contactRows)
		}),
	}

	cmd.Flags().StringVar(&group, "group", "", "Group name or UUID")
	cmd.Flags().StringVar(&urn, "urn", "", "Only the contact with this URN")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "List deleted contacts")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Oldest modified first")
	cmd.Flags().Var(&after, "after", "Modified after (e.g. 2d ago, yesterday, 2024-01-31)")
	cmd.Flags().Var(&before, "before", "Modified before")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of contacts (0 for all)")
	return cmd
}

func newContactsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <uuid|urn>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			contact, err := client.Contacts(contactFilterFor(args[0])).Get(cmd.Context(), flags.Retry)
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.ContactSchema, contact, contactPairs)
		}),
	}
}

type contactFlags struct {
	name     string
	language string
	urns     []string
	fields   []string
	groups   []string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.language, "language", "", "ISO 639-3 language code")
	cmd.Flags().StringSliceVar(&f.urns, "urn", nil, "URN (repeatable), replaces existing URNs on update")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "Field value as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&f.groups, "group", nil, "Group name or UUID (repeatable), replaces existing groups on update")
}

func (f *contactFlags) input(ctx context.Context, cmd *cobra.Command, s *session) (v2.ContactInput, error) {
	in := v2.ContactInput{Name: f.name, Language: f.language, URNs: splitList(f.urns)}
	fields, err := parseKeyValues(f.fields)
	if err != nil {
		return in, err
	}
	in.Fields = fields
	if cmd.Flags().Changed("group") {
		groups, err := s.groups().ResolveAll(ctx, splitList(f.groups))
		if err != nil {
			return in, err
		}
		in.Groups = groups
	}
	return in, nil
}

func (in contactPreview) payload() map[string]any {
	out := map[string]any{}
	if in.Name != "" {
		out["name"] = in.Name
	}
	if in.Language != "" {
		out["language"] = in.Language
	}
	if in.URNs != nil {
		out["urns"] = in.URNs
	}
	if in.Fields != nil {
		out["fields"] = in.Fields
	}
	if in.Groups != nil {
		out["groups"] = in.Groups
	}
	return out
}

type contactPreview v2.ContactInput

func newContactsCreateCmd() *cobra.Command {
	var cf contactFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		Example: strings.TrimSpace(`
  rapidpro contacts create --name "Ben Haggerty" --urn tel:+250788123123 --group Doctors --field nickname=Ben
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			in, err := cf.input(cmd.Context(), cmd, s)
			if err != nil {
				return err
			}
			if previewWrite(cmd, "POST", "contacts", contactPreview(in).payload()) {
				return nil
			}
			contact, err := s.client.CreateContact(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.ContactSchema, contact, contactPairs)
		}),
	}
	cf.register(cmd)
	return cmd
}

func newContactsUpdateCmd() *cobra.Command {
	var cf contactFlags
	cmd := &cobra.Command{
		Use:   "update <uuid|urn>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			in, err := cf.input(cmd.Context(), cmd, s)
			if err != nil {
				return err
			}
			if previewWrite(cmd, "POST", "contacts?"+contactQueryKey(args[0])+"="+args[0], contactPreview(in).payload()) {
				return nil
			}
			contact, err := s.client.UpdateContact(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return writeObject(cmd, v2.ContactSchema, contact, contactPairs)
		}),
	}
	cf.register(cmd)
	return cmd
}

func contactQueryKey(id string) string {
	if isURN(id) {
		return "urn"
	}
	return "uuid"
}

func newContactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uuid|urn>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if previewWrite(cmd, "DELETE", "contacts?"+contactQueryKey(args[0])+"="+args[0], nil) {
				return nil
			}
			ok, err := confirm(cmd, fmt.Sprintf("Delete contact %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			if err := client.DeleteContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			if isStructured(cmd) {
				return formatter(cmd).Output(map[string]any{"deleted": args[0]})
			}
			printf(cmd, "Deleted contact %s\n", args[0])
			return nil
		}),
	}
}

func newContactsActionCmd(use, short string, action v2.ContactAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <uuid|urn>...",
		Short: short,
		Long:  short + ". Contacts are sent in batches of 100.",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runContactAction(cmd, action, splitList(args), "")
		}),
	}
}

func newContactsGroupActionCmd(use, short string, action v2.ContactAction) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   use + " <uuid|urn>... --group <name|uuid>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if group == "" {
				return fmt.Errorf("--group is required")
			}
			return runContactAction(cmd, action, splitList(args), group)
		}),
	}
	cmd.Flags().StringVar(&group, "group", "", "Group name or UUID")
	return cmd
}

func runContactAction(cmd *cobra.Command, action v2.ContactAction, ids []string, group string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var groupUUID any
	if group != "" {
		uuid, err := s.groups().Resolve(cmd.Context(), group)
		if err != nil {
			return err
		}
		groupUUID = uuid
	}

	if dryRunBatches(cmd, "contact_actions", ids, func(batch []string) map[string]any {
		p := map[string]any{"action": string(action), "contacts": batch}
		if groupUUID != nil {
			p["group"] = groupUUID
		}
		return p
	}) {
		return nil
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	results := runBatches(cmd.Context(), ids, DefaultConcurrency, ioStreams.ErrOut, func(ctx context.Context, batch []string) error {
		return s.client.ContactActions(ctx, action, batch, groupUUID)
	})
	return reportBatches(cmd, string(action), results)
}

// dryRunBatches previews one request per batch when --dry-run is set.
func dryRunBatches(cmd *cobra.Command, endpoint string, ids []string, payload func([]string) map[string]any) bool {
	previewed := false
	for _, batch := range chunk(ids, BatchSize) {
		if !previewWrite(cmd, "POST", endpoint, payload(batch)) {
			return false
		}
		previewed = true
	}
	return previewed
}

func reportBatches(cmd *cobra.Command, action string, results []BatchResult) error {
	success, failure := countResults(results)
	if isStructured(cmd) {
		if err := formatter(cmd).Output(map[string]any{
			"action":    action,
			"succeeded": success,
			"failed":    failure,
			"batches":   results,
		}); err != nil {
			return err
		}
	} else {
		printf(cmd, "%s: %d succeeded, %d failed\n", action, success, failure)
		for _, r := range results {
			if r.Error != "" {
				printf(cmd, "  batch %d (%d items): %s\n", r.Index+1, len(r.Items), r.Error)
			}
		}
	}
	if failure > 0 {
		return fmt.Errorf("%s failed for %d of %d items", action, failure, success+failure)
	}
	return nil
}
