package cmd

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/api/v2"
	"github.com/rapidpro/rapidpro-cli/internal/cli"
	"github.com/rapidpro/rapidpro-cli/internal/iocontext"
)

var messageFolders = []string{"inbox", "flows", "archived", "outbox", "incoming", "failed", "sent"}

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"message", "msgs"},
		Short:   "List, send and organize messages",
	}
	cmd.AddCommand(newMessagesListCmd())
	cmd.AddCommand(newMessagesSendCmd())
	cmd.AddCommand(newMessagesLabelCmd("label", "Add a label to messages", v2.MessageLabel))
	cmd.AddCommand(newMessagesLabelCmd("unlabel", "Remove a label from messages", v2.MessageUnlabel))
	cmd.AddCommand(newMessagesActionCmd("archive", "Archive messages", v2.MessageArchive))
	cmd.AddCommand(newMessagesActionCmd("restore", "Restore archived messages", v2.MessageRestore))
	cmd.AddCommand(newMessagesActionCmd("delete", "Delete messages", v2.MessageDelete))
	return cmd
}

func newMessagesListCmd() *cobra.Command {
	var (
		folder string
		after  cli.TimeValue
		before cli.TimeValue
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List messages",
		Example: strings.TrimSpace(`
  rapidpro messages list --folder inbox --limit 20
  rapidpro messages list --folder sent --after yesterday -o jsonl
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if folder != "" && !slices.Contains(messageFolders, folder) {
				return api.NewValidationError("folder", folder, messageFolders)
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			q := client.Messages(v2.MessageFilter{Folder: folder, Before: before.Time, After: after.Time})
			messages, err := fetch(cmd, q, limit)
			if err != nil {
				return err
			}
			return writeList(cmd, v2.MessageSchema, messages,
				[]string{"ID", "Contact", "Direction", "Status", "Text", "Created"},
				func(m *v2.Message) []string {
					return []string{formatInt(m.ID), refName(m.Contact), m.Direction, m.Status, truncate(m.Text, 50), formatTime(m.CreatedOn)}
				})
		}),
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Folder: "+strings.Join(messageFolders, ", "))
	cmd.Flags().Var(&after, "after", "Created after")
	cmd.Flags().Var(&before, "before", "Created before")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of messages (0 for all)")
	return cmd
}

func newMessagesSendCmd() *cobra.Command {
	var (
		contact     string
		text        string
		attachments []string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to one contact",
		Example: strings.TrimSpace(`
  rapidpro messages send --contact 5079cb96-a1d8-4f47-8c87-d8c7bb6ddab9 --text "Your appointment is tomorrow"
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if contact == "" {
				return fmt.Errorf("--contact is required")
			}
			if strings.TrimSpace(text) == "" && len(attachments) == 0 {
				return fmt.Errorf("--text or --attachment is required")
			}
			payload := map[string]any{"contact": contact, "text": text}
			if len(attachments) > 0 {
				payload["attachments"] = attachments
			}
			if previewWrite(cmd, "POST", "messages", payload) {
				return nil
			}
			client, err := getV2Client(cmd)
			if err != nil {
				return err
			}
			msg, err := client.CreateMessage(cmd.Context(), contact, text, attachments)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return writeObject(cmd, v2.MessageSchema, msg, nil)
			}
			printf(cmd, "Queued message %s to %s\n", formatInt(msg.ID), refName(msg.Contact))
			return nil
		}),
	}

	cmd.Flags().StringVar(&contact, "contact", "", "Contact UUID")
	cmd.Flags().StringVar(&text, "text", "", "Message text")
	cmd.Flags().StringArrayVar(&attachments, "attachment", nil, "Attachment as content_type:url (repeatable)")
	return cmd
}

func newMessagesActionCmd(use, short string, action v2.MessageAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if action == v2.MessageDelete {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %d messages?", len(splitList(args))))
				if err != nil || !ok {
					return err
				}
			}
			return runMessageAction(cmd, action, splitList(args), "")
		}),
	}
}

func newMessagesLabelCmd(use, short string, action v2.MessageAction) *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   use + " <id>... --label <name|uuid>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if label == "" {
				return fmt.Errorf("--label is required")
			}
			return runMessageAction(cmd, action, splitList(args), label)
		}),
	}
	cmd.Flags().StringVar(&label, "label", "", "Label name or UUID")
	return cmd
}

func runMessageAction(cmd *cobra.Command, action v2.MessageAction, ids []string, label string) error {
	for _, id := range ids {
		if _, err := strconv.Atoi(id); err != nil {
			return fmt.Errorf("invalid message id %q: must be a number", id)
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var labelUUID any
	if label != "" {
		uuid, err := s.labels().Resolve(cmd.Context(), label)
		if err != nil {
			return err
		}
		labelUUID = uuid
	}

	if dryRunBatches(cmd, "message_actions", ids, func(batch []string) map[string]any {
		p := map[string]any{"action": string(action), "messages": messageIDs(batch)}
		if labelUUID != nil {
			p["label"] = labelUUID
		}
		return p
	}) {
		return nil
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	results := runBatches(cmd.Context(), ids, DefaultConcurrency, ioStreams.ErrOut, func(ctx context.Context, batch []string) error {
		return s.client.MessageActions(ctx, action, messageIDs(batch), labelUUID, "")
	})
	return reportBatches(cmd, string(action), results)
}

// messageIDs converts validated numeric ids.
func messageIDs(ids []string) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i], _ = strconv.Atoi(id)
	}
	return out
}
