package v2

import "context"

// ContactAction is a bulk operation on the contact_actions endpoint.
type ContactAction string

const (
	ContactAdd             ContactAction = "add"
	ContactRemove          ContactAction = "remove"
	ContactBlock           ContactAction = "block"
	ContactUnblock         ContactAction = "unblock"
	ContactInterrupt       ContactAction = "interrupt"
	ContactArchiveMessages ContactAction = "archive_messages"
	ContactDelete          ContactAction = "delete"
)

// MessageAction is a bulk operation on the message_actions endpoint.
type MessageAction string

const (
	MessageLabel   MessageAction = "label"
	MessageUnlabel MessageAction = "unlabel"
	MessageArchive MessageAction = "archive"
	MessageRestore MessageAction = "restore"
	MessageDelete  MessageAction = "delete"
)

// ContactActions applies action to contacts. group is only sent for add and remove.
func (c *Client) ContactActions(ctx context.Context, action ContactAction, contacts, group any) error {
	payload := map[string]any{"contacts": contacts, "action": string(action)}
	if action == ContactAdd || action == ContactRemove {
		payload["group"] = group
	}
	_, err := c.api.Post(ctx, "contact_actions", nil, c.api.Params(payload))
	return err
}

// MessageActions applies action to messages. label and labelName are only
// sent for label and unlabel.
func (c *Client) MessageActions(ctx context.Context, action MessageAction, messages, label any, labelName string) error {
	payload := map[string]any{"messages": messages, "action": string(action)}
	if action == MessageLabel || action == MessageUnlabel {
		payload["label"] = label
		payload["label_name"] = str(labelName)
	}
	_, err := c.api.Post(ctx, "message_actions", nil, c.api.Params(payload))
	return err
}

func (c *Client) AddContacts(ctx context.Context, contacts, group any) error {
	return c.ContactActions(ctx, ContactAdd, contacts, group)
}

func (c *Client) RemoveContacts(ctx context.Context, contacts, group any) error {
	return c.ContactActions(ctx, ContactRemove, contacts, group)
}

func (c *Client) BlockContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactBlock, contacts, nil)
}

func (c *Client) UnblockContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactUnblock, contacts, nil)
}

// InterruptContacts ends the active flow runs of contacts.
func (c *Client) InterruptContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactInterrupt, contacts, nil)
}

func (c *Client) ArchiveContactMessages(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactArchiveMessages, contacts, nil)
}

func (c *Client) DeleteContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactDelete, contacts, nil)
}

func (c *Client) LabelMessages(ctx context.Context, messages, label any, labelName string) error {
	return c.MessageActions(ctx, MessageLabel, messages, label, labelName)
}

func (c *Client) UnlabelMessages(ctx context.Context, messages, label any, labelName string) error {
	return c.MessageActions(ctx, MessageUnlabel, messages, label, labelName)
}

func (c *Client) ArchiveMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageArchive, messages, nil, "")
}

func (c *Client) RestoreMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageRestore, messages, nil, "")
}

func (c *Client) DeleteMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageDelete, messages, nil, "")
}
