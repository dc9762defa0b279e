package v1

import "context"

// Target names a group or label either by name or by UUID. A label given by
// a name that does not exist is created by the server.
type Target struct {
	Name string
	UUID any
}

type ContactAction string

const (
	ContactAdd     ContactAction = "add"
	ContactRemove  ContactAction = "remove"
	ContactBlock   ContactAction = "block"
	ContactUnblock ContactAction = "unblock"
	ContactExpire  ContactAction = "expire"
	ContactDelete  ContactAction = "delete"
)

type MessageAction string

const (
	MessageLabel     MessageAction = "label"
	MessageUnlabel   MessageAction = "unlabel"
	MessageArchive   MessageAction = "archive"
	MessageUnarchive MessageAction = "unarchive"
	MessageDelete    MessageAction = "delete"
)

// ContactActions applies action to contacts. group is only used by add and remove.
func (c *Client) ContactActions(ctx context.Context, action ContactAction, contacts any, group Target) error {
	payload := map[string]any{"contacts": contacts, "action": string(action)}
	if action == ContactAdd || action == ContactRemove {
		payload["group"] = str(group.Name)
		payload["group_uuid"] = group.UUID
	}
	_, err := c.api.Post(ctx, "contact_actions", nil, c.api.Params(payload))
	return err
}

// MessageActions applies action to messages. label is only used by label and unlabel.
func (c *Client) MessageActions(ctx context.Context, action MessageAction, messages any, label Target) error {
	payload := map[string]any{"messages": messages, "action": string(action)}
	if action == MessageLabel || action == MessageUnlabel {
		payload["label"] = str(label.Name)
		payload["label_uuid"] = label.UUID
	}
	_, err := c.api.Post(ctx, "message_actions", nil, c.api.Params(payload))
	return err
}

func (c *Client) AddContacts(ctx context.Context, contacts any, group Target) error {
	return c.ContactActions(ctx, ContactAdd, contacts, group)
}

func (c *Client) RemoveContacts(ctx context.Context, contacts any, group Target) error {
	return c.ContactActions(ctx, ContactRemove, contacts, group)
}

func (c *Client) BlockContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactBlock, contacts, Target{})
}

func (c *Client) UnblockContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactUnblock, contacts, Target{})
}

// ExpireContacts forces expiration of the contacts' active flow runs.
func (c *Client) ExpireContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactExpire, contacts, Target{})
}

func (c *Client) DeleteContacts(ctx context.Context, contacts any) error {
	return c.ContactActions(ctx, ContactDelete, contacts, Target{})
}

func (c *Client) LabelMessages(ctx context.Context, messages any, label Target) error {
	return c.MessageActions(ctx, MessageLabel, messages, label)
}

func (c *Client) UnlabelMessages(ctx context.Context, messages any, label Target) error {
	return c.MessageActions(ctx, MessageUnlabel, messages, label)
}

func (c *Client) ArchiveMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageArchive, messages, Target{})
}

func (c *Client) UnarchiveMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageUnarchive, messages, Target{})
}

func (c *Client) DeleteMessages(ctx context.Context, messages any) error {
	return c.MessageActions(ctx, MessageDelete, messages, Target{})
}
