package v2

import (
	"context"
)

// BroadcastInput is the payload of a new broadcast. Contacts and Groups accept
// UUIDs or objects.
type BroadcastInput struct {
	Text     string
	URNs     []string
	Contacts any
	Groups   any
}

// CampaignEventInput describes a campaign event. Campaign is only used on create.
// Message may be a string or a map of translations.
type CampaignEventInput struct {
	Campaign     any
	RelativeTo   any
	Offset       int
	Unit         string
	DeliveryHour int
	Message      any
	Flow         any
}

type ContactInput struct {
	Name     string
	Language string
	URNs     []string
	Fields   map[string]any
	Groups   any
}

type FlowStartInput struct {
	Flow                any
	URNs                []string
	Contacts            any
	Groups              any
	RestartParticipants *bool
	ExcludeActive       *bool
	Params              map[string]any
}

func (c *Client) CreateBroadcast(ctx context.Context, in BroadcastInput) (*Broadcast, error) {
	return create(ctx, c, "broadcasts", map[string]any{
		"text":     in.Text,
		"urns":     in.URNs,
		"contacts": in.Contacts,
		"groups":   in.Groups,
	}, BroadcastSchema)
}

func (c *Client) CreateCampaign(ctx context.Context, name string, group any) (*Campaign, error) {
	return create(ctx, c, "campaigns", map[string]any{"name": name, "group": group}, CampaignSchema)
}

func (c *Client) CreateCampaignEvent(ctx context.Context, in CampaignEventInput) (*CampaignEvent, error) {
	payload := in.payload()
	payload["campaign"] = in.Campaign
	return create(ctx, c, "campaign_events", payload, CampaignEventSchema)
}

func (c *Client) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	return create(ctx, c, "contacts", in.payload(), ContactSchema)
}

// CreateField creates a contact field. valueType is one of text, number,
// datetime, state, district or ward.
func (c *Client) CreateField(ctx context.Context, name, valueType string) (*Field, error) {
	return create(ctx, c, "fields", map[string]any{"name": name, "type": valueType}, FieldSchema)
}

func (c *Client) CreateFlowStart(ctx context.Context, in FlowStartInput) (*FlowStart, error) {
	return create(ctx, c, "flow_starts", map[string]any{
		"flow":                 in.Flow,
		"urns":                 in.URNs,
		"contacts":             in.Contacts,
		"groups":               in.Groups,
		"restart_participants": in.RestartParticipants,
		"exclude_active":       in.ExcludeActive,
		"params":               in.Params,
	}, FlowStartSchema)
}

func (c *Client) CreateGlobal(ctx context.Context, name, value string) (*Global, error) {
	return create(ctx, c, "globals", map[string]any{"name": name, "value": value}, GlobalSchema)
}

func (c *Client) CreateGroup(ctx context.Context, name string) (*Group, error) {
	return create(ctx, c, "groups", map[string]any{"name": name}, GroupSchema)
}

func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	return create(ctx, c, "labels", map[string]any{"name": name}, LabelSchema)
}

// CreateMessage sends an outgoing message to one contact.
func (c *Client) CreateMessage(ctx context.Context, contact any, text string, attachments []string) (*Message, error) {
	return create(ctx, c, "messages", map[string]any{
		"contact":     contact,
		"text":        text,
		"attachments": attachments,
	}, MessageSchema)
}

func (c *Client) CreateResthookSubscriber(ctx context.Context, resthook, targetURL string) (*ResthookSubscriber, error) {
	return create(ctx, c, "resthook_subscribers", map[string]any{
		"resthook":   resthook,
		"target_url": targetURL,
	}, ResthookSubscriberSchema)
}

func (c *Client) UpdateCampaign(ctx context.Context, campaign any, name string, group any) (*Campaign, error) {
	id, err := c.idParam("uuid", campaign)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "campaigns", id, map[string]any{"name": name, "group": group}, CampaignSchema)
}

func (c *Client) UpdateCampaignEvent(ctx context.Context, event any, in CampaignEventInput) (*CampaignEvent, error) {
	id, err := c.idParam("uuid", event)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "campaign_events", id, in.payload(), CampaignEventSchema)
}

// UpdateContact updates a contact identified by UUID, URN or object.
func (c *Client) UpdateContact(ctx context.Context, contact any, in ContactInput) (*Contact, error) {
	id, err := c.contactIDParam(contact)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "contacts", id, in.payload(), ContactSchema)
}

func (c *Client) UpdateField(ctx context.Context, field any, name, valueType string) (*Field, error) {
	id, err := c.idParam("key", field)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "fields", id, map[string]any{"name": name, "type": valueType}, FieldSchema)
}

func (c *Client) UpdateGlobal(ctx context.Context, global any, value string) (*Global, error) {
	id, err := c.idParam("key", global)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "globals", id, map[string]any{"value": value}, GlobalSchema)
}

func (c *Client) UpdateGroup(ctx context.Context, group any, name string) (*Group, error) {
	id, err := c.idParam("uuid", group)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "groups", id, map[string]any{"name": name}, GroupSchema)
}

func (c *Client) UpdateLabel(ctx context.Context, label any, name string) (*Label, error) {
	id, err := c.idParam("uuid", label)
	if err != nil {
		return nil, err
	}
	return update(ctx, c, "labels", id, map[string]any{"name": name}, LabelSchema)
}

func (c *Client) DeleteCampaignEvent(ctx context.Context, event any) error {
	return c.delete(ctx, "campaign_events", "uuid", event)
}

func (c *Client) DeleteContact(ctx context.Context, contact any) error {
	id, err := c.contactIDParam(contact)
	if err != nil {
		return err
	}
	return c.api.Delete(ctx, "contacts", id)
}

func (c *Client) DeleteGroup(ctx context.Context, group any) error {
	return c.delete(ctx, "groups", "uuid", group)
}

func (c *Client) DeleteLabel(ctx context.Context, label any) error {
	return c.delete(ctx, "labels", "uuid", label)
}

func (c *Client) DeleteResthookSubscriber(ctx context.Context, subscriber any) error {
	return c.delete(ctx, "resthook_subscribers", "id", subscriber)
}

func (c *Client) delete(ctx context.Context, endpoint, attr string, value any) error {
	id, err := c.idParam(attr, value)
	if err != nil {
		return err
	}
	return c.api.Delete(ctx, endpoint, id)
}

func (in CampaignEventInput) payload() map[string]any {
	return map[string]any{
		"relative_to":   in.RelativeTo,
		"offset":        in.Offset,
		"unit":          in.Unit,
		"delivery_hour": in.DeliveryHour,
		"message":       in.Message,
		"flow":          in.Flow,
	}
}

func (in ContactInput) payload() map[string]any {
	return map[string]any{
		"name":     str(in.Name),
		"language": str(in.Language),
		"urns":     in.URNs,
		"fields":   in.Fields,
		"groups":   in.Groups,
	}
}
