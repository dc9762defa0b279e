package v1

import (
	"context"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

type ContactInput struct {
	Name   string
	URNs   []string
	Fields map[string]any
	Groups any
}

type EventInput struct {
	Campaign     any
	RelativeTo   string
	Offset       int
	Unit         string
	DeliveryHour int
	Message      string
	Flow         any
}

func (c *Client) CreateBroadcast(ctx context.Context, text string, urns []string, contacts, groups any) (*Broadcast, error) {
	return post(ctx, c, "broadcasts", map[string]any{
		"text":     text,
		"urns":     urns,
		"contacts": contacts,
		"groups":   groups,
	}, BroadcastSchema)
}

func (c *Client) CreateCampaign(ctx context.Context, name string, group any) (*Campaign, error) {
	return post(ctx, c, "campaigns", map[string]any{"name": name, "group_uuid": group}, CampaignSchema)
}

func (c *Client) CreateContact(ctx context.Context, in ContactInput) (*Contact, error) {
	return post(ctx, c, "contacts", in.payload(), ContactSchema)
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	return post(ctx, c, "events", map[string]any{
		"campaign_uuid": in.Campaign,
		"relative_to":   in.RelativeTo,
		"offset":        in.Offset,
		"unit":          in.Unit,
		"delivery_hour": in.DeliveryHour,
		"message":       str(in.Message),
		"flow_uuid":     in.Flow,
	}, EventSchema)
}

func (c *Client) CreateField(ctx context.Context, label, valueType string) (*Field, error) {
	return post(ctx, c, "fields", map[string]any{"label": label, "value_type": valueType}, FieldSchema)
}

// CreateFlow creates an empty flow. flowType is F (message), M (menu) or V (voice).
func (c *Client) CreateFlow(ctx context.Context, name, flowType string) (*Flow, error) {
	return post(ctx, c, "flows", map[string]any{"name": name, "flow_type": flowType}, FlowSchema)
}

func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	return post(ctx, c, "labels", map[string]any{"name": name}, LabelSchema)
}

// CreateRuns starts flow for contacts and returns one run per contact.
func (c *Client) CreateRuns(ctx context.Context, flow, contacts any, restartParticipants bool) ([]*Run, error) {
	resp, err := c.api.Post(ctx, "runs", nil, c.api.Params(map[string]any{
		"flow_uuid":            flow,
		"contacts":             contacts,
		"restart_participants": restartParticipants,
	}))
	if err != nil {
		return nil, err
	}
	return RunSchema.DeserializeList(resp)
}

// UpdateContact replaces a contact's attributes. The UUID is sent in the payload.
func (c *Client) UpdateContact(ctx context.Context, uuid string, in ContactInput) (*Contact, error) {
	payload := in.payload()
	payload["uuid"] = uuid
	return post(ctx, c, "contacts", payload, ContactSchema)
}

func (c *Client) UpdateFlow(ctx context.Context, uuid, name, flowType string) (*Flow, error) {
	return post(ctx, c, "flows", map[string]any{"uuid": uuid, "name": name, "flow_type": flowType}, FlowSchema)
}

func (c *Client) UpdateLabel(ctx context.Context, uuid, name string) (*Label, error) {
	return post(ctx, c, "labels", map[string]any{"uuid": uuid, "name": name}, LabelSchema)
}

func (c *Client) DeleteContact(ctx context.Context, contact any) error {
	return c.api.Delete(ctx, "contacts", c.api.Params(map[string]any{"uuid": contact}))
}

func (c *Client) DeleteEvent(ctx context.Context, event any) error {
	return c.api.Delete(ctx, "events", c.api.Params(map[string]any{"uuid": event}))
}

func post[T any](ctx context.Context, c *Client, endpoint string, payload map[string]any, schema *api.Schema[T]) (*T, error) {
	resp, err := c.api.Post(ctx, endpoint, nil, c.api.Params(payload))
	if err != nil {
		return nil, err
	}
	return schema.Deserialize(resp)
}

func (in ContactInput) payload() map[string]any {
	return map[string]any{
		"name":        str(in.Name),
		"urns":        in.URNs,
		"fields":      in.Fields,
		"group_uuids": in.Groups,
	}
}
