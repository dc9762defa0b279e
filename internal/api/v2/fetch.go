package v2

import (
	"time"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

// ArchiveFilter narrows an archive listing.
type ArchiveFilter struct {
	Type   string // "message" or "run"
	Period string // "daily" or "monthly"
	Before *time.Time
	After  *time.Time
}

type BroadcastFilter struct {
	ID     *int
	Before *time.Time
	After  *time.Time
}

// ContactFilter narrows a contact listing. Group accepts a UUID, a name or a *Group.
type ContactFilter struct {
	UUID    string
	URN     string
	Group   any
	Deleted *bool
	Before  *time.Time
	After   *time.Time
	Reverse *bool
}

type MessageFilter struct {
	ID     *int
	Folder string
	Before *time.Time
	After  *time.Time
}

// RunFilter narrows a run listing. Flow and Contact accept a UUID or an object.
type RunFilter struct {
	UUID      string
	Flow      any
	Contact   any
	Responded *bool
	Before    *time.Time
	After     *time.Time
	Reverse   *bool
	Paths     *bool
}

func (c *Client) Archives(f ArchiveFilter) *api.Query[Archive] {
	return query(c, "archives", map[string]any{
		"type":   str(f.Type),
		"period": str(f.Period),
		"before": f.Before,
		"after":  f.After,
	}, ArchiveSchema)
}

// Boundaries lists administrative boundaries, with geometry when requested.
func (c *Client) Boundaries(geometry *bool) *api.Query[Boundary] {
	return query(c, "boundaries", map[string]any{"geometry": geometry}, BoundarySchema)
}

func (c *Client) Broadcasts(f BroadcastFilter) *api.Query[Broadcast] {
	return query(c, "broadcasts", map[string]any{
		"id":     f.ID,
		"before": f.Before,
		"after":  f.After,
	}, BroadcastSchema)
}

func (c *Client) Campaigns(uuid string) *api.Query[Campaign] {
	return query(c, "campaigns", map[string]any{"uuid": str(uuid)}, CampaignSchema)
}

func (c *Client) CampaignEvents(uuid string, campaign any) *api.Query[CampaignEvent] {
	return query(c, "campaign_events", map[string]any{
		"uuid":     str(uuid),
		"campaign": campaign,
	}, CampaignEventSchema)
}

func (c *Client) Channels(uuid, address string) *api.Query[Channel] {
	return query(c, "channels", map[string]any{
		"uuid":    str(uuid),
		"address": str(address),
	}, ChannelSchema)
}

func (c *Client) Classifiers(uuid string) *api.Query[Classifier] {
	return query(c, "classifiers", map[string]any{"uuid": str(uuid)}, ClassifierSchema)
}

func (c *Client) Contacts(f ContactFilter) *api.Query[Contact] {
	return query(c, "contacts", map[string]any{
		"uuid":    str(f.UUID),
		"urn":     str(f.URN),
		"group":   f.Group,
		"deleted": f.Deleted,
		"reverse": f.Reverse,
		"before":  f.Before,
		"after":   f.After,
	}, ContactSchema)
}

func (c *Client) Fields(key string) *api.Query[Field] {
	return query(c, "fields", map[string]any{"key": str(key)}, FieldSchema)
}

func (c *Client) Flows(uuid string) *api.Query[Flow] {
	return query(c, "flows", map[string]any{"uuid": str(uuid)}, FlowSchema)
}

func (c *Client) FlowStarts(uuid string) *api.Query[FlowStart] {
	return query(c, "flow_starts", map[string]any{"uuid": str(uuid)}, FlowStartSchema)
}

func (c *Client) Globals() *api.Query[Global] {
	return query(c, "globals", nil, GlobalSchema)
}

func (c *Client) Groups(uuid, name string) *api.Query[Group] {
	return query(c, "groups", map[string]any{
		"uuid": str(uuid),
		"name": str(name),
	}, GroupSchema)
}

func (c *Client) Labels(uuid, name string) *api.Query[Label] {
	return query(c, "labels", map[string]any{
		"uuid": str(uuid),
		"name": str(name),
	}, LabelSchema)
}

func (c *Client) Messages(f MessageFilter) *api.Query[Message] {
	return query(c, "messages", map[string]any{
		"id":     f.ID,
		"folder": str(f.Folder),
		"before": f.Before,
		"after":  f.After,
	}, MessageSchema)
}

func (c *Client) Resthooks() *api.Query[Resthook] {
	return query(c, "resthooks", nil, ResthookSchema)
}

func (c *Client) ResthookEvents(resthook string) *api.Query[ResthookEvent] {
	return query(c, "resthook_events", map[string]any{"resthook": str(resthook)}, ResthookEventSchema)
}

func (c *Client) ResthookSubscribers(id *int, resthook string) *api.Query[ResthookSubscriber] {
	return query(c, "resthook_subscribers", map[string]any{
		"id":       id,
		"resthook": str(resthook),
	}, ResthookSubscriberSchema)
}

func (c *Client) Runs(f RunFilter) *api.Query[Run] {
	return query(c, "runs", map[string]any{
		"uuid":      str(f.UUID),
		"flow":      f.Flow,
		"contact":   f.Contact,
		"responded": f.Responded,
		"reverse":   f.Reverse,
		"before":    f.Before,
		"after":     f.After,
		"paths":     f.Paths,
	}, RunSchema)
}
