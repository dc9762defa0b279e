// Package v1 is a client for the page-based version 1 of the RapidPro API.
package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

const apiVersion = 1

// Client exposes one method per v1 API operation. List methods take an
// optional pager: nil fetches every page.
type Client struct {
	api *api.Client
}

// New creates a v1 client. The API version and boolean style in cfg are overridden.
func New(cfg api.Config) (*Client, error) {
	cfg.APIVersion = apiVersion
	cfg.Bools = api.IntBools
	c, err := api.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{api: c}, nil
}

// Pager returns a pager for use with the list methods.
func (c *Client) Pager(start int) *api.Pager {
	return api.NewPager(start)
}

type BroadcastFilter struct {
	IDs      []int
	Statuses []string
	Before   *time.Time
	After    *time.Time
}

type CampaignFilter struct {
	UUIDs  []string
	Before *time.Time
	After  *time.Time
}

type ContactFilter struct {
	UUIDs  []string
	URNs   []string
	Groups any
	Before *time.Time
	After  *time.Time
}

type EventFilter struct {
	UUIDs     []string
	Campaigns any
	Before    *time.Time
	After     *time.Time
}

type FlowFilter struct {
	UUIDs    []string
	Archived *bool
	Labels   []string
	Before   *time.Time
	After    *time.Time
}

type MessageFilter struct {
	IDs        []int
	Broadcasts []int
	URNs       []string
	Contacts   any
	Groups     any
	Statuses   []string
	Direction  string
	Types      []string
	Labels     []string
	Before     *time.Time
	After      *time.Time
	Text       string
	Archived   *bool
}

type RunFilter struct {
	IDs    []int
	Flows  any
	Groups any
	Before *time.Time
	After  *time.Time
}

func (c *Client) Org(ctx context.Context) (*Org, error) {
	resp, err := c.api.GetRaw(ctx, "org", nil, false)
	if err != nil {
		return nil, err
	}
	return OrgSchema.Deserialize(resp)
}

func (c *Client) Boundaries(ctx context.Context, pager *api.Pager) ([]*Boundary, error) {
	return list(ctx, c, "boundaries", nil, pager, BoundarySchema)
}

func (c *Client) Broadcast(ctx context.Context, id int) (*Broadcast, error) {
	return single(ctx, c, "broadcasts", api.Params{"id": id}, BroadcastSchema)
}

func (c *Client) Broadcasts(ctx context.Context, f BroadcastFilter, pager *api.Pager) ([]*Broadcast, error) {
	return list(ctx, c, "broadcasts", map[string]any{
		"id":     f.IDs,
		"status": f.Statuses,
		"before": f.Before,
		"after":  f.After,
	}, pager, BroadcastSchema)
}

func (c *Client) Campaign(ctx context.Context, uuid string) (*Campaign, error) {
	return single(ctx, c, "campaigns", api.Params{"uuid": uuid}, CampaignSchema)
}

func (c *Client) Campaigns(ctx context.Context, f CampaignFilter, pager *api.Pager) ([]*Campaign, error) {
	return list(ctx, c, "campaigns", map[string]any{
		"uuid":   f.UUIDs,
		"before": f.Before,
		"after":  f.After,
	}, pager, CampaignSchema)
}

func (c *Client) Contact(ctx context.Context, uuid string) (*Contact, error) {
	return single(ctx, c, "contacts", api.Params{"uuid": uuid}, ContactSchema)
}

func (c *Client) Contacts(ctx context.Context, f ContactFilter, pager *api.Pager) ([]*Contact, error) {
	return list(ctx, c, "contacts", map[string]any{
		"uuid":        f.UUIDs,
		"urns":        f.URNs,
		"group_uuids": f.Groups,
		"before":      f.Before,
		"after":       f.After,
	}, pager, ContactSchema)
}

func (c *Client) Event(ctx context.Context, uuid string) (*Event, error) {
	return single(ctx, c, "events", api.Params{"uuid": uuid}, EventSchema)
}

func (c *Client) Events(ctx context.Context, f EventFilter, pager *api.Pager) ([]*Event, error) {
	return list(ctx, c, "events", map[string]any{
		"uuid":          f.UUIDs,
		"campaign_uuid": f.Campaigns,
		"before":        f.Before,
		"after":         f.After,
	}, pager, EventSchema)
}

func (c *Client) Field(ctx context.Context, key string) (*Field, error) {
	return single(ctx, c, "fields", api.Params{"key": key}, FieldSchema)
}

func (c *Client) Fields(ctx context.Context, pager *api.Pager) ([]*Field, error) {
	return list(ctx, c, "fields", nil, pager, FieldSchema)
}

func (c *Client) Flow(ctx context.Context, uuid string) (*Flow, error) {
	return single(ctx, c, "flows", api.Params{"uuid": uuid}, FlowSchema)
}

func (c *Client) Flows(ctx context.Context, f FlowFilter, pager *api.Pager) ([]*Flow, error) {
	return list(ctx, c, "flows", map[string]any{
		"uuid":     f.UUIDs,
		"archived": f.Archived,
		"label":    f.Labels,
		"before":   f.Before,
		"after":    f.After,
	}, pager, FlowSchema)
}

func (c *Client) Group(ctx context.Context, uuid string) (*Group, error) {
	return single(ctx, c, "groups", api.Params{"uuid": uuid}, GroupSchema)
}

func (c *Client) Groups(ctx context.Context, uuids []string, name string, pager *api.Pager) ([]*Group, error) {
	return list(ctx, c, "groups", map[string]any{"uuid": uuids, "name": str(name)}, pager, GroupSchema)
}

func (c *Client) Label(ctx context.Context, uuid string) (*Label, error) {
	return single(ctx, c, "labels", api.Params{"uuid": uuid}, LabelSchema)
}

func (c *Client) Labels(ctx context.Context, uuids []string, name string, pager *api.Pager) ([]*Label, error) {
	return list(ctx, c, "labels", map[string]any{"uuid": uuids, "name": str(name)}, pager, LabelSchema)
}

func (c *Client) Message(ctx context.Context, id int) (*Message, error) {
	return single(ctx, c, "messages", api.Params{"id": id}, MessageSchema)
}

func (c *Client) Messages(ctx context.Context, f MessageFilter, pager *api.Pager) ([]*Message, error) {
	return list(ctx, c, "messages", map[string]any{
		"id":          f.IDs,
		"broadcast":   f.Broadcasts,
		"urns":        f.URNs,
		"contact":     f.Contacts,
		"group_uuids": f.Groups,
		"status":      f.Statuses,
		"direction":   str(f.Direction),
		"type":        f.Types,
		"label":       f.Labels,
		"before":      f.Before,
		"after":       f.After,
		"text":        str(f.Text),
		"archived":    f.Archived,
	}, pager, MessageSchema)
}

// Results summarises flow results for a ruleset or contact field. segment
// splits the summary, e.g. {"location": "State"}, and is sent JSON encoded.
// All pages are fetched.
func (c *Client) Results(ctx context.Context, ruleset any, contactField string, segment map[string]any) ([]*Result, error) {
	args := map[string]any{"ruleset": ruleset, "contact_field": str(contactField)}
	if segment != nil {
		data, err := json.Marshal(segment)
		if err != nil {
			return nil, fmt.Errorf("invalid segment: %w", err)
		}
		args["segment"] = string(data)
	}
	items, err := c.api.GetAll(ctx, "results", c.api.Params(args))
	if err != nil {
		return nil, err
	}
	return ResultSchema.DeserializeList(items)
}

func (c *Client) Run(ctx context.Context, id int) (*Run, error) {
	return single(ctx, c, "runs", api.Params{"run": id}, RunSchema)
}

func (c *Client) Runs(ctx context.Context, f RunFilter, pager *api.Pager) ([]*Run, error) {
	return list(ctx, c, "runs", map[string]any{
		"run":         f.IDs,
		"flow_uuid":   f.Flows,
		"group_uuids": f.Groups,
		"before":      f.Before,
		"after":       f.After,
	}, pager, RunSchema)
}

func single[T any](ctx context.Context, c *Client, endpoint string, params api.Params, schema *api.Schema[T]) (*T, error) {
	item, err := c.api.GetSingle(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return schema.Deserialize(item)
}

func list[T any](ctx context.Context, c *Client, endpoint string, args map[string]any, pager *api.Pager, schema *api.Schema[T]) ([]*T, error) {
	items, err := c.api.GetMultiple(ctx, endpoint, c.api.Params(args), pager)
	if err != nil {
		return nil, err
	}
	return schema.DeserializeList(items)
}

func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}
