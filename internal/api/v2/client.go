// Package v2 is a client for the cursor-paginated version 2 of the RapidPro API.
package v2

import (
	"context"
	"strings"

	"github.com/rapidpro/rapidpro-cli/internal/api"
)

const apiVersion = 2

// Client exposes one method per v2 API operation.
type Client struct {
	api *api.Client
}

// New creates a v2 client. The API version and boolean style in cfg are overridden.
func New(cfg api.Config) (*Client, error) {
	cfg.APIVersion = apiVersion
	cfg.Bools = api.NativeBools
	c, err := api.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{api: c}, nil
}

// Wrap builds a v2 client on top of an existing request engine.
func Wrap(c *api.Client) *Client {
	return &Client{api: c}
}

// API returns the underlying request engine.
func (c *Client) API() *api.Client { return c.api }

// Org fetches the workspace the token belongs to.
func (c *Client) Org(ctx context.Context, retryOnRateExceed bool) (*Org, error) {
	resp, err := c.api.GetRaw(ctx, "org", nil, retryOnRateExceed)
	if err != nil {
		return nil, err
	}
	return OrgSchema.Deserialize(resp)
}

// Definitions exports the given flows and campaigns. dependencies is one of
// "none", "flows" or "all"; empty leaves the server default.
func (c *Client) Definitions(ctx context.Context, flows, campaigns any, dependencies string) (*Export, error) {
	params := c.api.Params(map[string]any{
		"flow":         orEmpty(flows),
		"campaign":     orEmpty(campaigns),
		"dependencies": str(dependencies),
	})
	resp, err := c.api.GetRaw(ctx, "definitions", params, false)
	if err != nil {
		return nil, err
	}
	return ExportSchema.Deserialize(resp)
}

func query[T any](c *Client, endpoint string, args map[string]any, schema *api.Schema[T]) *api.Query[T] {
	return api.NewQuery(c.api, endpoint, c.api.Params(args), schema)
}

func create[T any](ctx context.Context, c *Client, endpoint string, payload map[string]any, schema *api.Schema[T]) (*T, error) {
	return update(ctx, c, endpoint, nil, payload, schema)
}

func update[T any](ctx context.Context, c *Client, endpoint string, id api.Params, payload map[string]any, schema *api.Schema[T]) (*T, error) {
	resp, err := c.api.Post(ctx, endpoint, id, c.api.Params(payload))
	if err != nil {
		return nil, err
	}
	return schema.Deserialize(resp)
}

func (c *Client) idParam(attr string, value any) (api.Params, error) {
	return c.api.IDParam(map[string]any{attr: value})
}

// contactIDParam identifies a contact by URN when given a string containing
// a scheme separator, otherwise by UUID.
func (c *Client) contactIDParam(contact any) (api.Params, error) {
	if s, ok := contact.(string); ok && strings.Contains(s, ":") {
		return c.idParam("urn", s)
	}
	return c.idParam("uuid", contact)
}

func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orEmpty(v any) any {
	if v == nil {
		return []any{}
	}
	return v
}
