package api

import "context"

// Pager tracks progress through a page-based listing.
type Pager struct {
	StartPage int

	count   *int
	nextURL string
}

// NewPager returns a pager that starts at page start.
func NewPager(start int) *Pager {
	if start < 1 {
		start = 1
	}
	return &Pager{StartPage: start}
}

// Total is the server-reported result count, unknown before the first fetch.
func (p *Pager) Total() (int, bool) {
	if p.count == nil {
		return 0, false
	}
	return *p.count, true
}

// HasMore reports whether the last fetched page had a successor.
func (p *Pager) HasMore() bool {
	return p.nextURL != ""
}

func (p *Pager) update(page *envelope) {
	p.count = page.count
	p.nextURL = page.next
}

type envelope struct {
	results []any
	next    string
	count   *int
}

func parseEnvelope(resp any) (*envelope, error) {
	m, ok := resp.(map[string]any)
	if !ok {
		return nil, newSerializationError("Value '%s' field is not a dict", display(resp))
	}
	page := &envelope{}
	switch results := m["results"].(type) {
	case []any:
		page.results = results
	case nil:
	default:
		return nil, newSerializationError("Value '%s' field is not a list", display(results))
	}
	if next, ok := m["next"].(string); ok {
		page.next = next
	}
	if raw, ok := m["count"]; ok && raw != nil {
		n, ok := toInt(raw)
		if !ok {
			return nil, newSerializationError("Value '%s' field is not an integer", display(raw))
		}
		page.count = &n
	}
	return page, nil
}

// GetSingle fetches an endpoint that must match exactly one result.
func (c *Client) GetSingle(ctx context.Context, endpoint string, params Params) (any, error) {
	resp, err := c.GetRaw(ctx, endpoint, params, false)
	if err != nil {
		return nil, err
	}
	page, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}
	switch n := len(page.results); {
	case n > 1:
		return nil, &Error{Kind: KindMultipleResults, URL: c.EndpointURL(endpoint)}
	case n == 0:
		return nil, &Error{Kind: KindNoSuchObject, URL: c.EndpointURL(endpoint)}
	default:
		return page.results[0], nil
	}
}

// GetMultiple fetches one page when pager is set, otherwise every page.
func (c *Client) GetMultiple(ctx context.Context, endpoint string, params Params, pager *Pager) ([]any, error) {
	if pager != nil {
		return c.GetPage(ctx, endpoint, params, pager)
	}
	return c.GetAll(ctx, endpoint, params)
}

// GetPage fetches the next page for pager.
func (c *Client) GetPage(ctx context.Context, endpoint string, params Params, pager *Pager) ([]any, error) {
	var reqURL string
	if pager.nextURL != "" {
		reqURL = pager.nextURL
		params = nil
	} else {
		reqURL = c.EndpointURL(endpoint)
		if pager.StartPage != 1 {
			params = params.With("page", pager.StartPage)
		}
	}
	resp, err := c.Get(ctx, reqURL, params, false)
	if err != nil {
		return nil, err
	}
	page, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}
	pager.update(page)
	return page.results, nil
}

// GetAll follows next links until exhausted, concatenating results.
func (c *Client) GetAll(ctx context.Context, endpoint string, params Params) ([]any, error) {
	var results []any
	reqURL := c.EndpointURL(endpoint)
	for reqURL != "" {
		resp, err := c.Get(ctx, reqURL, params, false)
		if err != nil {
			return nil, err
		}
		page, err := parseEnvelope(resp)
		if err != nil {
			return nil, err
		}
		results = append(results, page.results...)
		reqURL = page.next
		params = nil
	}
	return results, nil
}
