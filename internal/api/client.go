package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rapidpro/rapidpro-cli/internal/debug"
)

// ClientName identifies this library in the User-Agent header.
const ClientName = "rapidpro-cli"

// Version is set at build time.
var Version = "dev"

const (
	DefaultTimeout    = 30 * time.Second
	DefaultAPIVersion = 2
)

// Config holds connection settings for a Client.
type Config struct {
	// Host is either a bare hostname such as "app.rapidpro.io" or a full root URL.
	Host       string
	Token      string
	UserAgent  string
	APIVersion int
	// SkipTLSVerify disables certificate verification.
	SkipTLSVerify bool
	// CABundle is a PEM file used instead of the system roots.
	CABundle string
	Timeout  time.Duration
	Bools    BoolStyle
}

// Client performs authenticated JSON requests against one API root.
type Client struct {
	RootURL   string
	Token     string
	UserAgent string
	Bools     BoolStyle
	HTTP      *retryablehttp.Client
}

var _ Requester = (*Client)(nil)

// Request describes one API call.
type Request struct {
	Method string
	URL    string
	Params Params
	Body   any
	// RetryOnRateExceed sleeps for the server's Retry-After and retries on 429.
	RetryOnRateExceed bool
}

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("host is required")
	}
	if cfg.APIVersion == 0 {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient, err := newRetryClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		RootURL:   RootURL(cfg.Host, cfg.APIVersion),
		Token:     cfg.Token,
		UserAgent: userAgentHeader(cfg.UserAgent),
		Bools:     cfg.Bools,
		HTTP:      httpClient,
	}, nil
}

// RootURL derives the API root from a host setting.
func RootURL(host string, apiVersion int) string {
	if strings.HasPrefix(host, "http") {
		return strings.TrimSuffix(host, "/")
	}
	return fmt.Sprintf("https://%s/api/v%d", host, apiVersion)
}

func userAgentHeader(ua string) string {
	if ua != "" {
		return fmt.Sprintf("%s %s/%s", ua, ClientName, Version)
	}
	return fmt.Sprintf("%s/%s", ClientName, Version)
}

// EndpointURL returns the JSON URL of an endpoint.
func (c *Client) EndpointURL(endpoint string) string {
	return fmt.Sprintf("%s/%s.json", c.RootURL, endpoint)
}

// Params builds request parameters using the client's boolean style.
func (c *Client) Params(args map[string]any) Params {
	return BuildParams(args, c.Bools)
}

// IDParam builds a single identifying parameter using the client's boolean style.
func (c *Client) IDParam(args map[string]any) (Params, error) {
	return BuildIDParam(args, c.Bools)
}

// Do performs r and returns the decoded JSON response, or nil for an empty body.
func (c *Client) Do(ctx context.Context, r Request) (any, error) {
	reqURL, err := withQuery(r.URL, r.Params)
	if err != nil {
		return nil, err
	}

	var body any
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = data
	}

	if r.RetryOnRateExceed {
		ctx = withRateLimitRetry(ctx)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.Token)
	req.Header.Set("User-Agent", c.UserAgent)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", r.Method, "url", reqURL, "error", err)
		}
		return nil, &Error{Kind: KindConnection, URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindConnection, URL: reqURL, Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", r.Method, "url", reqURL, "status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode >= 400 {
		return nil, classifyResponse(resp, respBody, reqURL)
	}
	if len(respBody) == 0 {
		return nil, nil
	}
	decoded, err := decodeJSON(respBody)
	if err != nil {
		return nil, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return decoded, nil
}

// Get fetches reqURL with optional params.
func (c *Client) Get(ctx context.Context, reqURL string, params Params, retryOnRateExceed bool) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: reqURL, Params: params, RetryOnRateExceed: retryOnRateExceed})
}

// Post sends payload to an endpoint. params, when given, identify the target object.
func (c *Client) Post(ctx context.Context, endpoint string, params Params, payload any) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: c.EndpointURL(endpoint), Params: params, Body: payload})
}

// Delete removes the object identified by params.
func (c *Client) Delete(ctx context.Context, endpoint string, params Params) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, URL: c.EndpointURL(endpoint), Params: params})
	return err
}

// GetRaw returns an endpoint's response object as is.
func (c *Client) GetRaw(ctx context.Context, endpoint string, params Params, retryOnRateExceed bool) (any, error) {
	return c.Get(ctx, c.EndpointURL(endpoint), params, retryOnRateExceed)
}

// classifyResponse maps a non-2xx response onto the error taxonomy.
func classifyResponse(resp *http.Response, body []byte, reqURL string) error {
	e := &Error{StatusCode: resp.StatusCode, URL: reqURL}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		e.Kind = KindBadRequest
		if decoded, err := decodeJSON(body); err == nil {
			e.Errors = decoded
			if _, isMap := decoded.(map[string]any); isMap {
				e.FieldOrder = objectKeys(body)
			}
		} else {
			e.Errors = string(body)
		}
	case http.StatusForbidden:
		e.Kind = KindToken
	case http.StatusNotFound:
		e.Kind = KindNoSuchObject
	case http.StatusTooManyRequests:
		e.Kind = KindRateExceeded
		if d, ok := retryAfterDuration(resp.Header); ok {
			e.RetryAfter = int(d.Round(time.Second) / time.Second)
		}
	default:
		e.Kind = KindHTTP
		class := "Client"
		if resp.StatusCode >= 500 {
			class = "Server"
		}
		e.Message = fmt.Sprintf("%d %s Error: %s for url: %s", resp.StatusCode, class, statusReason(resp), reqURL)
	}
	return e
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(body []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		keys = append(keys, key)
	}
	return keys
}

func statusReason(resp *http.Response) string {
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// withQuery appends params to rawURL, keeping any query it already carries.
func withQuery(rawURL string, params Params) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	q := u.Query()
	for k, vs := range params.Values() {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
