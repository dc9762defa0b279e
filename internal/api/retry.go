package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rapidpro/rapidpro-cli/internal/debug"
)

// MaxAttempts bounds how many times a rate limited request is sent.
const MaxAttempts = 5

type retryKey struct{}

func withRateLimitRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

func rateLimitRetryEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(retryKey{}).(bool)
	return v
}

// newRetryClient builds the HTTP client. Only 429 responses are retried and
// only for requests that opted in.
func newRetryClient(cfg Config) (*retryablehttp.Client, error) {
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	rc.Logger = nil
	rc.RetryMax = MaxAttempts - 1
	rc.RetryWaitMin = 0
	rc.RetryWaitMax = 0
	rc.CheckRetry = checkRateLimitRetry
	rc.Backoff = retryAfterBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 && debug.IsEnabled(req.Context()) {
			slog.Debug("rate limited, retrying", "method", req.Method, "url", req.URL.String(), "attempt", attempt+1)
		}
	}
	return rc, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}
	transport := base.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = cfg.SkipTLSVerify //nolint:gosec // opt-in via config

	if cfg.CABundle != "" {
		pem, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CABundle)
		}
		transport.TLSClientConfig.RootCAs = pool
	}
	return transport, nil
}

func checkRateLimitRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusTooManyRequests && rateLimitRetryEnabled(ctx), nil
}

func retryAfterBackoff(_, _ time.Duration, _ int, resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	d, _ := retryAfterDuration(resp.Header)
	return d
}

// retryAfterDuration parses Retry-After header values (seconds or HTTP date).
func retryAfterDuration(h http.Header) (time.Duration, bool) {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			secs = 0
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
