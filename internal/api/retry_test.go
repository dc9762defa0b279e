package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCheckRateLimitRetry(t *testing.T) {
	limited := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	ok := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	optedIn := withRateLimitRetry(context.Background())

	tests := []struct {
		name string
		ctx  context.Context
		resp *http.Response
		want bool
	}{
		{"429 without opt-in", context.Background(), limited, false},
		{"429 with opt-in", optedIn, limited, true},
		{"200 with opt-in", optedIn, ok, false},
	}
	for _, tt := range tests {
		got, err := checkRateLimitRetry(tt.ctx, tt.resp, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCheckRateLimitRetry_TransportErrorNotRetried(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	retry, err := checkRateLimitRetry(withRateLimitRetry(context.Background()), nil, boom)
	if retry {
		t.Error("transport errors should not be retried")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected transport error to pass through, got %v", err)
	}
}

func TestCheckRateLimitRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(withRateLimitRetry(context.Background()))
	cancel()
	retry, err := checkRateLimitRetry(ctx, &http.Response{StatusCode: http.StatusTooManyRequests}, nil)
	if retry || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got retry=%v err=%v", retry, err)
	}
}

func TestRetryAfterBackoff(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "7")
	if d := retryAfterBackoff(time.Second, time.Minute, 1, resp); d != 7*time.Second {
		t.Errorf("expected 7s, got %v", d)
	}
	if d := retryAfterBackoff(time.Second, time.Minute, 1, &http.Response{Header: http.Header{}}); d != 0 {
		t.Errorf("expected 0 without header, got %v", d)
	}
	if d := retryAfterBackoff(time.Second, time.Minute, 1, nil); d != 0 {
		t.Errorf("expected 0 without response, got %v", d)
	}
}

func TestNewRetryClient_AttemptBudget(t *testing.T) {
	rc, err := newRetryClient(Config{Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if rc.RetryMax != MaxAttempts-1 {
		t.Errorf("RetryMax = %d, want %d", rc.RetryMax, MaxAttempts-1)
	}
	if rc.HTTPClient.Timeout != time.Second {
		t.Errorf("timeout = %v", rc.HTTPClient.Timeout)
	}
}
