package api

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"net/url"
)

// ErrDone is returned by Iterator.Next when no batches remain.
var ErrDone = errors.New("no more results")

// Query is a cursor-based listing that can be iterated batch by batch or
// fetched in full.
type Query[T any] struct {
	req    Requester
	url    string
	params Params
	schema *Schema[T]
}

// NewQuery prepares a listing of endpoint filtered by params.
func NewQuery[T any](req Requester, endpoint string, params Params, schema *Schema[T]) *Query[T] {
	return &Query[T]{req: req, url: req.EndpointURL(endpoint), params: params, schema: schema}
}

// URL is the first request URL, without parameters.
func (q *Query[T]) URL() string { return q.url }

// Params are the filters sent with the first request.
func (q *Query[T]) Params() Params { return q.params }

// IterFetches returns an iterator over result batches. A non-empty
// resumeCursor continues a listing from a previously saved position.
func (q *Query[T]) IterFetches(retryOnRateExceed bool, resumeCursor string) *Iterator[T] {
	return &Iterator[T]{
		req:          q.req,
		url:          q.url,
		params:       q.params,
		schema:       q.schema,
		retry:        retryOnRateExceed,
		resumeCursor: resumeCursor,
	}
}

// All fetches every batch and concatenates the results.
func (q *Query[T]) All(ctx context.Context, retryOnRateExceed bool) ([]*T, error) {
	var results []*T
	it := q.IterFetches(retryOnRateExceed, "")
	for batch, err := range it.Batches(ctx) {
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

// First returns the first result, or nil if there are none.
func (q *Query[T]) First(ctx context.Context, retryOnRateExceed bool) (*T, error) {
	batch, err := q.IterFetches(retryOnRateExceed, "").Next(ctx)
	if errors.Is(err, ErrDone) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return batch[0], nil
}

// Get returns the first result, failing with a no such object error if there
// are none.
func (q *Query[T]) Get(ctx context.Context, retryOnRateExceed bool) (*T, error) {
	t, err := q.First(ctx, retryOnRateExceed)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &Error{Kind: KindNoSuchObject, URL: q.url}
	}
	return t, nil
}

// Iterator walks a cursor-based listing. It is not safe for concurrent use.
type Iterator[T any] struct {
	req          Requester
	url          string
	params       Params
	schema       *Schema[T]
	retry        bool
	resumeCursor string
	done         bool
}

// Next fetches the next batch. It returns ErrDone once the listing is exhausted.
// State only advances after a successful fetch, so a failed call may be retried.
func (it *Iterator[T]) Next(ctx context.Context) ([]*T, error) {
	if it.done || it.url == "" {
		it.done = true
		return nil, ErrDone
	}

	params := it.params
	if it.resumeCursor != "" {
		params = params.With("cursor", it.resumeCursor)
	}
	resp, err := it.req.Do(ctx, Request{
		Method:            http.MethodGet,
		URL:               it.url,
		Params:            params,
		RetryOnRateExceed: it.retry,
	})
	if err != nil {
		return nil, err
	}
	page, err := parseEnvelope(resp)
	if err != nil {
		return nil, err
	}
	batch, err := it.schema.DeserializeList(page.results)
	if err != nil {
		return nil, err
	}

	it.url = page.next
	it.params = nil
	it.resumeCursor = ""
	if len(batch) == 0 {
		it.done = true
		return nil, ErrDone
	}
	return batch, nil
}

// Batches adapts Next to a range-over-func sequence. Iteration stops after
// the first error is yielded.
func (it *Iterator[T]) Batches(ctx context.Context) iter.Seq2[[]*T, error] {
	return func(yield func([]*T, error) bool) {
		for {
			batch, err := it.Next(ctx)
			if errors.Is(err, ErrDone) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}

// URL is the URL the next call to Next will request.
func (it *Iterator[T]) URL() string { return it.url }

// ResumeCursor is the cursor still waiting to be sent with the first request.
func (it *Iterator[T]) ResumeCursor() string { return it.resumeCursor }

// Cursor extracts the cursor of the pending URL so a listing can be resumed
// later. It reports false before the first fetch and once the listing is exhausted.
func (it *Iterator[T]) Cursor() (string, bool) {
	if it.url == "" {
		return "", false
	}
	u, err := url.Parse(it.url)
	if err != nil {
		return "", false
	}
	cursor := u.Query().Get("cursor")
	return cursor, cursor != ""
}
