package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultConcurrency bounds the number of batches in flight.
	DefaultConcurrency = 4
	// BatchSize is the most identifiers the bulk action endpoints accept per request.
	BatchSize = 100
)

// BatchResult is the outcome of one batch of a bulk operation.
type BatchResult struct {
	Index int      `json:"batch"`
	Items []string `json:"items"`
	Error string   `json:"error,omitempty"`
}

// chunk splits ids into consecutive slices of at most size.
func chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = BatchSize
	}
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// runBatches applies operation to each chunk of ids with bounded parallelism.
// A failing batch does not stop the others; results come back in batch order.
func runBatches(
	ctx context.Context,
	ids []string,
	concurrency int64,
	errOut io.Writer,
	operation func(ctx context.Context, batch []string) error,
) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	batches := chunk(ids, BatchSize)
	results := make([]BatchResult, len(batches))
	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		results[i] = BatchResult{Index: i, Items: batch}
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Error = err.Error()
				return nil
			}
			defer sem.Release(1)

			if err := operation(ctx, batch); err != nil {
				results[i].Error = err.Error()
			}

			mu.Lock()
			done++
			if len(batches) > 1 {
				_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d batches", done, len(batches))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if len(batches) > 1 {
		_, _ = fmt.Fprintln(errOut)
	}
	return results
}

// countResults returns how many items succeeded and failed.
func countResults(results []BatchResult) (success, failure int) {
	for _, r := range results {
		if r.Error == "" {
			success += len(r.Items)
		} else {
			failure += len(r.Items)
		}
	}
	return success, failure
}
