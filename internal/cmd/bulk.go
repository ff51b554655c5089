package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`

	err error
}

type bulkOptions struct {
	concurrency int64
	// ratePerSecond caps how often operations start; zero means unlimited.
	ratePerSecond float64
	progress      bool
	errOut        io.Writer
}

// runBulkOperation runs operation for every id with bounded parallelism and
// an optional start rate. Individual failures are recorded, not returned.
// Every id gets a result, in the order of ids; ids skipped after
// cancellation carry the context error.
func runBulkOperation[T any](
	ctx context.Context,
	ids []string,
	opts bulkOptions,
	operation func(ctx context.Context, id string) (T, error),
) []BulkResult {
	if opts.concurrency <= 0 {
		opts.concurrency = DefaultConcurrency
	}
	if opts.errOut == nil {
		opts.errOut = io.Discard
	}
	var limiter *rate.Limiter
	if opts.ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.ratePerSecond), 1)
	}

	sem := semaphore.NewWeighted(opts.concurrency)
	var mu sync.Mutex
	results := make(map[int]BulkResult, len(ids))
	total := len(ids)
	var done int64

	g, ctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				results[i] = BulkResult{ID: id, Error: err.Error(), err: err}
				mu.Unlock()
				return nil
			}
			defer sem.Release(1)

			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					mu.Lock()
					results[i] = BulkResult{ID: id, Error: err.Error(), err: err}
					mu.Unlock()
					return nil
				}
			}
			if err := ctx.Err(); err != nil {
				mu.Lock()
				results[i] = BulkResult{ID: id, Error: err.Error(), err: err}
				mu.Unlock()
				return nil
			}

			data, err := operation(ctx, id)

			mu.Lock()
			if err != nil {
				results[i] = BulkResult{ID: id, Error: err.Error(), err: err}
			} else {
				results[i] = BulkResult{ID: id, Success: true, Data: data}
			}
			if opts.progress && total > 0 {
				_, _ = fmt.Fprintf(opts.errOut, "\rProcessed %d/%d", atomic.AddInt64(&done, 1), total)
			}
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	if opts.progress && total > 0 {
		_, _ = fmt.Fprintf(opts.errOut, "\rProcessed %d/%d\n", atomic.LoadInt64(&done), total)
	}

	indexes := make([]int, 0, len(results))
	for i := range results {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	ordered := make([]BulkResult, 0, len(indexes))
	for _, i := range indexes {
		ordered = append(ordered, results[i])
	}
	return ordered
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// firstFailure returns the error of the first failed result, if any.
func firstFailure(results []BulkResult) error {
	for _, r := range results {
		if !r.Success && r.err != nil {
			return r.err
		}
	}
	return nil
}
