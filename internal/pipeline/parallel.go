// Package pipeline runs independent units of work (one protein's domains, one
// replicon's genes) on a pool of workers and collects results in input order.
package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// Item is a unit of work tagged with its position in the input.
type Item[T any] struct {
	Seq  int
	Key  string // unit identifier (protein or replicon ID)
	Unit T
}

// Result holds the output for a single unit.
type Result[R any] struct {
	Seq int
	Key string
	Out R
	Err error
}

// Run processes items with fn on a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used. Once ctx is done, remaining
// items are reported with ctx.Err() without calling fn.
func Run[T, R any](ctx context.Context, items <-chan Item[T], workers int, fn func(T) (R, error)) <-chan Result[R] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan Result[R], 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := Result[R]{Seq: item.Seq, Key: item.Key}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Out, r.Err = fn(item.Unit)
				}
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect[R any](results <-chan Result[R], fn func(Result[R]) error) error {
	pending := make(map[int]Result[R])
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// Feed sends units on a new channel, numbering them in order, and closes it
// when done or when ctx is cancelled.
func Feed[T any](ctx context.Context, keys []string, units []T) <-chan Item[T] {
	items := make(chan Item[T])
	go func() {
		defer close(items)
		for i, u := range units {
			item := Item[T]{Seq: i, Unit: u}
			if i < len(keys) {
				item.Key = keys[i]
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return items
}
