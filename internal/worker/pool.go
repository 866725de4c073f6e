package worker

import (
	"context"
	"sync"
)

// Task is one finished unit of work.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc converts a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs conversions with a fixed number of workers. A pool of one worker
// processes inputs strictly in order.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. Results keep the input order. Inputs
// never dispatched because ctx was cancelled report ctx.Err(). Failures are left
// to the caller to report.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i, in := range inputs {
		results[i] = Task[T, R]{Input: in, Err: context.Canceled}
	}

	inputCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx] = Task[T, R]{
					Input:  inputs[idx],
					Result: result,
					Err:    err,
				}
			}
		}()
	}

	cancelFrom := func(i int) {
		for j := i; j < len(inputs); j++ {
			results[j].Err = ctx.Err()
		}
	}

send:
	for i := range inputs {
		if ctx.Err() != nil {
			cancelFrom(i)
			break
		}
		select {
		case <-ctx.Done():
			cancelFrom(i)
			break send
		case inputCh <- i:
		}
	}
	close(inputCh)

	wg.Wait()
	return results
}

// Errors returns the failed tasks.
func Errors[T any, R any](tasks []Task[T, R]) []Task[T, R] {
	var failed []Task[T, R]
	for _, t := range tasks {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}
