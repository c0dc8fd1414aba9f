package cracker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ZerkerEOD/p12crack/internal/container"
	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/result"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

// Dispatcher drains candidate sources through a fixed pool of workers.
// The pool size is set once at construction; chunks are claimed greedily
// by whichever worker frees up first.
type Dispatcher struct {
	workers int
	res     *result.Result
}

// NewDispatcher creates a dispatcher running the given number of
// workers against res.
func NewDispatcher(workers int, res *result.Result) (*Dispatcher, error) {
	if workers < 1 {
		return nil, errs.PoolInit("worker count %d is not positive", workers)
	}
	if res == nil {
		return nil, errs.PoolInit("shared result is required")
	}
	return &Dispatcher{workers: workers, res: res}, nil
}

// Workers returns the fixed pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run drains src through the worker pool, probing every candidate
// against oracle until a hit, exhaustion, cancellation or a fatal error.
// It returns whether a password was found. Not finding one is not an
// error.
func (d *Dispatcher) Run(ctx context.Context, src Source, oracle container.Oracle) (bool, error) {
	chunks := make(chan Chunk, d.workers)
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }

	g, gctx := errgroup.WithContext(ctx)

	debug.Fields("Dispatch started", map[string]interface{}{
		"source":  src.Name(),
		"workers": d.workers,
	})

	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for chunk := range chunks {
				if d.processChunk(gctx, chunk, oracle) {
					halt()
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(chunks)
		return src.Produce(gctx, func(c Chunk) bool {
			select {
			case chunks <- c:
				return true
			case <-stop:
				return false
			case <-gctx.Done():
				return false
			}
		})
	})

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	found := d.res.IsFound()
	debug.Fields("Dispatch finished", map[string]interface{}{
		"source":   src.Name(),
		"found":    found,
		"attempts": d.res.Attempts(),
	})
	return found, err
}

// processChunk probes every candidate in the chunk. It returns true
// when the pool should stop: this worker found the password, another
// worker already did, or the run was cancelled. The found check runs
// before every probe so at most the worker's current candidate is
// wasted once somebody wins.
func (d *Dispatcher) processChunk(ctx context.Context, chunk Chunk, oracle container.Oracle) bool {
	test := func(candidate string) bool {
		if d.res.IsFound() {
			return true
		}
		select {
		case <-ctx.Done():
			return true
		default:
		}

		d.res.IncrementAttempts()
		if oracle.Verify(candidate) {
			if d.res.TryReportFound(candidate) {
				debug.Info("Password found after %d attempts", d.res.Attempts())
			}
			return true
		}
		return false
	}

	if chunk.Generate != nil {
		for i := chunk.Start; i < chunk.End; i++ {
			if test(chunk.Generate(i)) {
				return true
			}
		}
		return false
	}

	for _, candidate := range chunk.Candidates {
		if test(candidate) {
			return true
		}
	}
	return false
}
