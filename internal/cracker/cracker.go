// Package cracker implements the candidate sources and the worker pool
// that drains them.
//
// A Source slices its search space into chunks and a Dispatcher feeds
// those chunks to a fixed pool of workers. Workers probe every candidate
// against the container oracle and race to report the first hit on the
// shared result; everything after a hit short-circuits.
package cracker

import "context"

// Chunk is a contiguous batch of candidates claimed by one worker.
//
// Materialized sources fill Candidates. Indexed sources instead set the
// half-open index range [Start, End) and a Generate function that maps
// an absolute index to its candidate; the worker then builds candidates
// on the fly and nothing is allocated for passwords nobody reaches.
type Chunk struct {
	Candidates []string
	Start      uint64
	End        uint64
	Generate   func(index uint64) string
}

// Count returns the number of candidates the chunk carries.
func (c Chunk) Count() uint64 {
	if c.Generate != nil {
		return c.End - c.Start
	}
	return uint64(len(c.Candidates))
}

// EmitFunc hands one chunk to the dispatcher. It returns false when the
// producer should stop: the password was found, the run was cancelled,
// or the pool is shutting down.
type EmitFunc func(Chunk) bool

// Source enumerates password candidates in a defined order.
//
// Exactly one source drives a run; sources are never combined.
type Source interface {
	// Name identifies the source in logs and summaries.
	Name() string

	// Keyspace returns the total number of candidates and whether that
	// number is known before the run. Saturated spaces report
	// keyspace.MaxCardinality.
	Keyspace() (uint64, bool)

	// Produce feeds chunks to emit until the space is exhausted, emit
	// returns false, or ctx is cancelled. A non-nil error is fatal for
	// the run.
	Produce(ctx context.Context, emit EmitFunc) error
}
