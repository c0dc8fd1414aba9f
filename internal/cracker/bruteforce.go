package cracker

import (
	"context"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
)

// BruteforceSource enumerates every string over the charset with
// lengths from minLen through maxLen, shortest lengths first. Within a
// length candidates follow charset order with the leftmost position
// varying slowest.
//
// All lengths generate by index decoding; nothing is materialized up
// front, so memory use does not depend on the keyspace size.
type BruteforceSource struct {
	minLen    int
	maxLen    int
	charset   []byte
	chunkSize int
}

// NewBruteforceSource validates the length range and charset.
func NewBruteforceSource(minLen, maxLen int, cs []byte, chunkSize int) (*BruteforceSource, error) {
	if len(cs) == 0 {
		return nil, errs.Configuration("charset cannot be empty")
	}
	if minLen < 1 {
		return nil, errs.Configuration("minimum length %d must be at least 1", minLen)
	}
	if maxLen < minLen {
		return nil, errs.Configuration("minimum length %d exceeds maximum length %d", minLen, maxLen)
	}
	if chunkSize <= 0 {
		chunkSize = keyspace.DefaultChunkSize
	}

	return &BruteforceSource{
		minLen:    minLen,
		maxLen:    maxLen,
		charset:   cs,
		chunkSize: chunkSize,
	}, nil
}

// Name identifies the source in logs and summaries.
func (s *BruteforceSource) Name() string {
	return "bruteforce"
}

// Keyspace sums charset^length over the length range, saturating once
// the total leaves uint64.
func (s *BruteforceSource) Keyspace() (uint64, bool) {
	n := uint64(len(s.charset))
	total := uint64(0)
	for length := s.minLen; length <= s.maxLen; length++ {
		total = keyspace.Add(total, keyspace.Pow(n, length))
	}
	return total, true
}

// Produce emits index ranges per candidate length, shortest first.
func (s *BruteforceSource) Produce(ctx context.Context, emit EmitFunc) error {
	n := uint64(len(s.charset))

	for length := s.minLen; length <= s.maxLen; length++ {
		total := keyspace.Pow(n, length)
		gen := s.generatorFor(length)

		planner := keyspace.NewPlanner(total, uint64(s.chunkSize))
		for {
			r, ok := planner.Next()
			if !ok {
				break
			}
			if !emit(Chunk{Start: r.Start, End: r.End, Generate: gen}) {
				return nil
			}
		}
	}
	return nil
}

// generatorFor returns the index decoder for one candidate length. The
// index is read as a length-digit number in charset radix, least
// significant digit rightmost.
func (s *BruteforceSource) generatorFor(length int) func(uint64) string {
	n := uint64(len(s.charset))
	return func(index uint64) string {
		buf := make([]byte, length)
		rem := index
		for j := length - 1; j >= 0; j-- {
			buf[j] = s.charset[rem%n]
			rem /= n
		}
		return string(buf)
	}
}
