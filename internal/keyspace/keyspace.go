// Package keyspace provides saturating cardinality arithmetic and chunk
// planning over candidate enumerations.
package keyspace

import "math"

// MaxCardinality is the ceiling for search space sizes. Arithmetic
// saturates here instead of overflowing; a space reported at this value
// is treated as effectively unbounded.
const MaxCardinality = math.MaxUint64

const (
	// DefaultChunkSize is the number of candidates a worker claims at a time.
	DefaultChunkSize = 16384
	// DefaultFluctuationPercent is the share of the chunk size below which
	// a trailing short chunk is merged into its predecessor.
	DefaultFluctuationPercent = 20
)

// Add returns a+b, saturating at MaxCardinality.
func Add(a, b uint64) uint64 {
	if a > MaxCardinality-b {
		return MaxCardinality
	}
	return a + b
}

// Mul returns a*b, saturating at MaxCardinality.
func Mul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > MaxCardinality/b {
		return MaxCardinality
	}
	return a * b
}

// Pow returns base**exp, saturating at MaxCardinality.
func Pow(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		result = Mul(result, base)
		if result == MaxCardinality {
			break
		}
	}
	return result
}

// Range is a half-open [Start, End) slice of an enumeration.
type Range struct {
	Start uint64
	End   uint64
}

// Count returns the number of indices the range covers.
func (r Range) Count() uint64 {
	return r.End - r.Start
}

// Planner slices a keyspace of known size into consecutive Ranges.
// A trailing range smaller than the fluctuation threshold is merged into
// the previous one so no worker receives a near-empty final chunk.
type Planner struct {
	total       uint64
	chunkSize   uint64
	fluctuation int
	pos         uint64
}

// NewPlanner creates a planner over [0, total) producing ranges of
// chunkSize indices. A zero chunkSize falls back to DefaultChunkSize.
func NewPlanner(total, chunkSize uint64) *Planner {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	return &Planner{
		total:       total,
		chunkSize:   chunkSize,
		fluctuation: DefaultFluctuationPercent,
	}
}

// SetFluctuation overrides the merge threshold percentage.
func (p *Planner) SetFluctuation(percent int) {
	if percent >= 0 {
		p.fluctuation = percent
	}
}

// Next returns the next range of the plan. The second return value is
// false once the space is exhausted.
func (p *Planner) Next() (Range, bool) {
	if p.pos >= p.total {
		return Range{}, false
	}

	end := p.total
	if remaining := p.total - p.pos; remaining > p.chunkSize {
		end = p.pos + p.chunkSize

		// Check if the remainder after this chunk would be too small
		remainingAfter := p.total - end
		threshold := uint64(float64(p.chunkSize) * float64(p.fluctuation) / 100.0)
		if remainingAfter <= threshold {
			end = p.total
		}
	}

	r := Range{Start: p.pos, End: end}
	p.pos = end
	return r, true
}
