package cracker

import (
	"context"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
	"github.com/ZerkerEOD/p12crack/internal/mask"
)

// EagerThreshold is the variable-position count below which a pattern
// is fully expanded up front. Small patterns cost at most charset³
// strings, which is cheaper than per-candidate index decoding; larger
// ones switch to indexed generation so memory stays flat.
const EagerThreshold = 4

// PatternSource enumerates candidates for a template in which sentinel
// bytes mark positions filled from the charset. Both generation
// strategies walk the same order: the leftmost variable position varies
// slowest, like an odometer in charset radix.
type PatternSource struct {
	template  string
	positions []mask.Position
	varIdx    []int
	scaffold  []byte
	charset   []byte
	chunkSize int
}

// NewPatternSource parses template and prepares candidate generation
// over cs.
func NewPatternSource(template string, sentinel byte, cs []byte, chunkSize int) (*PatternSource, error) {
	positions, err := mask.Parse(template, sentinel)
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, errs.Configuration("charset cannot be empty")
	}
	if chunkSize <= 0 {
		chunkSize = keyspace.DefaultChunkSize
	}

	return &PatternSource{
		template:  template,
		positions: positions,
		varIdx:    mask.VariableIndices(positions),
		scaffold:  mask.Scaffold(positions),
		charset:   cs,
		chunkSize: chunkSize,
	}, nil
}

// Name identifies the source in logs and summaries.
func (s *PatternSource) Name() string {
	return "pattern"
}

// Keyspace returns charset^variables, saturating for giant templates.
// A template without variable positions is a single candidate.
func (s *PatternSource) Keyspace() (uint64, bool) {
	return mask.Keyspace(s.positions, uint64(len(s.charset))), true
}

// Produce emits the template's candidates in order.
func (s *PatternSource) Produce(ctx context.Context, emit EmitFunc) error {
	if len(s.varIdx) < EagerThreshold {
		return s.produceEager(ctx, emit)
	}
	return s.produceIndexed(ctx, emit)
}

// produceEager materializes every candidate up front and emits them in
// chunkSize batches.
func (s *PatternSource) produceEager(_ context.Context, emit EmitFunc) error {
	candidates := s.expand()

	for start := 0; start < len(candidates); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		if !emit(Chunk{Candidates: candidates[start:end]}) {
			return nil
		}
	}
	return nil
}

// expand walks the variable positions depth-first, leftmost first, so
// candidates come out in odometer order.
func (s *PatternSource) expand() []string {
	total, _ := s.Keyspace()
	out := make([]string, 0, int(total))
	buf := make([]byte, len(s.scaffold))
	copy(buf, s.scaffold)

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(s.varIdx) {
			out = append(out, string(buf))
			return
		}
		for _, c := range s.charset {
			buf[s.varIdx[depth]] = c
			walk(depth + 1)
		}
	}
	walk(0)

	return out
}

// produceIndexed emits index ranges decoded on demand by the workers.
func (s *PatternSource) produceIndexed(_ context.Context, emit EmitFunc) error {
	total, _ := s.Keyspace()

	// Grow small configured chunks to charset³ so indexed dispatch is
	// never finer grained than an eager expansion would have been.
	chunkSize := uint64(s.chunkSize)
	if grown := keyspace.Pow(uint64(len(s.charset)), 3); grown > chunkSize {
		chunkSize = grown
	}

	planner := keyspace.NewPlanner(total, chunkSize)
	for {
		r, ok := planner.Next()
		if !ok {
			return nil
		}
		if !emit(Chunk{Start: r.Start, End: r.End, Generate: s.candidateAt}) {
			return nil
		}
	}
}

// candidateAt decodes an absolute index into its candidate. The index
// is read as a number in charset radix whose least significant digit
// lands on the rightmost variable position, matching the eager order.
func (s *PatternSource) candidateAt(index uint64) string {
	buf := make([]byte, len(s.scaffold))
	copy(buf, s.scaffold)

	n := uint64(len(s.charset))
	rem := index
	for j := len(s.varIdx) - 1; j >= 0; j-- {
		buf[s.varIdx[j]] = s.charset[rem%n]
		rem /= n
	}
	return string(buf)
}
