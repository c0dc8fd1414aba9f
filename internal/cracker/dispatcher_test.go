package cracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZerkerEOD/p12crack/internal/container"
	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/result"
)

// sliceSource emits pre-built chunks of materialized candidates.
type sliceSource struct {
	chunks [][]string
	err    error
}

func (s *sliceSource) Name() string { return "slice" }

func (s *sliceSource) Keyspace() (uint64, bool) {
	var total uint64
	for _, c := range s.chunks {
		total += uint64(len(c))
	}
	return total, true
}

func (s *sliceSource) Produce(_ context.Context, emit EmitFunc) error {
	for _, c := range s.chunks {
		if !emit(Chunk{Candidates: c}) {
			return nil
		}
	}
	return s.err
}

// indexedSource emits one Generate-backed chunk per range.
type indexedSource struct {
	ranges   [][2]uint64
	generate func(uint64) string
}

func (s *indexedSource) Name() string { return "indexed" }

func (s *indexedSource) Keyspace() (uint64, bool) {
	var total uint64
	for _, r := range s.ranges {
		total += r[1] - r[0]
	}
	return total, true
}

func (s *indexedSource) Produce(_ context.Context, emit EmitFunc) error {
	for _, r := range s.ranges {
		if !emit(Chunk{Start: r[0], End: r[1], Generate: s.generate}) {
			return nil
		}
	}
	return nil
}

// recordingOracle notes every probed candidate and answers through an
// optional accept function.
type recordingOracle struct {
	mu     sync.Mutex
	probes []string
	accept func(string) bool
}

func (o *recordingOracle) Verify(candidate string) bool {
	o.mu.Lock()
	o.probes = append(o.probes, candidate)
	o.mu.Unlock()
	if o.accept != nil {
		return o.accept(candidate)
	}
	return false
}

func (o *recordingOracle) seen() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.probes))
	copy(out, o.probes)
	return out
}

func acceptOnly(target string) func(string) bool {
	return func(candidate string) bool { return candidate == target }
}

// runSource wires a fresh result and dispatcher around src.
func runSource(t *testing.T, src Source, workers int, oracle container.Oracle) (*result.Result, bool, error) {
	t.Helper()
	res := result.New()
	d, err := NewDispatcher(workers, res)
	require.NoError(t, err)

	found, err := d.Run(context.Background(), src, oracle)
	return res, found, err
}

func TestNewDispatcherValidation(t *testing.T) {
	res := result.New()

	for _, workers := range []int{0, -1, -100} {
		_, err := NewDispatcher(workers, res)
		assert.ErrorIs(t, err, errs.ErrPoolInit, "workers=%d", workers)
	}

	_, err := NewDispatcher(4, nil)
	assert.ErrorIs(t, err, errs.ErrPoolInit)

	d, err := NewDispatcher(4, res)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Workers())
}

func TestRunFindsTarget(t *testing.T) {
	src := &sliceSource{chunks: [][]string{{"a", "b", "c"}, {"d", "e"}}}
	oracle := &recordingOracle{accept: acceptOnly("c")}

	res, found, err := runSource(t, src, 1, oracle)
	require.NoError(t, err)

	assert.True(t, found)
	pw, ok := res.Password()
	assert.True(t, ok)
	assert.Equal(t, "c", pw)

	// A single worker probes in order and stops at the hit; the second
	// chunk is skipped entirely by the found check.
	assert.Equal(t, []string{"a", "b", "c"}, oracle.seen())
	assert.Equal(t, uint64(3), res.Attempts())
}

func TestRunExhaustsWithoutTarget(t *testing.T) {
	src := &sliceSource{chunks: [][]string{{"a", "b"}, {"c", "d", "e"}}}
	oracle := &recordingOracle{}

	res, found, err := runSource(t, src, 2, oracle)
	require.NoError(t, err)

	assert.False(t, found)
	_, ok := res.Password()
	assert.False(t, ok)
	assert.Equal(t, uint64(5), res.Attempts())
	assert.Len(t, oracle.seen(), 5)
}

func TestRunEmptySource(t *testing.T) {
	src := &sliceSource{}
	oracle := &recordingOracle{}

	res, found, err := runSource(t, src, 4, oracle)
	require.NoError(t, err)

	assert.False(t, found)
	assert.Equal(t, uint64(0), res.Attempts())
}

func TestRunSkipsRestOfChunkAfterFind(t *testing.T) {
	src := &sliceSource{chunks: [][]string{
		{"x0", "x1", "target", "x3", "x4", "x5", "x6", "x7", "x8", "x9"},
	}}
	oracle := &recordingOracle{accept: acceptOnly("target")}

	res, found, err := runSource(t, src, 1, oracle)
	require.NoError(t, err)

	assert.True(t, found)
	assert.Equal(t, uint64(3), res.Attempts(), "candidates after the hit in the same chunk must not be probed")
}

func TestRunParallelWorkers(t *testing.T) {
	var chunks [][]string
	for c := 0; c < 16; c++ {
		var chunk []string
		for i := 0; i < 32; i++ {
			chunk = append(chunk, string(rune('a'+c))+string(rune('a'+i)))
		}
		chunks = append(chunks, chunk)
	}
	src := &sliceSource{chunks: chunks}
	total, _ := src.Keyspace()

	oracle := &recordingOracle{accept: acceptOnly("hc")}

	res, found, err := runSource(t, src, 8, oracle)
	require.NoError(t, err)

	assert.True(t, found)
	pw, _ := res.Password()
	assert.Equal(t, "hc", pw)
	assert.LessOrEqual(t, res.Attempts(), total)
	assert.Greater(t, res.Attempts(), uint64(0))
}

func TestRunIndexedChunks(t *testing.T) {
	alphabet := []string{"aa", "ab", "ba", "bb"}
	src := &indexedSource{
		ranges:   [][2]uint64{{0, 2}, {2, 4}},
		generate: func(i uint64) string { return alphabet[i] },
	}
	oracle := &recordingOracle{}

	res, found, err := runSource(t, src, 2, oracle)
	require.NoError(t, err)

	assert.False(t, found)
	assert.Equal(t, uint64(4), res.Attempts())
	assert.ElementsMatch(t, alphabet, oracle.seen(), "every index must be decoded and probed exactly once")
}

func TestRunPropagatesProducerError(t *testing.T) {
	src := &sliceSource{
		chunks: [][]string{{"a"}},
		err:    errs.Resource("wordlist vanished mid-read"),
	}
	oracle := &recordingOracle{}

	_, found, err := runSource(t, src, 2, oracle)

	assert.False(t, found)
	assert.ErrorIs(t, err, errs.ErrResource)
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceSource{chunks: [][]string{{"a", "b", "c"}}}
	oracle := &recordingOracle{}
	res := result.New()
	d, err := NewDispatcher(2, res)
	require.NoError(t, err)

	found, err := d.Run(ctx, src, oracle)

	assert.False(t, found)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFoundBeatsProducerError(t *testing.T) {
	// The found result stays visible even when the producer also
	// reports a failure.
	src := &sliceSource{
		chunks: [][]string{{"target"}},
		err:    errs.Resource("tail of the list unreadable"),
	}
	oracle := &recordingOracle{accept: acceptOnly("target")}

	res, found, err := runSource(t, src, 1, oracle)

	assert.True(t, found)
	pw, _ := res.Password()
	assert.Equal(t, "target", pw)
	// The producer error may or may not surface depending on timing;
	// what matters is that the password survived.
	_ = err
}
