package cracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
)

// referenceExpand is an independent expansion used to cross-check both
// generation strategies: leftmost variable position varies slowest.
func referenceExpand(template string, sentinel byte, cs string) []string {
	var varIdx []int
	for i := 0; i < len(template); i++ {
		if template[i] == sentinel {
			varIdx = append(varIdx, i)
		}
	}

	out := []string{}
	buf := []byte(template)
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(varIdx) {
			out = append(out, string(buf))
			return
		}
		for i := 0; i < len(cs); i++ {
			buf[varIdx[depth]] = cs[i]
			walk(depth + 1)
		}
	}
	walk(0)
	return out
}

func TestPatternEagerMatchesReference(t *testing.T) {
	// Two variable positions stay under the eager threshold.
	src, err := NewPatternSource("p@s@", '@', []byte("xyz"), 4)
	require.NoError(t, err)

	oracle := &recordingOracle{}
	res, found, err := runSource(t, src, 1, oracle)
	require.NoError(t, err)

	want := referenceExpand("p@s@", '@', "xyz")
	assert.False(t, found)
	assert.Equal(t, want, oracle.seen(), "single worker probes in enumeration order")
	assert.Equal(t, uint64(len(want)), res.Attempts())
}

func TestPatternEnumeratesExactSet(t *testing.T) {
	src, err := NewPatternSource("P@@", '@', []byte("ab"), 0)
	require.NoError(t, err)

	oracle := &recordingOracle{}
	res, found, err := runSource(t, src, 1, oracle)
	require.NoError(t, err)

	assert.False(t, found)
	assert.Equal(t, []string{"Paa", "Pab", "Pba", "Pbb"}, oracle.seen())
	assert.Equal(t, uint64(4), res.Attempts())
}

func TestPatternIndexedMatchesReference(t *testing.T) {
	// Four variable positions cross the threshold into indexed mode.
	src, err := NewPatternSource("@@x@@", '@', []byte("abc"), 16)
	require.NoError(t, err)

	oracle := &recordingOracle{}
	res, found, err := runSource(t, src, 1, oracle)
	require.NoError(t, err)

	want := referenceExpand("@@x@@", '@', "abc")
	assert.False(t, found)
	assert.Equal(t, want, oracle.seen())
	assert.Equal(t, uint64(len(want)), res.Attempts())
}

func TestPatternStrategiesAgree(t *testing.T) {
	// candidateAt must decode exactly the candidate the eager walk
	// produces at the same rank.
	src, err := NewPatternSource("a@b@c@", '@', []byte("0123"), 64)
	require.NoError(t, err)

	eager := src.expand()
	total, known := src.Keyspace()
	require.True(t, known)
	require.Equal(t, uint64(len(eager)), total)

	for i, want := range eager {
		assert.Equal(t, want, src.candidateAt(uint64(i)), "rank %d", i)
	}
}

func TestPatternDistinctCandidates(t *testing.T) {
	src, err := NewPatternSource("@@@@", '@', []byte("abcd"), 0)
	require.NoError(t, err)

	oracle := &recordingOracle{}
	res, _, err := runSource(t, src, 4, oracle)
	require.NoError(t, err)

	probes := oracle.seen()
	unique := make(map[string]bool, len(probes))
	for _, p := range probes {
		unique[p] = true
	}

	assert.Equal(t, 256, len(probes), "4^4 candidates probed")
	assert.Equal(t, 256, len(unique), "no candidate repeats")
	assert.Equal(t, uint64(256), res.Attempts())
}

func TestPatternLiteralOnly(t *testing.T) {
	src, err := NewPatternSource("exact", '@', []byte("abc"), 0)
	require.NoError(t, err)

	total, known := src.Keyspace()
	assert.True(t, known)
	assert.Equal(t, uint64(1), total)

	oracle := &recordingOracle{accept: acceptOnly("exact")}
	res, found, err := runSource(t, src, 2, oracle)
	require.NoError(t, err)

	assert.True(t, found)
	pw, _ := res.Password()
	assert.Equal(t, "exact", pw)
	assert.Equal(t, uint64(1), res.Attempts())
}

func TestPatternFindsTargetWithFixedEnds(t *testing.T) {
	src, err := NewPatternSource("s@cr@t", '@', []byte("aeiou"), 0)
	require.NoError(t, err)

	oracle := &recordingOracle{accept: acceptOnly("secret")}
	res, found, err := runSource(t, src, 2, oracle)
	require.NoError(t, err)

	assert.True(t, found)
	pw, _ := res.Password()
	assert.Equal(t, "secret", pw)
	assert.LessOrEqual(t, res.Attempts(), uint64(25), "5^2 candidates bound the search")
}

func TestPatternKeyspace(t *testing.T) {
	tests := []struct {
		name     string
		template string
		charset  string
		want     uint64
	}{
		{name: "no variables", template: "fixed", charset: "abc", want: 1},
		{name: "two variables", template: "@@", charset: "abcdefghij", want: 100},
		{name: "five variables", template: "@@@@@", charset: "ab", want: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewPatternSource(tt.template, '@', []byte(tt.charset), 0)
			require.NoError(t, err)

			got, known := src.Keyspace()
			assert.True(t, known)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternKeyspaceSaturates(t *testing.T) {
	template := make([]byte, 64)
	for i := range template {
		template[i] = '@'
	}
	src, err := NewPatternSource(string(template), '@', []byte(charsetOfSize(95)), 0)
	require.NoError(t, err)

	got, known := src.Keyspace()
	assert.True(t, known)
	assert.Equal(t, uint64(keyspace.MaxCardinality), got)
}

func charsetOfSize(n int) string {
	cs := make([]byte, n)
	for i := range cs {
		cs[i] = byte(33 + i)
	}
	return string(cs)
}

func TestPatternValidation(t *testing.T) {
	_, err := NewPatternSource("", '@', []byte("abc"), 0)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = NewPatternSource("@@", '@', nil, 0)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

// collectChunks drains Produce directly, without a dispatcher.
func collectChunks(t *testing.T, src Source) []Chunk {
	t.Helper()
	var chunks []Chunk
	err := src.Produce(context.Background(), func(c Chunk) bool {
		chunks = append(chunks, c)
		return true
	})
	require.NoError(t, err)
	return chunks
}

func TestPatternIndexedChunkGrowth(t *testing.T) {
	// 3^4 = 81 candidates. A configured chunk of 8 grows to 3^3 = 27 so
	// indexed dispatch stays coarse.
	src, err := NewPatternSource("@@@@", '@', []byte("abc"), 8)
	require.NoError(t, err)

	chunks := collectChunks(t, src)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, uint64(27), c.Count(), "chunk %d", i)
		assert.NotNil(t, c.Generate)
	}
	assert.Equal(t, uint64(81), chunks[2].End)
}

func TestPatternEagerChunking(t *testing.T) {
	// 26^2 = 676 materialized candidates split into batches of 100.
	src, err := NewPatternSource("@@", '@', []byte(charsetOfSize(26)), 100)
	require.NoError(t, err)

	chunks := collectChunks(t, src)
	require.Len(t, chunks, 7)

	var total uint64
	for _, c := range chunks {
		assert.Nil(t, c.Generate)
		total += c.Count()
	}
	assert.Equal(t, uint64(676), total)
	assert.Equal(t, uint64(76), chunks[6].Count())
}
