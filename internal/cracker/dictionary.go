package cracker

import (
	"bytes"
	"context"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
	"github.com/ZerkerEOD/p12crack/internal/wordlist"
)

// DictionarySource streams candidates from a wordlist file.
//
// Chunks are cut on record boundaries, never on byte offsets, so a
// candidate can never be torn in half by chunking regardless of buffer
// or chunk sizes. Records are whitespace-trimmed and empty records stay
// in: the empty string is a valid container password.
type DictionarySource struct {
	path      string
	delimiter []byte
	chunkSize int
	bufSize   int

	records uint64
	counted bool
}

// NewDictionarySource creates a dictionary source reading path split on
// delimiter. chunkSize and bufSize fall back to defaults when not
// positive.
func NewDictionarySource(path, delimiter string, chunkSize, bufSize int) (*DictionarySource, error) {
	if path == "" {
		return nil, errs.Configuration("dictionary path cannot be empty")
	}
	if delimiter == "" {
		return nil, errs.Configuration("record delimiter cannot be empty")
	}
	if chunkSize <= 0 {
		chunkSize = keyspace.DefaultChunkSize
	}

	return &DictionarySource{
		path:      path,
		delimiter: []byte(delimiter),
		chunkSize: chunkSize,
		bufSize:   bufSize,
	}, nil
}

// Name identifies the source in logs and summaries.
func (s *DictionarySource) Name() string {
	return "dictionary"
}

// SetExpectedRecords hands the source a record count from a prior
// statistics pass so progress reporting has a total to work against.
func (s *DictionarySource) SetExpectedRecords(records uint64) {
	s.records = records
	s.counted = true
}

// Keyspace returns the record count when a statistics pass supplied
// one. Without it the size is unknown until the file has been streamed.
func (s *DictionarySource) Keyspace() (uint64, bool) {
	return s.records, s.counted
}

// Produce streams the wordlist and emits record-aligned chunks of up to
// chunkSize candidates.
func (s *DictionarySource) Produce(ctx context.Context, emit EmitFunc) error {
	rc, err := wordlist.Open(s.path)
	if err != nil {
		return err
	}
	defer rc.Close()

	batch := make([]string, 0, s.chunkSize)
	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		chunk := Chunk{Candidates: batch}
		batch = make([]string, 0, s.chunkSize)
		return emit(chunk)
	}

	err = wordlist.ForEachRecord(rc, s.delimiter, s.bufSize, func(record []byte) bool {
		batch = append(batch, string(bytes.TrimSpace(record)))
		if len(batch) == s.chunkSize {
			return flush()
		}
		return true
	})
	if err != nil {
		return err
	}

	flush()
	return nil
}
