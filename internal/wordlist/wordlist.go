// Package wordlist reads candidate dictionaries.
//
// Dictionaries are delimiter-separated files, optionally compressed.
// Record carving is streaming and never splits a record at a read
// boundary, so the candidates produced are identical regardless of
// buffer size.
package wordlist

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"archive/zip"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/bodgit/sevenzip"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

const (
	// DefaultBufferSize is used when the caller does not size reads.
	DefaultBufferSize = 64 * 1024
	// MaxRecordSize bounds a single record; longer input without a
	// delimiter aborts the scan instead of buffering without limit.
	MaxRecordSize = 16 * 1024 * 1024

	// Bloom filter sizing for the unique-candidate estimate, tuned for
	// rockyou-scale lists.
	bloomEstimateEntries = 15000000
	bloomFalsePositive   = 0.01
)

// Open opens a dictionary for reading, transparently decompressing
// .gz, .zip and .7z files by extension. For archives the first file
// entry is read.
func Open(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return openGzip(path)
	case ".zip":
		return openZip(path)
	case ".7z":
		return openSevenZip(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.Resource("failed to open dictionary: %w", err)
		}
		return f, nil
	}
}

func openGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Resource("failed to open dictionary: %w", err)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errs.Resource("failed to read gzip dictionary %s: %w", path, err)
	}

	return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

func openZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errs.Resource("failed to open zip dictionary %s: %w", path, err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, errs.Resource("failed to read %s from zip dictionary %s: %w", f.Name, path, err)
		}
		debug.Debug("Reading zip dictionary entry %s from %s", f.Name, path)
		return &readCloser{Reader: rc, closers: []io.Closer{rc, zr}}, nil
	}

	zr.Close()
	return nil, errs.Resource("zip dictionary %s contains no files", path)
}

func openSevenZip(path string) (io.ReadCloser, error) {
	sz, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, errs.Resource("failed to open 7z dictionary %s: %w", path, err)
	}

	for _, f := range sz.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			sz.Close()
			return nil, errs.Resource("failed to read %s from 7z dictionary %s: %w", f.Name, path, err)
		}
		debug.Debug("Reading 7z dictionary entry %s from %s", f.Name, path)
		return &readCloser{Reader: rc, closers: []io.Closer{rc, sz}}, nil
	}

	sz.Close()
	return nil, errs.Resource("7z dictionary %s contains no files", path)
}

// readCloser bundles a decompressing reader with everything that has to
// be closed underneath it.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ForEachRecord streams delimiter-separated records from r, calling fn
// for every record including empty ones. Splitting follows the token
// model of strings.Split: input with n delimiters yields n+1 records,
// and the final record is emitted even when empty, because the empty
// string is a legitimate password candidate.
//
// fn returning false stops the scan early without error. The record
// slice is only valid for the duration of the call.
func ForEachRecord(r io.Reader, delimiter []byte, bufSize int, fn func(record []byte) bool) error {
	if len(delimiter) == 0 {
		return errs.Configuration("record delimiter cannot be empty")
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	var pending []byte
	buf := make([]byte, bufSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := buf[:n]
			if len(pending) > 0 {
				pending = append(pending, data...)
				data = pending
			}

			for {
				i := bytes.Index(data, delimiter)
				if i < 0 {
					break
				}
				if !fn(data[:i]) {
					return nil
				}
				data = data[i+len(delimiter):]
			}

			// Keep the unterminated tail for the next read so records
			// crossing a buffer boundary stay whole.
			pending = append(pending[:0], data...)
			if len(pending) > MaxRecordSize {
				return errs.Resource("dictionary record exceeds %d bytes", MaxRecordSize)
			}
		}

		if err == io.EOF {
			fn(pending)
			return nil
		}
		if err != nil {
			return errs.Resource("failed to read dictionary: %w", err)
		}
	}
}

// Stats describes a dictionary file after a counting pass.
type Stats struct {
	Path           string
	SizeBytes      int64
	Records        uint64
	UniqueEstimate uint64
	MD5            string
}

// Collect scans the dictionary once, counting records and estimating
// unique candidates with a Bloom filter. The estimate serves reporting
// only; the cracking pass still tries every record.
func Collect(path string, delimiter []byte, bufSize int) (*Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Resource("failed to stat dictionary: %w", err)
	}

	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	filter := bloom.NewWithEstimates(bloomEstimateEntries, bloomFalsePositive)
	var records, unique uint64

	err = ForEachRecord(rc, delimiter, bufSize, func(record []byte) bool {
		records++
		if !filter.TestAndAdd(bytes.TrimSpace(record)) {
			unique++
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sum, err := checksums.get(path, info)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Path:           path,
		SizeBytes:      info.Size(),
		Records:        records,
		UniqueEstimate: unique,
		MD5:            sum,
	}

	debug.Fields("Dictionary scanned", map[string]interface{}{
		"path":            stats.Path,
		"size_bytes":      stats.SizeBytes,
		"records":         stats.Records,
		"unique_estimate": stats.UniqueEstimate,
		"md5":             stats.MD5,
	})

	return stats, nil
}
