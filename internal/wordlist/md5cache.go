package wordlist

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

// md5Cache memoizes dictionary checksums keyed by path. An entry is
// reused only while the file's size and modification time both match,
// so repeated runs over the same list skip the hashing pass.
type md5Cache struct {
	mu      sync.Mutex
	entries map[string]md5Entry
}

type md5Entry struct {
	size    int64
	modTime time.Time
	sum     string
}

var checksums = &md5Cache{entries: make(map[string]md5Entry)}

func (c *md5Cache) get(path string, info os.FileInfo) (string, error) {
	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		c.mu.Unlock()
		debug.Debug("Using cached MD5 for %s", path)
		return e.sum, nil
	}
	c.mu.Unlock()

	sum, err := fileMD5(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[path] = md5Entry{size: info.Size(), modTime: info.ModTime(), sum: sum}
	c.mu.Unlock()

	return sum, nil
}

func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errs.Resource("failed to open %s for checksum: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errs.Resource("failed to checksum %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
