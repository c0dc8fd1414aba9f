// Package container loads the encrypted PKCS#12 file and answers
// password probes against it.
package container

import (
	"encoding/asn1"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

// Oracle answers whether a candidate password opens the container.
// Implementations must be deterministic, side-effect free and safe for
// concurrent use.
type Oracle interface {
	Verify(candidate string) bool
}

// VerifierFunc adapts a plain function to the Oracle interface.
type VerifierFunc func(candidate string) bool

// Verify calls f.
func (f VerifierFunc) Verify(candidate string) bool {
	return f(candidate)
}

// Container is an in-memory PKCS#12 file.
type Container struct {
	path string
	der  []byte
}

// Load reads the container at path and validates its framing.
func Load(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Resource("failed to read container: %w", err)
	}
	return FromBytes(path, data)
}

// FromBytes validates that data carries a DER-encoded PFX sequence.
// The check is shallow: it proves the outer framing without touching
// any encrypted payload, so a wrong file fails fast before the search
// starts.
func FromBytes(path string, data []byte) (*Container, error) {
	if len(data) == 0 {
		return nil, errs.Format("container %s is empty", path)
	}

	var raw asn1.RawValue
	rest, err := asn1.Unmarshal(data, &raw)
	if err != nil {
		return nil, errs.Format("container %s is not DER encoded: %w", path, err)
	}
	if len(rest) > 0 {
		return nil, errs.Format("container %s has %d trailing bytes after the PFX structure", path, len(rest))
	}
	if raw.Class != asn1.ClassUniversal || raw.Tag != asn1.TagSequence || !raw.IsCompound {
		return nil, errs.Format("container %s does not start with a PFX sequence", path)
	}

	debug.Debug("Loaded container %s (%d bytes)", path, len(data))
	return &Container{path: path, der: data}, nil
}

// Path returns the source path of the container.
func (c *Container) Path() string {
	return c.path
}

// Size returns the container size in bytes.
func (c *Container) Size() int {
	return len(c.der)
}

// Verify reports whether candidate opens the container. The check runs
// against the in-memory copy and the same candidate always gets the
// same answer, so calls may run concurrently from any worker.
//
// ToPEM is used rather than Decode because it succeeds for any
// container whose MAC verifies, including multi-certificate bundles
// that the stricter single-identity decode would reject.
func (c *Container) Verify(candidate string) bool {
	_, err := pkcs12.ToPEM(c.der, candidate)
	return err == nil
}
