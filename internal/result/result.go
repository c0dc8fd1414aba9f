// Package result holds the shared outcome of a cracking run.
package result

import "sync/atomic"

// Result tracks the outcome shared by all workers of a search. The first
// worker to verify a password wins and later reports are dropped, so the
// recorded value never changes once set. All methods are safe for
// concurrent use and none of them block.
type Result struct {
	password atomic.Pointer[string]
	attempts atomic.Uint64
}

// New creates an empty Result.
func New() *Result {
	return &Result{}
}

// TryReportFound records the recovered password unless one has already
// been recorded. It returns true when this call was the winning report.
// An empty password is a valid find; PKCS#12 containers can be protected
// by the empty string.
func (r *Result) TryReportFound(password string) bool {
	pw := password
	return r.password.CompareAndSwap(nil, &pw)
}

// IsFound reports whether a password has been recorded.
func (r *Result) IsFound() bool {
	return r.password.Load() != nil
}

// Password returns the recorded password. The second return value is
// false while no password has been found.
func (r *Result) Password() (string, bool) {
	if p := r.password.Load(); p != nil {
		return *p, true
	}
	return "", false
}

// IncrementAttempts counts one oracle verification. The counter is
// relaxed: it is a statistic, not a synchronization point.
func (r *Result) IncrementAttempts() {
	r.attempts.Add(1)
}

// Attempts returns the number of verifications counted so far.
func (r *Result) Attempts() uint64 {
	return r.attempts.Load()
}

// Snapshot returns the password (empty when absent), whether one was
// found, and the attempt count in a single read.
func (r *Result) Snapshot() (password string, found bool, attempts uint64) {
	password, found = r.Password()
	return password, found, r.Attempts()
}
