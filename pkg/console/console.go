// Package console owns user-facing terminal output: status lines, the
// progress bar, and the end-of-run summary. Everything here writes to
// stderr so stdout stays clean for the recovered password.
package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

var (
	mu     sync.RWMutex
	quiet  bool
	output io.Writer = os.Stderr
)

// SetQuiet suppresses status output. Errors still print.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuiet reports whether status output is suppressed
func IsQuiet() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// SetOutput redirects console output, primarily for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func print(prefix, format string, v ...interface{}) {
	mu.RLock()
	w := output
	mu.RUnlock()
	fmt.Fprintf(w, prefix+format+"\n", v...)
}

// Status prints a neutral progress message
func Status(format string, v ...interface{}) {
	if IsQuiet() {
		return
	}
	print("[*] ", format, v...)
}

// Info prints an informational message
func Info(format string, v ...interface{}) {
	if IsQuiet() {
		return
	}
	print("[i] ", format, v...)
}

// Success prints a positive-outcome message
func Success(format string, v ...interface{}) {
	if IsQuiet() {
		return
	}
	print("[+] ", format, v...)
}

// Warning prints a recoverable-problem message
func Warning(format string, v ...interface{}) {
	if IsQuiet() {
		return
	}
	print("[!] ", format, v...)
}

// Error prints a failure message. Errors are never suppressed by quiet
// mode.
func Error(format string, v ...interface{}) {
	print("[-] ", format, v...)
}

// ProgressReporter renders candidate-testing progress as a terminal
// bar. The bar is created lazily on the first update, when the keyspace
// size is known; unknown or oversized keyspaces get a spinner with a
// running count instead of a percentage.
type ProgressReporter struct {
	barMu sync.Mutex
	bar   *progressbar.ProgressBar
}

// NewProgressReporter creates an idle reporter.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{}
}

// Update moves the bar to attempts out of total.
func (r *ProgressReporter) Update(attempts, total uint64, totalKnown bool) {
	r.barMu.Lock()
	defer r.barMu.Unlock()

	if r.bar == nil {
		if totalKnown && total <= math.MaxInt64 {
			r.bar = progressbar.Default(int64(total), "testing")
		} else {
			r.bar = progressbar.Default(-1, "testing")
		}
	}

	if attempts > math.MaxInt64 {
		attempts = math.MaxInt64
	}
	r.bar.Set64(int64(attempts))
}

// Finish completes the bar so the shell prompt lands on a fresh line.
func (r *ProgressReporter) Finish() {
	r.barMu.Lock()
	defer r.barMu.Unlock()

	if r.bar != nil {
		r.bar.Finish()
	}
}

// Summary writes the end-of-run report to w. The password itself is not
// part of the summary; callers print it separately on stdout.
func Summary(w io.Writer, state string, found bool, attempts uint64, elapsed time.Duration) {
	switch {
	case found:
		fmt.Fprintf(w, "[+] Password found\n")
	case state == "stopped":
		fmt.Fprintf(w, "[!] Run stopped before the keyspace completed\n")
	case state == "failed":
		fmt.Fprintf(w, "[-] Run failed\n")
	default:
		fmt.Fprintf(w, "[-] Keyspace exhausted without a match\n")
	}

	fmt.Fprintf(w, "    attempts: %d\n", attempts)
	fmt.Fprintf(w, "    elapsed:  %s\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 && attempts > 0 {
		rate := float64(attempts) / elapsed.Seconds()
		fmt.Fprintf(w, "    rate:     %.0f candidates/s\n", rate)
	}
}
