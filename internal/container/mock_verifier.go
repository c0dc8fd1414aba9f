package container

import (
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

// MockVerifier simulates the PKCS#12 MAC check for testing the search
// machinery without a real container. It accepts exactly one target
// password and can slow each probe down to mimic KDF cost.
type MockVerifier struct {
	target string
	delay  time.Duration
	calls  atomic.Uint64
}

// NewMockVerifier returns a verifier accepting target. The per-probe
// delay is read from MOCK_VERIFY_DELAY_MS.
func NewMockVerifier(target string) *MockVerifier {
	return &MockVerifier{
		target: target,
		delay:  time.Duration(getEnvInt("MOCK_VERIFY_DELAY_MS", 0)) * time.Millisecond,
	}
}

// NewMockVerifierFromEnv returns a verifier configured entirely from
// the environment: MOCK_VERIFY_TARGET for the accepted password and
// MOCK_VERIFY_DELAY_MS for the per-probe delay.
func NewMockVerifierFromEnv() *MockVerifier {
	v := &MockVerifier{
		target: getEnvString("MOCK_VERIFY_TARGET", "password"),
		delay:  time.Duration(getEnvInt("MOCK_VERIFY_DELAY_MS", 0)) * time.Millisecond,
	}
	debug.Info("Mock verifier active - target length %d, delay %v", len(v.target), v.delay)
	return v
}

// Verify reports whether candidate matches the configured target.
func (m *MockVerifier) Verify(candidate string) bool {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return candidate == m.target
}

// Calls returns how many probes the verifier has answered.
func (m *MockVerifier) Calls() uint64 {
	return m.calls.Load()
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}
