package engine

import (
	"sync"
	"time"
)

// AttackState represents the explicit state of a recovery run
type AttackState int

const (
	// StatePending indicates the run is configured but not started
	StatePending AttackState = iota
	// StateRunning indicates candidates are being tested
	StateRunning
	// StateFound indicates the password was recovered
	StateFound
	// StateExhausted indicates the keyspace completed without a match
	StateExhausted
	// StateFailed indicates the run aborted on an error
	StateFailed
	// StateStopped indicates the run was cancelled by request
	StateStopped
)

// String returns a human-readable representation of the attack state
func (s AttackState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if this is a terminal state (run finished)
func (s AttackState) IsTerminal() bool {
	switch s {
	case StateFound, StateExhausted, StateFailed, StateStopped:
		return true
	}
	return false
}

// StateManager tracks run state transitions so concurrent observers
// (progress reporting, signal handling) always see a consistent state.
type StateManager struct {
	mu             sync.RWMutex
	currentState   AttackState
	stateChangedAt time.Time
}

// NewStateManager creates a state manager starting in pending
func NewStateManager() *StateManager {
	return &StateManager{
		currentState:   StatePending,
		stateChangedAt: time.Now(),
	}
}

// TransitionTo atomically changes the run state
func (m *StateManager) TransitionTo(newState AttackState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentState = newState
	m.stateChangedAt = time.Now()
}

// GetState returns the current state
func (m *StateManager) GetState() AttackState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// GetStateInfo returns the current state and when it was entered
func (m *StateManager) GetStateInfo() (AttackState, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState, m.stateChangedAt
}

// TimeSinceStateChange returns how long the run has been in the current state
func (m *StateManager) TimeSinceStateChange() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.stateChangedAt)
}
