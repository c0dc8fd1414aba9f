// Package engine orchestrates a recovery run: it validates the
// configuration, builds the candidate source for the selected attack
// mode, and drives the worker pool against the container.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZerkerEOD/p12crack/internal/charset"
	"github.com/ZerkerEOD/p12crack/internal/container"
	"github.com/ZerkerEOD/p12crack/internal/cracker"
	"github.com/ZerkerEOD/p12crack/internal/errs"
	"github.com/ZerkerEOD/p12crack/internal/hardware"
	"github.com/ZerkerEOD/p12crack/internal/result"
	"github.com/ZerkerEOD/p12crack/internal/wordlist"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

const (
	// DefaultMinLength and DefaultMaxLength bound brute-force candidate
	// lengths when the user does not set them.
	DefaultMinLength = 1
	DefaultMaxLength = 6

	// DefaultDelimiter separates dictionary records.
	DefaultDelimiter = "\n"
	// DefaultPatternSymbol marks variable positions in a pattern.
	DefaultPatternSymbol = "@"

	// progressInterval is how often the progress callback fires while
	// the run is active.
	progressInterval = 250 * time.Millisecond
)

// Mode selects which candidate source a run uses.
type Mode int

const (
	ModeDictionary Mode = iota
	ModePattern
	ModeBruteforce
)

// String returns a human-readable representation of the attack mode
func (m Mode) String() string {
	switch m {
	case ModeDictionary:
		return "dictionary"
	case ModePattern:
		return "pattern"
	case ModeBruteforce:
		return "brute-force"
	default:
		return "unknown"
	}
}

// Config describes a recovery run. Exactly one attack mode must be
// selected: a dictionary path, a pattern template, or brute-force.
type Config struct {
	ContainerPath string

	// Dictionary attack
	Dictionary string
	Delimiter  string

	// Pattern attack
	Pattern       string
	PatternSymbol string

	// Brute-force attack
	Bruteforce bool
	MinLength  int
	MaxLength  int

	// Charset selection shared by pattern and brute-force candidates
	CharsetSelectors string
	CustomChars      string

	// Execution tuning; zero values resolve from detected hardware and
	// built-in defaults.
	Threads   int
	ChunkSize int
}

// Mode resolves the configured attack mode, rejecting configurations
// that select none or more than one.
func (c Config) Mode() (Mode, error) {
	var selected []string
	mode := ModeDictionary

	if c.Dictionary != "" {
		selected = append(selected, ModeDictionary.String())
		mode = ModeDictionary
	}
	if c.Pattern != "" {
		selected = append(selected, ModePattern.String())
		mode = ModePattern
	}
	if c.Bruteforce {
		selected = append(selected, ModeBruteforce.String())
		mode = ModeBruteforce
	}

	switch len(selected) {
	case 0:
		return 0, errs.Configuration("no attack mode selected: use a dictionary, a pattern, or brute-force")
	case 1:
		return mode, nil
	default:
		return 0, errs.Configuration("attack modes are mutually exclusive, got %s", strings.Join(selected, ", "))
	}
}

// Progress is a point-in-time view of a running attack.
type Progress struct {
	Attempts   uint64
	Total      uint64
	TotalKnown bool
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID         string
	Mode          Mode
	State         AttackState
	Found         bool
	Password      string
	Attempts      uint64
	Keyspace      uint64
	KeyspaceKnown bool
	Elapsed       time.Duration

	// Dictionary holds wordlist statistics for dictionary runs, nil
	// otherwise.
	Dictionary *wordlist.Stats
}

// Engine drives one recovery run from configuration to outcome.
type Engine struct {
	cfg    Config
	mode   Mode
	oracle container.Oracle
	res    *result.Result
	state  *StateManager

	progressCallback func(Progress)
}

// New validates the attack mode selection and prepares an engine. The
// verifier defaults to the container at cfg.ContainerPath when none is
// injected with SetOracle.
func New(cfg Config) (*Engine, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:   cfg,
		mode:  mode,
		res:   result.New(),
		state: NewStateManager(),
	}, nil
}

// SetOracle replaces the container-backed verifier, e.g. with a mock
// for dry runs and tests.
func (e *Engine) SetOracle(oracle container.Oracle) {
	e.oracle = oracle
}

// SetProgressCallback registers a callback invoked on an interval while
// the run is active and once more when it settles.
func (e *Engine) SetProgressCallback(fn func(Progress)) {
	e.progressCallback = fn
}

// Mode returns the resolved attack mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns the current run state.
func (e *Engine) State() AttackState {
	return e.state.GetState()
}

// Run executes the attack until the password is found, the keyspace is
// exhausted, the context is cancelled, or an error aborts the run. A
// completed run without a match is not an error: the outcome reports
// StateExhausted with Found false.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	runID := uuid.New().String()
	start := time.Now()

	outcome := Outcome{RunID: runID, Mode: e.mode, State: StateFailed}

	fail := func(err error) (Outcome, error) {
		e.state.TransitionTo(StateFailed)
		outcome.Elapsed = time.Since(start)
		debug.Error("Run %s failed during setup: %v", runID, err)
		return outcome, err
	}

	oracle, err := e.resolveOracle()
	if err != nil {
		return fail(err)
	}

	hw := hardware.Detect()

	src, stats, err := e.buildSource(hw)
	if err != nil {
		return fail(err)
	}
	outcome.Dictionary = stats
	outcome.Keyspace, outcome.KeyspaceKnown = src.Keyspace()

	workers := e.cfg.Threads
	if workers <= 0 {
		workers = hw.WorkerCount()
	}

	d, err := cracker.NewDispatcher(workers, e.res)
	if err != nil {
		return fail(err)
	}

	e.state.TransitionTo(StateRunning)
	debug.Info("State transition: pending -> running (run: %s)", runID)
	debug.Fields("Run starting", map[string]interface{}{
		"run_id":         runID,
		"mode":           e.mode.String(),
		"source":         src.Name(),
		"workers":        workers,
		"keyspace":       outcome.Keyspace,
		"keyspace_known": outcome.KeyspaceKnown,
	})

	stopProgress := e.startProgress(outcome.Keyspace, outcome.KeyspaceKnown)

	found, err := d.Run(ctx, src, oracle)

	stopProgress()

	outcome.Attempts = e.res.Attempts()
	outcome.Elapsed = time.Since(start)

	switch {
	case found:
		// A find outranks a late producer error or cancellation.
		pw, _ := e.res.Password()
		outcome.Found = true
		outcome.Password = pw
		outcome.State = StateFound
		err = nil
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		outcome.State = StateStopped
	case err != nil:
		outcome.State = StateFailed
	default:
		outcome.State = StateExhausted
	}

	e.state.TransitionTo(outcome.State)
	debug.Info("State transition: running -> %s (run: %s)", outcome.State, runID)
	debug.Fields("Run finished", map[string]interface{}{
		"run_id":   runID,
		"state":    outcome.State.String(),
		"found":    outcome.Found,
		"attempts": outcome.Attempts,
		"elapsed":  outcome.Elapsed.String(),
	})

	return outcome, err
}

// resolveOracle returns the injected verifier or loads the container.
func (e *Engine) resolveOracle() (container.Oracle, error) {
	if e.oracle != nil {
		return e.oracle, nil
	}
	if e.cfg.ContainerPath == "" {
		return nil, errs.Configuration("container path is required")
	}

	c, err := container.Load(e.cfg.ContainerPath)
	if err != nil {
		return nil, err
	}

	debug.Fields("Container loaded", map[string]interface{}{
		"path": c.Path(),
		"size": c.Size(),
	})
	return c, nil
}

// buildSource constructs the candidate source for the resolved mode.
// Dictionary runs also get a counting pass so the keyspace is known up
// front.
func (e *Engine) buildSource(hw hardware.Resources) (cracker.Source, *wordlist.Stats, error) {
	switch e.mode {
	case ModeDictionary:
		delimiter := e.cfg.Delimiter
		if delimiter == "" {
			delimiter = DefaultDelimiter
		}

		src, err := cracker.NewDictionarySource(e.cfg.Dictionary, delimiter, e.cfg.ChunkSize, hw.ReadBufferSize())
		if err != nil {
			return nil, nil, err
		}

		stats, err := wordlist.Collect(e.cfg.Dictionary, []byte(delimiter), hw.ReadBufferSize())
		if err != nil {
			return nil, nil, err
		}
		src.SetExpectedRecords(stats.Records)
		return src, stats, nil

	case ModePattern:
		symbol := e.cfg.PatternSymbol
		if symbol == "" {
			symbol = DefaultPatternSymbol
		}
		if len(symbol) != 1 {
			return nil, nil, errs.Configuration("pattern symbol must be a single character, got %q", symbol)
		}

		cs, err := charset.Build(e.cfg.CharsetSelectors, e.cfg.CustomChars)
		if err != nil {
			return nil, nil, err
		}

		src, err := cracker.NewPatternSource(e.cfg.Pattern, symbol[0], cs, e.cfg.ChunkSize)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil

	case ModeBruteforce:
		minLen, maxLen := e.cfg.MinLength, e.cfg.MaxLength
		if minLen == 0 {
			minLen = DefaultMinLength
		}
		if maxLen == 0 {
			maxLen = DefaultMaxLength
		}

		cs, err := charset.Build(e.cfg.CharsetSelectors, e.cfg.CustomChars)
		if err != nil {
			return nil, nil, err
		}

		src, err := cracker.NewBruteforceSource(minLen, maxLen, cs, e.cfg.ChunkSize)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}

	return nil, nil, errs.Configuration("unsupported attack mode %d", e.mode)
}

// startProgress feeds the progress callback from a ticker until the
// returned stop function is called; stopping fires one final snapshot
// so consumers land on the true count.
func (e *Engine) startProgress(total uint64, known bool) func() {
	if e.progressCallback == nil {
		return func() {}
	}

	snapshot := func() Progress {
		return Progress{
			Attempts:   e.res.Attempts(),
			Total:      total,
			TotalKnown: known,
		}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.progressCallback(snapshot())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			e.progressCallback(snapshot())
		})
	}
}
