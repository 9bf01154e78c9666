// Package options is the engine's single mutable configuration store: UCI
// setoption feeds it, and every other package reads it back through Get,
// never caching a copy across calls.
package options

import (
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DebugLevel is a 0-5 verbosity dial, one per module, surfaced to UCI as a
// spin option and mapped to a zerolog.Level for that module's sub-logger.
type DebugLevel int

const (
	LevelOff DebugLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ZerologLevel maps a DebugLevel to the zerolog.Level that sub-logger
// should be configured with.
func (d DebugLevel) ZerologLevel() zerolog.Level {
	switch d {
	case LevelOff:
		return zerolog.Disabled
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Opts is the full set of engine options. It is small and copied by value
// so readers always see an internally-consistent snapshot.
type Opts struct {
	Search DebugLevel
	Eval   DebugLevel
	Comm   DebugLevel
	TT     DebugLevel
	UCI    DebugLevel
	Opts   DebugLevel

	UseAB   bool
	UsePV   bool
	UseTT   bool
	HashMB  int
	Threads int
}

// New returns the default options: moderate logging, every search
// improvement enabled, a 16MB table.
func New() Opts {
	return Opts{
		Search:  LevelWarn,
		Eval:    LevelWarn,
		Comm:    LevelError,
		TT:      LevelError,
		UCI:     LevelError,
		Opts:    LevelDebug,
		UseAB:   true,
		UsePV:   true,
		UseTT:   true,
		HashMB:  16,
		Threads: 1,
	}
}

// Bench returns the preset used for reproducible node-count benchmarking:
// logging off everywhere but the options module itself, a small table, and
// the caller's own search-improvement flags preserved.
func (o Opts) Bench() Opts {
	b := Opts{
		Search:  LevelOff,
		Eval:    LevelOff,
		Comm:    LevelOff,
		TT:      LevelOff,
		UCI:     LevelOff,
		Opts:    LevelError,
		UseAB:   o.UseAB,
		UsePV:   o.UsePV,
		UseTT:   o.UseTT,
		HashMB:  32,
		Threads: o.Threads,
	}
	return b
}

// Store is the RWMutex-guarded options holder. The hot path (Get) uses
// TryRLock so a search thread polling options never blocks behind a
// setoption write; it falls back to a blocking RLock only if the
// non-blocking attempt fails, and then waits for the write to finish. No
// earlier snapshot is cached, and the fallback is not logged.
type Store struct {
	mu   sync.RWMutex
	opts Opts
}

// NewStore returns a Store initialized to New().
func NewStore() *Store {
	return &Store{opts: New()}
}

// Get returns the current options snapshot.
func (s *Store) Get() Opts {
	if s.mu.TryRLock() {
		defer s.mu.RUnlock()
		return s.opts
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Set replaces the current options snapshot, used by setoption.
func (s *Store) Set(o Opts) {
	if s.mu.TryLock() {
		defer s.mu.Unlock()
		s.opts = o
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = o
}

// OptionSpec describes one registered UCI option, for the `option name ...`
// lines printed in response to the `uci` command.
type OptionSpec struct {
	Name         string
	Type         string // "check" or "spin"
	DefaultCheck bool
	DefaultSpin  int
	Min, Max     int
}

// RegisterOptions lists every option the engine advertises to a UCI GUI.
func RegisterOptions() []OptionSpec {
	return []OptionSpec{
		{Name: "use_ab", Type: "check", DefaultCheck: true},
		{Name: "use_pv", Type: "check", DefaultCheck: true},
		{Name: "use_tt", Type: "check", DefaultCheck: true},
		{Name: "bench_log", Type: "check", DefaultCheck: false},
		{Name: "search_debug", Type: "spin", DefaultSpin: 2, Min: 0, Max: 5},
		{Name: "eval_debug", Type: "spin", DefaultSpin: 2, Min: 0, Max: 5},
		{Name: "comm_debug", Type: "spin", DefaultSpin: 1, Min: 0, Max: 5},
		{Name: "tt_debug", Type: "spin", DefaultSpin: 1, Min: 0, Max: 5},
		{Name: "uci_debug", Type: "spin", DefaultSpin: 1, Min: 0, Max: 5},
		{Name: "threads", Type: "spin", DefaultSpin: 1, Min: 1, Max: 1},
		{Name: "hash", Type: "spin", DefaultSpin: 16, Min: 0, Max: 1024},
	}
}

func parseCheck(name, value string) (bool, error) {
	switch value {
	case "on", "true":
		return true, nil
	case "off", "false":
		return false, nil
	default:
		return false, errors.Errorf("you need to specify a value (on/off) for %s", name)
	}
}

func parseSpin(name string, low, high int, value string) (int, error) {
	x, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing value for %s", name)
	}
	if x > high {
		return 0, errors.Errorf("value %d is too high for %s: max allowed is %d", x, name, high)
	}
	if x < low {
		return 0, errors.Errorf("value %d is too low for %s: min allowed is %d", x, name, low)
	}
	return x, nil
}

// Receive applies a single `setoption name <name> value <value>` command
// to o, returning the updated options (o itself is left unchanged; callers
// pass the result to Store.Set).
func (o Opts) Receive(name, value string) (Opts, error) {
	switch name {
	case "use_ab":
		v, err := parseCheck(name, value)
		if err != nil {
			return o, err
		}
		o.UseAB = v
	case "use_pv":
		v, err := parseCheck(name, value)
		if err != nil {
			return o, err
		}
		o.UsePV = v
	case "use_tt":
		v, err := parseCheck(name, value)
		if err != nil {
			return o, err
		}
		o.UseTT = v
	case "bench_log":
		v, err := parseCheck(name, value)
		if err != nil {
			return o, err
		}
		if v {
			return o.Bench(), nil
		}
	case "search_debug":
		v, err := parseSpin(name, 0, 5, value)
		if err != nil {
			return o, err
		}
		o.Search = DebugLevel(v)
	case "eval_debug":
		v, err := parseSpin(name, 0, 5, value)
		if err != nil {
			return o, err
		}
		o.Eval = DebugLevel(v)
	case "comm_debug":
		v, err := parseSpin(name, 0, 5, value)
		if err != nil {
			return o, err
		}
		o.Comm = DebugLevel(v)
	case "tt_debug":
		v, err := parseSpin(name, 0, 5, value)
		if err != nil {
			return o, err
		}
		o.TT = DebugLevel(v)
	case "uci_debug":
		v, err := parseSpin(name, 0, 5, value)
		if err != nil {
			return o, err
		}
		o.UCI = DebugLevel(v)
	case "threads":
		// Accepted for UCI-compatibility and ignored: the search core is
		// single-threaded by design.
		if _, err := parseSpin(name, 1, 1, value); err != nil {
			return o, err
		}
	case "hash":
		v, err := parseSpin(name, 0, 1024, value)
		if err != nil {
			return o, err
		}
		o.HashMB = v
	default:
		return o, errors.Errorf("unknown option: %q", name)
	}
	return o, nil
}
