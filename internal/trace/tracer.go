package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Flush() error
	Close() error
}

// Enabled reports whether t records anything.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop drops every event.
var Nop Tracer = nopTracer{}

// StorageMode selects where events go: straight to the output, into the
// in-memory ring (dumped on exit or panic), or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var storageModeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if name, ok := storageModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, name := range storageModeNames {
		if name == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const DefaultRingSize = 4096

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto: по расширению OutputPath
	Output     io.Writer // приоритетнее OutputPath
	OutputPath string    // "" и "-" означают stderr
	RingSize   int       // <= 0: DefaultRingSize
}

// OpenOutput resolves a trace destination. The closer is nil for stderr.
func OpenOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" || path == "-" {
		return os.Stderr, nil, nil
	}
	// #nosec G304 -- path comes from the --trace flag
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f, nil
}

// New builds a tracer for cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if _, ok := storageModeNames[cfg.Mode]; !ok {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	if cfg.Mode == ModeRing {
		return NewRing(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatForPath(cfg.OutputPath)
	}

	w, closer := cfg.Output, io.Closer(nil)
	if w == nil {
		var err error
		if w, closer, err = OpenOutput(cfg.OutputPath); err != nil {
			return nil, err
		}
	}
	stream := NewStream(w, cfg.Level, cfg.Format)
	stream.closer = closer
	if cfg.Mode == ModeStream {
		return stream, nil
	}
	return NewTee(cfg.Level, stream, NewRing(cfg.RingSize, cfg.Level)), nil
}
