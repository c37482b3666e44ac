package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI run.
	ScopeDriver Scope = iota + 1
	// ScopeFile covers one template file.
	ScopeFile
	// ScopePass covers one pipeline pass over a file (lex, tree, expand, render, cache).
	ScopePass
	// ScopeNode is detail inside a pass.
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopePass:
		return "pass"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError keeps driver spans, enough to frame a crash dump.
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level; empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are recorded at this level.
func (l Level) Allows(scope Scope) bool {
	if l == LevelOff {
		return false
	}
	// error -> driver, phase -> file, detail -> pass, debug -> node
	return int(scope) <= int(l)
}

// Attr is one key/value pair attached to an event. Order is preserved.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	ID     uint64
	Parent uint64 // 0 for roots
	Name   string // "expand", "file:tpl/a.seq", "lex"
	Detail string
	Attrs  []Attr
}
