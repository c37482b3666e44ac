package seq

import (
	"seqgen/internal/diag"
	"seqgen/internal/tree"
)

// Mode tells which strategy produced the output.
type Mode uint8

const (
	// ModeSections: the body had at least one `#( ... )*` section; only
	// sections were repeated.
	ModeSections Mode = iota + 1
	// ModeWhole: no section anywhere; the whole body was repeated.
	ModeWhole
)

func (m Mode) String() string {
	switch m {
	case ModeSections:
		return "sections"
	case ModeWhole:
		return "whole"
	default:
		return "none"
	}
}

type Options struct {
	// Reporter receives the header diagnostic; nil drops it.
	Reporter diag.Reporter
}

type Result struct {
	Output tree.Stream
	Header Header
	Mode   Mode
	// Sections is the number of sections expanded (0 in ModeWhole).
	Sections int
	// Iterations is the length of the range.
	Iterations int
}

// Expand runs one invocation over input. When the header is malformed one
// diagnostic is reported and ok is false; no output is produced. Expand
// keeps no state between calls.
func Expand(input tree.Stream, opts Options) (Result, bool) {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	h, ok := ParseHeader(input, r)
	if !ok {
		return Result{}, false
	}
	return ExpandHeader(h), true
}

// ExpandHeader runs the section scan over an already parsed header and falls
// back to repeating the whole body when no section was found.
func ExpandHeader(h Header) Result {
	res := Result{Header: h, Iterations: h.Range.Len()}

	s := &scanner{variable: h.Var, rng: h.Range}
	scanned, found := s.scan(h.Body)
	if found {
		res.Output = scanned
		res.Mode = ModeSections
		res.Sections = s.sections
		return res
	}

	res.Output = Repeat(h.Body, h.Var, h.Range)
	res.Mode = ModeWhole
	return res
}
