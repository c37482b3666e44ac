// Package observ measures where an expand run spends its time (--timings).
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer aggregates phase durations by name. Parallel workers share one timer,
// so the same phase may be recorded many times; it is reported once with
// its run count. Safe for concurrent use; a nil timer records nothing.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*phase
}

type phase struct {
	runs  int
	total time.Duration
	note  string
}

func NewTimer() *Timer { return &Timer{phases: make(map[string]*phase)} }

// Start begins one run of the named phase. Calling the returned func ends
// it; a non-empty note replaces the phase note.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	began := time.Now()
	var once sync.Once
	return func(note string) {
		once.Do(func() { t.record(name, time.Since(began), note) })
	}
}

func (t *Timer) record(name string, d time.Duration, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &phase{}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.runs++
	p.total += d
	if note != "" {
		p.note = note
	}
}

// PhaseReport - фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Runs       int     `json:"runs"`
	Note       string  `json:"note,omitempty"`
}

// Report holds phases in the order they first started. TotalMS sums every
// run, so with parallel workers it can exceed wall time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range t.order {
		p := t.phases[name]
		ms := millis(p.total)
		r.Phases = append(r.Phases, PhaseReport{Name: name, DurationMS: ms, Runs: p.runs, Note: p.note})
		r.TotalMS += ms
	}
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		var extra []string
		if p.Runs > 1 {
			extra = append(extra, fmt.Sprintf("%d runs", p.Runs))
		}
		if p.Note != "" {
			extra = append(extra, p.Note)
		}
		if len(extra) > 0 {
			sb.WriteString("  // " + strings.Join(extra, ", "))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
