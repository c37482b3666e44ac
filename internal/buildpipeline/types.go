// Package buildpipeline carries progress events from the driver to whoever
// renders them (the terminal UI, tests).
package buildpipeline

import "time"

// Stage describes a pipeline phase of one template.
type Stage string

const (
	// StageLoad reads the file from disk.
	StageLoad Stage = "load"
	// StageLex tokenizes the file.
	StageLex Stage = "lex"
	// StageTree assembles tokens into a token tree.
	StageTree Stage = "tree"
	// StageExpand runs the sequence expander.
	StageExpand Stage = "expand"
	// StageRender turns the expanded tree back into text.
	StageRender Stage = "render"
	// StageCache is a disk cache lookup or store.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Finished reports whether no further events follow for the file.
func (s Status) Finished() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; the driver emits from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates per-stage durations in first-recorded order. The zero
// value is ready to use.
type Timings struct {
	entries []stageTime
}

type stageTime struct {
	stage Stage
	dur   time.Duration
}

func (t *Timings) find(stage Stage) int {
	for i := range t.entries {
		if t.entries[i].stage == stage {
			return i
		}
	}
	return -1
}

// Add accumulates dur for stage. A nil receiver is ignored.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if i := t.find(stage); i >= 0 {
		t.entries[i].dur += dur
		return
	}
	t.entries = append(t.entries, stageTime{stage, dur})
}

// Merge adds every stage recorded in other.
func (t *Timings) Merge(other Timings) {
	for _, e := range other.entries {
		t.Add(e.stage, e.dur)
	}
}

// Has reports whether stage was recorded, even with a zero duration.
func (t Timings) Has(stage Stage) bool { return t.find(stage) >= 0 }

func (t Timings) Duration(stage Stage) time.Duration {
	if i := t.find(stage); i >= 0 {
		return t.entries[i].dur
	}
	return 0
}

// Sum totals the given stages; unrecorded ones count as zero.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
