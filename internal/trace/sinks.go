package trace

import (
	"errors"
	"io"
	"sync"
)

// Stream writes every event to w as soon as it is emitted.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer // set only when Stream opened the file itself
	level  Level
	format Format
	buf    []byte
}

// NewStream returns a sink writing to w. FormatAuto means text.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.Allows(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = AppendEvent(s.buf[:0], ev, s.format)
	// ошибки записи трассы не должны ронять прогон
	_, _ = s.w.Write(s.buf)
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the output if New opened it.
func (s *Stream) Close() error {
	err := s.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
		s.closer = nil
	}
	return err
}

// Ring keeps the most recent events in a fixed-size buffer.
type Ring struct {
	mu     sync.Mutex
	events []Event
	total  uint64 // events written so far
	level  Level
}

// NewRing returns a ring holding up to capacity events.
func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &Ring{events: make([]Event, capacity), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.Allows(ev.Scope) {
		return
	}
	r.mu.Lock()
	r.events[r.total%uint64(len(r.events))] = *ev
	r.total++
	r.mu.Unlock()
}

// Snapshot returns the kept events, oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := uint64(len(r.events))
	if r.total <= size {
		return append([]Event(nil), r.events[:r.total]...)
	}
	head := r.total % size
	out := make([]Event, 0, size)
	out = append(out, r.events[head:]...)
	return append(out, r.events[:head]...)
}

// Dropped is the number of events overwritten since the ring was created.
func (r *Ring) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if size := uint64(len(r.events)); r.total > size {
		return r.total - size
	}
	return 0
}

// Dump writes the snapshot to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range r.Snapshot() {
		buf = AppendEvent(buf[:0], &ev, format)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level { return r.level }
func (r *Ring) Flush() error { return nil }
func (r *Ring) Close() error { return nil }

// Tee sends every event to all of its sinks.
type Tee struct {
	sinks []Tracer
	level Level
}

func NewTee(level Level, sinks ...Tracer) *Tee {
	return &Tee{sinks: sinks, level: level}
}

func (t *Tee) Emit(ev *Event) {
	for _, s := range t.sinks {
		s.Emit(ev)
	}
}

func (t *Tee) Level() Level { return t.level }

func (t *Tee) Flush() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// FindRing returns the ring behind t: t itself or the first ring of a Tee.
func FindRing(t Tracer) (*Ring, bool) {
	switch t := t.(type) {
	case *Ring:
		return t, true
	case *Tee:
		for _, s := range t.sinks {
			if r, ok := FindRing(s); ok {
				return r, true
			}
		}
	}
	return nil, false
}
