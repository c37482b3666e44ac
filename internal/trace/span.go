package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter atomic.Uint64
	idCounter  atomic.Uint64
)

func emit(t Tracer, ev *Event) {
	ev.Time = time.Now()
	ev.Seq = seqCounter.Add(1)
	t.Emit(ev)
}

// Span is an open begin/end pair. A nil *Span is inert, so callers never
// check whether tracing is on.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin opens a span under parent (0 for a root). It returns nil when t does
// not record scope.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t) || !t.Level().Allows(scope) {
		return nil
	}
	s := &Span{
		t:       t,
		id:      idCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	emit(t, &Event{Kind: KindBegin, Scope: scope, ID: s.id, Parent: parent, Name: name})
	return s
}

// Start opens a span with the tracer and parent found in ctx and returns a
// context whose children attach to it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if s == nil {
		return ctx, nil
	}
	return withParent(ctx, s.id), s
}

// Attr records key=value for the end event.
func (s *Span) Attr(key, value string) *Span {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	emit(s.t, &Event{
		Kind:   KindEnd,
		Scope:  s.scope,
		ID:     s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
		Attrs:  s.attrs,
	})
	return dur
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if !Enabled(t) || !t.Level().Allows(scope) {
		return
	}
	emit(t, &Event{Kind: KindPoint, Scope: scope, ID: idCounter.Add(1), Parent: parent, Name: name, Detail: detail})
}

type (
	tracerKey struct{}
	parentKey struct{}
)

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// ParentID is the span opened by the nearest Start in ctx, 0 if none.
func ParentID(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(parentKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

func withParent(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, parentKey{}, id)
}
