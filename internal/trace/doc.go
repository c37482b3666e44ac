// Package trace is the structured event log of seqgen.
//
// A run opens a driver span, every template a file span under it and every
// pipeline pass a pass span under the file. Spans carry ordered attributes
// (mode, iterations, cached, ...) on their end event.
//
//	seqgen expand --trace=- --trace-level=detail tpl/
//
// Sinks:
//
//   - Stream writes each event as it happens (text or NDJSON)
//   - Ring keeps the last N events for a dump on exit or panic
//   - Tee fans one event out to several sinks
//
// Levels gate scopes: error keeps driver spans only, phase adds files,
// detail adds passes and debug adds node points such as parsed headers.
//
// Tracers travel in context:
//
//	ctx = trace.WithTracer(ctx, t)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:a.seq")
//	defer span.End("")
package trace
