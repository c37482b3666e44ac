// Package diag defines the diagnostic model shared by every seqgen phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the lexer, the tree builder and the sequence expander.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag performs no IO and no formatting beyond FormatShort, the
// one-line form used by golden tests and `--diag-format short`. Rendering lives in
// internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with stable string form (LEX1001, SYN2013).
//   - Message – short, actionable, names the expected construct.
//   - Primary – the span the finding is about.
//   - Notes – optional secondary spans; each must add new context.
//
// # Emitting
//
// Phases take a Reporter. ReportError returns a Pending diagnostic that can
// collect notes before Emit. BagReporter stores everything in a Bag, which
// enforces --max-diagnostics and supports sorting and deduplication.
package diag
