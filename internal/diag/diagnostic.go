package diag

import "seqgen/internal/source"

// Note points at additional context for a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic - одна находка фазы: код, уровень, сообщение и место.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, at source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: at}
}

func NewError(code Code, at source.Span, msg string) Diagnostic {
	return New(SevError, code, at, msg)
}

// WithNote returns a copy with one more note; the receiver's notes are not
// shared with the result.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// IsError reports whether d fails the template.
func (d *Diagnostic) IsError() bool { return d.Severity >= SevError }
