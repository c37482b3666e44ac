package diag

import "seqgen/internal/source"

// Reporter принимает готовые диагностики от фаз.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter складывает всё в Bag; лимит Bag действует как обычно.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Pending is a diagnostic under construction. Emit hands it to the reporter
// at most once; a nil reporter swallows it.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// ReportError starts an error diagnostic bound to r.
func ReportError(r Reporter, code Code, at source.Span, msg string) *Pending {
	return &Pending{to: r, d: NewError(code, at, msg)}
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d = p.d.WithNote(sp, msg)
	return p
}

func (p *Pending) Emit() {
	if p.sent {
		return
	}
	p.sent = true
	if p.to != nil {
		p.to.Report(p.d)
	}
}

// Diagnostic returns what Emit would send.
func (p *Pending) Diagnostic() Diagnostic { return p.d }
