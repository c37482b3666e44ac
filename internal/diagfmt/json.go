package diagfmt

import (
	"encoding/json"
	"io"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

// Position is one end of a location; Line and Col are 1-based and omitted
// unless JSONOpts.IncludePositions is set.
type Position struct {
	Offset uint32 `json:"offset"`
	Line   uint32 `json:"line,omitempty"`
	Col    uint32 `json:"col,omitempty"`
}

type Location struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type NoteRecord struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Record is the JSON form of one diagnostic.
type Record struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location Location     `json:"location"`
	Notes    []NoteRecord `json:"notes,omitempty"`
}

// Report - корень JSON-документа. Truncated считает записи, отрезанные Max.
type Report struct {
	Diagnostics []Record `json:"diagnostics"`
	Count       int      `json:"count"`
	Truncated   int      `json:"truncated,omitempty"`
}

type recordBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b recordBuilder) location(sp source.Span) Location {
	file := b.fs.Get(sp.File)
	loc := Location{
		File:  formatPath(file, b.fs, b.opts.PathMode),
		Start: Position{Offset: sp.Start},
		End:   Position{Offset: sp.End},
	}
	if file == nil || !b.opts.IncludePositions {
		return loc
	}
	start, end := b.fs.Resolve(sp)
	loc.Start.Line, loc.Start.Col = start.Line, start.Col
	loc.End.Line, loc.End.Col = end.Line, end.Col
	return loc
}

func (b recordBuilder) record(d *diag.Diagnostic) Record {
	rec := Record{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if !b.opts.IncludeNotes {
		return rec
	}
	for _, n := range d.Notes {
		rec.Notes = append(rec.Notes, NoteRecord{Message: n.Msg, Location: b.location(n.Span)})
	}
	return rec
}

// BuildReport converts the bag without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	keep := len(items)
	if opts.Max > 0 {
		keep = min(keep, opts.Max)
	}

	b := recordBuilder{fs: fs, opts: opts}
	rep := Report{Diagnostics: make([]Record, 0, keep), Truncated: len(items) - keep}
	for i := range keep {
		rep.Diagnostics = append(rep.Diagnostics, b.record(&items[i]))
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON пишет отчёт с отступом в два пробела.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
