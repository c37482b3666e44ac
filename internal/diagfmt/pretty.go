package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note *color.Color
	code, path, gutter    *color.Color
	caret                 *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && opts.Max < shown {
		shown = opts.Max
	}
	for i := range shown {
		d := items[i]
		header := fmt.Sprintf("%s %s: %s",
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeLocated(w, fs, d.Primary, header, pal, opts, pal.caret)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeLocated(w, fs, n.Span, pal.note.Sprint("note")+": "+n.Msg, pal, opts, pal.note)
		}
	}
	if hidden := len(items) - shown + bag.Dropped(); hidden > 0 {
		fmt.Fprintf(w, "... and %d more diagnostic(s) not shown\n", hidden)
	}
}

func writeLocated(w io.Writer, fs *source.FileSet, sp source.Span, header string, pal palette, opts PrettyOpts, caret *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		fmt.Fprintf(w, "%s\n", header)
		return
	}
	start, end := fs.Resolve(sp)
	fmt.Fprintf(w, "%s: %s\n", pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col), header)

	gutterWidth := len(fmt.Sprint(start.Line))
	first := start.Line
	if opts.Context > 0 {
		first = max(1, start.Line-uint32(opts.Context))
	}
	for ln := first; ln < start.Line; ln++ {
		writeSourceLine(w, pal, gutterWidth, ln, f.GetLine(ln), opts.Width)
	}

	line := f.GetLine(start.Line)
	writeSourceLine(w, pal, gutterWidth, start.Line, line, opts.Width)

	// подчёркивание только в пределах первой строки span'а
	endCol := end.Col
	if end.Line != start.Line {
		endCol = uint32(len(line)) + 1
	}
	pad, width := caretGeometry(line, int(start.Col)-1, int(endCol)-1)
	if opts.Width > 0 && pad >= int(opts.Width) {
		return
	}
	underline := "^"
	if width > 1 {
		underline += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, "%s %s %s%s\n",
		strings.Repeat(" ", gutterWidth),
		pal.gutter.Sprint("|"),
		strings.Repeat(" ", pad),
		caret.Sprint(underline))
}

func writeSourceLine(w io.Writer, pal palette, gutterWidth int, ln uint32, text string, width uint8) {
	text = expandTabs(text)
	if width > 0 && runewidth.StringWidth(text) > int(width) {
		text = runewidth.Truncate(text, int(width), "…")
	}
	fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, ln), pal.gutter.Sprint("|"), text)
}

// caretGeometry переводит байтовые колонки в ширину на экране: широкие руны
// занимают две ячейки, табы разворачиваются.
func caretGeometry(line string, startByte, endByte int) (pad, width int) {
	startByte = clamp(startByte, 0, len(line))
	endByte = clamp(endByte, startByte, len(line))
	pad = runewidth.StringWidth(expandTabs(line[:startByte]))
	width = runewidth.StringWidth(expandTabs(line[startByte:endByte]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
