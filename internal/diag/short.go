package diag

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"seqgen/internal/source"
)

type shortLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

// FormatShort renders one line per diagnostic, plus one per note when
// withNotes is set:
//
//	error SYN2013 tpl/a.seq:1:3 expected `in` after loop variable `N`
//
// Paths are relative to fs.BaseDir. Lines are sorted by path, position,
// severity, code and message, so the output does not depend on the order
// parallel workers reported in. Unresolvable spans are skipped.
func FormatShort(diags []Diagnostic, fs *source.FileSet, withNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	base := fs.BaseDir()

	lines := make([]shortLine, 0, len(diags))
	add := func(sev, code string, sp source.Span, msg string) {
		file := fs.Get(sp.File)
		if file == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			sev:  sev,
			code: code,
			path: shortPath(file.FormatPath("relative", base)),
			line: start.Line,
			col:  start.Col,
			msg:  strings.Join(strings.Fields(msg), " "),
		})
	}
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		add(d.Severity.Label(), code, d.Primary, d.Message)
		if withNotes {
			for _, n := range d.Notes {
				add("note", code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.sev)
		b.WriteByte(' ')
		b.WriteString(l.code)
		b.WriteByte(' ')
		b.WriteString(l.path)
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(l.line), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(l.col), 10))
		b.WriteByte(' ')
		b.WriteString(l.msg)
	}
	return b.String()
}

func shortPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
