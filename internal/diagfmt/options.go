package diagfmt

import "seqgen/internal/source"

// PathMode selects how file paths appear in diagnostics.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // короткий путь как есть, длинный - basename
	PathModeAbsolute
	PathModeRelative // относительно FileSet.BaseDir
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return pathModeNames[PathModeAuto]
}

// ParsePathMode maps a --path-mode value; the empty string means auto.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for m, name := range pathModeNames {
		if name == s {
			return PathMode(m), true
		}
	}
	return PathModeAuto, false
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста перед строкой с ошибкой
	PathMode  PathMode
	Width     uint8 // 0 - без ограничения ширины
	ShowNotes bool
	Max       int // 0 - все
}

// JSONOpts configures JSON and BuildReport.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	PathMode         PathMode
	Max              int // режет вывод, Bag не трогает
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}
