package source

import (
	"os"
	"path/filepath"
	"strings"
)

// autoPathLimit: в режиме "auto" абсолютные пути длиннее этого показываются
// только именем файла.
const autoPathLimit = 40

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the absolute, slash-separated form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. A path outside baseDir is
// returned absolute rather than as a chain of "..".
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return absPath, nil
	}
	return normalizePath(rel), nil
}

// FormatPath renders the file path in one of the modes "absolute",
// "relative" (to baseDir, or the working directory when empty), "basename"
// or "auto". Unknown modes return the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, err = os.Getwd()
		}
		if err == nil {
			out, err = RelativePath(f.Path, baseDir)
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if filepath.IsAbs(f.Path) && len(f.Path) >= autoPathLimit {
			return filepath.Base(f.Path)
		}
		return f.Path
	default:
		return f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
