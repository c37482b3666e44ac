package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every template of a run and turns spans into line/column
// positions. Writes are not synchronized: add files before sharing the set
// between goroutines.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// SetBaseDir sets the directory relative paths are rendered against.
func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the base directory, or the working directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add stores already cleaned content under a new id. Adding the same path
// twice yields two ids.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %q is too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:         id,
		Path:       normalizePath(path),
		Content:    content,
		LineStarts: lineStarts(content),
		Hash:       sha256.Sum256(content),
		Flags:      flags,
	})
	return id
}

// Load reads path from disk and adds it with BOM and CRLF cleaned up.
func (fs *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return 0, err
	}
	content, flags := cleanContent(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content, cleaned the same way Load does.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	cleaned, flags := cleanContent(content)
	return fs.Add(name, cleaned, flags|FileVirtual)
}

// Get returns the file for id, or nil when the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Resolve converts a span into start and end positions; an unknown file
// resolves to 1:1.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return f.position(sp.Start), f.position(sp.End)
}

// GetLine returns the 1-based line without its trailing newline, or "" when
// the line does not exist.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineStarts) {
		return ""
	}
	start := int(f.LineStarts[n-1])
	end := len(f.Content)
	if int(n) < len(f.LineStarts) {
		end = int(f.LineStarts[n]) - 1
	}
	return string(f.Content[start:end])
}
