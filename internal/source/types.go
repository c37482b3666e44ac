package source

// FileID индексирует файл внутри одного FileSet.
type FileID uint32

// FileFlags records how a file's content was obtained and cleaned.
type FileFlags uint8

const (
	// FileVirtual marks content added from memory (tests, fuzzing, load failures).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one template held by a FileSet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineStarts[i] is the offset of the first byte of line i+1.
	LineStarts []uint32
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
