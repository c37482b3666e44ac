package source

import (
	"bytes"
	"slices"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanContent strips a leading UTF-8 BOM and turns CRLF into LF. A lone
// '\r' is kept.
func cleanContent(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := bytes.CutPrefix(raw, utf8BOM)
	if hadBOM {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// lineStarts assumes len(content) fits in uint32; FileSet.Add checks it.
func lineStarts(content []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- bounded by the caller
		}
	}
	return starts
}

func (f *File) position(off uint32) LineCol {
	i, exact := slices.BinarySearch(f.LineStarts, off)
	if !exact {
		i--
	}
	return LineCol{Line: uint32(i + 1), Col: off - f.LineStarts[i] + 1} // #nosec G115 -- i < len(LineStarts)
}
