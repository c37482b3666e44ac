package seq

import (
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// maxPrealloc ограничивает префетч ёмкости для огромных диапазонов.
const maxPrealloc = 1 << 16

// copySeparator goes in front of a copy whose first node has no trivia of
// its own, so neighbouring copies never touch.
var copySeparator = []token.Trivia{{Kind: token.TriviaSpace, Text: " "}}

// Repeat concatenates Substitute(fragment, variable, n) for every n in r,
// ascending. An empty or inverted range yields an empty, non-nil stream.
func Repeat(fragment tree.Stream, variable string, r Range) tree.Stream {
	capHint := maxPrealloc
	if n := r.Len(); n < maxPrealloc && len(fragment) < maxPrealloc {
		capHint = min(len(fragment)*n, maxPrealloc)
	}
	out := make(tree.Stream, 0, capHint)
	for n := r.Start; n < r.End; n++ {
		cp := Substitute(fragment, variable, n)
		if n > r.Start {
			cp = withLeadingIfBare(cp, copySeparator)
		}
		out = append(out, cp...)
	}
	return out
}

// withLeadingIfBare gives s[0] the trivia when it has none. s is modified in
// place, the node is replaced by a copy.
func withLeadingIfBare(s tree.Stream, trivia []token.Trivia) tree.Stream {
	if len(s) == 0 || len(trivia) == 0 || len(tree.Leading(s[0])) > 0 {
		return s
	}
	s[0] = tree.WithLeading(s[0], trivia)
	return s
}
