package lexer

import (
	"bytes"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

var (
	lineCommentOpen  = []byte("//")
	blockCommentOpen = []byte("/*")
	blockCommentEnd  = []byte("*/")
)

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// skipWhile съедает байты, пока pred истинен, и возвращает их число.
func (lx *Lexer) skipWhile(pred func(byte) bool) int {
	n := 0
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	return n
}

// collectLeadingTrivia fills lx.trivia with everything between the previous
// token and the next one. Runs of blanks and runs of newlines each collapse
// into a single trivia item; block comments nest.
func (lx *Lexer) collectLeadingTrivia() {
	lx.trivia = nil
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		rest := lx.cursor.Rest()

		var kind token.TriviaKind
		switch {
		case lx.skipWhile(isBlank) > 0:
			kind = token.TriviaSpace
		case lx.skipWhile(func(b byte) bool { return b == '\n' }) > 0:
			kind = token.TriviaNewline
		case bytes.HasPrefix(rest, lineCommentOpen):
			lx.skipWhile(func(b byte) bool { return b != '\n' })
			kind = token.TriviaLineComment
		case bytes.HasPrefix(rest, blockCommentOpen):
			lx.skipBlockComment(start)
			kind = token.TriviaBlockComment
		default:
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.trivia = append(lx.trivia, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
	}
}

// skipBlockComment consumes a comment starting at `/*`. An unterminated one
// runs to EOF and is reported.
func (lx *Lexer) skipBlockComment(start Mark) {
	for depth := 0; ; {
		rest := lx.cursor.Rest()
		switch {
		case len(rest) == 0:
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			return
		case bytes.HasPrefix(rest, blockCommentOpen):
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case bytes.HasPrefix(rest, blockCommentEnd):
			lx.cursor.Bump()
			lx.cursor.Bump()
			if depth--; depth == 0 {
				return
			}
		default:
			lx.cursor.Bump()
		}
	}
}
