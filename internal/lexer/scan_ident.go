package lexer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanIdent сканирует идентификатор. Не-ASCII идентификаторы приводятся к NFC,
// чтобы сравнение с переменной цикла шло по каноническому тексту.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if r < utf8.RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		// fast-path: чистый ASCII
		if lx.cursor.Peek() < utf8.RuneSelf {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(sp)}
		}
	} else {
		if sz == 0 || !isIdentStartRune(r) {
			lx.bumpRune()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, "unknown character '"+lx.text(sp)+"'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
	}

	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: norm.NFC.String(lx.text(sp))}
}
