package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// "..." с escape-последовательностями; перевод строки внутри допустим.
// Escape не валидируем: тело шаблона копируется как есть.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanCharOrLifetime различает 'x', '\n' и 'label.
func (lx *Lexer) scanCharOrLifetime() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	if lx.cursor.Eat('\\') {
		lx.bumpRune()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump() // \u{...}, \x7f
		}
		return lx.finishChar(start)
	}

	r, sz := lx.peekRune()
	if sz == 0 || r == '\n' {
		return lx.finishChar(start)
	}
	lx.bumpRune()
	if lx.cursor.Peek() == '\'' {
		return lx.finishChar(start)
	}

	if isIdentStartRune(r) {
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Lifetime, Span: sp, Text: lx.text(sp)}
	}
	return lx.finishChar(start)
}

func (lx *Lexer) finishChar(start Mark) token.Token {
	if lx.cursor.Eat('\'') {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.CharLit, Span: sp, Text: lx.text(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated character literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
