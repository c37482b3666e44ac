package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanPunct читает ровно один символ: разделитель или пунктуацию.
// Многосимвольные операторы не склеиваются, вместо этого выставляется Joint,
// если следующий байт тоже пунктуация и между ними нет trivia.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	switch ch {
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	}

	if !isPunctByte(ch) {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character '"+lx.text(sp)+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	tok := emit(token.Punct)
	tok.Joint = lx.nextIsJointPunct()
	return tok
}

// "a//b" это '/' перед комментарием, а не пара '/','/'.
func (lx *Lexer) nextIsJointPunct() bool {
	next := lx.cursor.Peek()
	if !isPunctByte(next) {
		return false
	}
	if next == '/' {
		after := lx.cursor.PeekAt(1)
		return after != '/' && after != '*'
	}
	return true
}
