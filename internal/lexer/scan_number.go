package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// Поддержка: 0, 1_000, 0b1010, 0o17, 0xFF, 1.5, 1e-3, 2.5E+10 и суффиксы
// типа (1u8, 3usize, 2f32). Суффикс остаётся в Token.Text; f32/f64 делают литерал FloatLit.
// `1..2` это 1, '.', '.', 2: точка без цифры после неё в число не входит.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var accept func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			accept = func(b byte) bool { return b == '0' || b == '1' || b == '_' }
		case 'o', 'O':
			accept = func(b byte) bool { return (b >= '0' && b <= '7') || b == '_' }
		case 'x', 'X':
			accept = func(b byte) bool { return isHex(b) || b == '_' }
		}
		if accept != nil {
			lx.cursor.Bump() // '0'
			lx.cursor.Bump() // base
			digits := 0
			for accept(lx.cursor.Peek()) {
				if lx.cursor.Bump() != '_' {
					digits++
				}
			}
			if digits == 0 {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			lx.scanSuffix()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
		}
	}

	lx.eatDecimal()

	// дробная часть только если за точкой цифра ("1..2" и "x.0.1" не трогаем)
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.eatDecimal()
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			kind = token.FloatLit
			lx.cursor.Bump()
			if next == '+' || next == '-' {
				lx.cursor.Bump()
			}
			lx.eatDecimal()
		}
	}

	suffix := lx.scanSuffix()
	if suffix == "f32" || suffix == "f64" {
		kind = token.FloatLit
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) eatDecimal() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

// scanSuffix съедает суффикс типа сразу за числом и возвращает его текст.
func (lx *Lexer) scanSuffix() string {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return ""
	}
	start := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.text(lx.cursor.SpanFrom(start))
}
