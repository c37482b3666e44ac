package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRune decodes the rune at the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	rest := lx.cursor.Rest()
	switch {
	case len(rest) == 0:
		return utf8.RuneError, 0
	case rest[0] < utf8.RuneSelf:
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	lx.cursor.Off += uint32(size) // #nosec G115 -- size <= utf8.UTFMax
}

// Классы ASCII-байтов; не-ASCII разбирается по рунам.
const (
	classIdentStart uint8 = 1 << iota
	classDigit
	classHex
	classPunct
)

var byteClass = func() (t [utf8.RuneSelf]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= classIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= classIdentStart
	}
	t['_'] |= classIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= classDigit | classHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= classHex
	}
	for _, b := range "!#$%&*+,-./:;<=>?@^|~\\`" {
		t[b] |= classPunct
	}
	return t
}()

func hasClass(b byte, c uint8) bool {
	return b < utf8.RuneSelf && byteClass[b]&c != 0
}

func isIdentStartByte(b byte) bool    { return hasClass(b, classIdentStart) }
func isIdentContinueByte(b byte) bool { return hasClass(b, classIdentStart|classDigit) }
func isDec(b byte) bool               { return hasClass(b, classDigit) }
func isHex(b byte) bool               { return hasClass(b, classHex) }
func isPunctByte(b byte) bool         { return hasClass(b, classPunct) }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
