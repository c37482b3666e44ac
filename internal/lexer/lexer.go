package lexer

import (
	"unicode/utf8"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

// Lexer turns a template file into tokens. Every significant token carries
// the whitespace and comments that precede it as Leading trivia; trivia at
// the end of the file ends up on EOF.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	peeked  bool
	pending token.Token
	trivia  []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// Next returns the next significant token. It keeps returning EOF once the
// input is exhausted.
func (lx *Lexer) Next() token.Token {
	if lx.peeked {
		lx.peeked = false
		return lx.pending
	}
	lx.collectLeadingTrivia()
	tok := lx.scan()
	tok.Leading, lx.trivia = lx.trivia, nil
	return tok
}

// Peek returns the token Next would return, without consuming it.
func (lx *Lexer) Peek() token.Token {
	if !lx.peeked {
		lx.pending = lx.Next()
		lx.peeked = true
	}
	return lx.pending
}

// All lexes the rest of the file; the last element is always EOF.
func (lx *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) scan() token.Token {
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}
	switch ch := lx.cursor.Peek(); {
	case isIdentStartByte(ch), ch >= utf8.RuneSelf:
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanCharOrLifetime()
	default:
		return lx.scanPunct()
	}
}

// EmptySpan returns a zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
