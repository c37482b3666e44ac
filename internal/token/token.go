package token

import (
	"seqgen/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// Joint is set on Punct tokens immediately followed by another Punct
	// with no trivia in between (`.` in `..`).
	Joint bool
}

// IsLiteral reports whether the token is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsPunct reports whether the token is the punctuation character ch.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == ch
}
