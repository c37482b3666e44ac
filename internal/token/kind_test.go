package token_test

import (
	"testing"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.CharLit}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Punct, token.LParen, token.Lifetime}
	for _, k := range non {
		if tok(k, "").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunct(t *testing.T) {
	if !tok(token.Punct, "#").IsPunct('#') {
		t.Fatalf("'#' must match")
	}
	if tok(token.Punct, "#").IsPunct('*') {
		t.Fatalf("'#' must not match '*'")
	}
	if tok(token.Ident, "#").IsPunct('#') {
		t.Fatalf("identifiers are never punctuation")
	}
}

func TestDelimiters(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBrace:   token.RBrace,
		token.LBracket: token.RBracket,
	}
	for open, closer := range pairs {
		if !open.IsOpenDelim() || open.IsCloseDelim() {
			t.Errorf("%v must be an opening delimiter", open)
		}
		if !closer.IsCloseDelim() || closer.IsOpenDelim() {
			t.Errorf("%v must be a closing delimiter", closer)
		}
		if open.Closer() != closer {
			t.Errorf("%v.Closer() = %v, want %v", open, open.Closer(), closer)
		}
	}
	if token.Ident.Closer() != token.Invalid {
		t.Errorf("non-delimiters have no closer")
	}
}

func TestKindString(t *testing.T) {
	if token.Punct.String() != "Punct" || token.RBrace.String() != "RBrace" {
		t.Fatalf("unexpected names: %s %s", token.Punct, token.RBrace)
	}
}
