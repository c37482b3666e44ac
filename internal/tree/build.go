package tree

import (
	"fmt"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

type frame struct {
	open     token.Token
	children Stream
}

// Build assembles a flat token slice (as produced by lexer.All) into a
// Stream by matching delimiters. EOF terminates input; its trivia is kept
// on the returned trailing token so callers can render comments at the end
// of a file. Invalid tokens are kept as leaves; the lexer has already
// reported them.
func Build(tokens []token.Token, r diag.Reporter) (Stream, token.Token, bool) {
	stack := []frame{{}}
	var eof token.Token
	ok := true

loop:
	for _, tok := range tokens {
		switch {
		case tok.Kind == token.EOF:
			eof = tok
			break loop

		case tok.Kind.IsOpenDelim():
			stack = append(stack, frame{open: tok})

		case tok.Kind.IsCloseDelim():
			top := &stack[len(stack)-1]
			if len(stack) == 1 || top.open.Kind.Closer() != tok.Kind {
				b := diag.ReportError(r, diag.SynUnexpectedToken, tok.Span,
					fmt.Sprintf("unexpected closing delimiter '%s'", tok.Text))
				if len(stack) > 1 {
					b.WithNote(top.open.Span, fmt.Sprintf("unclosed '%s' opened here", top.open.Text))
				}
				b.Emit()
				return nil, eof, false
			}
			g := &Group{
				Delim:    delimOf(tok.Kind),
				Open:     top.open,
				Close:    tok,
				Children: top.children,
			}
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			parent.children = append(parent.children, g)

		default:
			top := &stack[len(stack)-1]
			top.children = append(top.children, &Leaf{Tok: tok})
		}
	}

	for len(stack) > 1 {
		top := stack[len(stack)-1]
		diag.ReportError(r, diag.SynUnclosedDelimiter, top.open.Span,
			fmt.Sprintf("unclosed delimiter '%s'", top.open.Text)).Emit()
		stack = stack[:len(stack)-1]
		ok = false
	}
	if !ok {
		return nil, eof, false
	}
	return stack[0].children, eof, true
}

// Walk visits every node depth-first in source order. Returning false from
// fn skips the children of a group.
func Walk(s Stream, fn func(n Node, depth int) bool) {
	walk(s, 0, fn)
}

func walk(s Stream, depth int, fn func(Node, int) bool) {
	for _, n := range s {
		if !fn(n, depth) {
			continue
		}
		if g, ok := n.(*Group); ok {
			walk(g.Children, depth+1, fn)
		}
	}
}

// Tokens flattens the stream back into tokens, including bracket tokens of
// groups that have them.
func Tokens(s Stream) []token.Token {
	var out []token.Token
	var rec func(Stream)
	rec = func(s Stream) {
		for _, n := range s {
			switch n := n.(type) {
			case *Leaf:
				out = append(out, n.Tok)
			case *Group:
				open, closeTok := n.Open, n.Close
				if open.Kind == token.Invalid && n.Delim != DelimNone {
					open = token.Token{Kind: openKind(n.Delim), Text: n.Delim.Open()}
					closeTok = token.Token{Kind: open.Kind.Closer(), Text: n.Delim.Close()}
				}
				if open.Kind != token.Invalid {
					out = append(out, open)
				}
				rec(n.Children)
				if closeTok.Kind != token.Invalid {
					out = append(out, closeTok)
				}
			}
		}
	}
	rec(s)
	return out
}

func openKind(d Delimiter) token.Kind {
	switch d {
	case DelimParen:
		return token.LParen
	case DelimBrace:
		return token.LBrace
	case DelimBracket:
		return token.LBracket
	}
	return token.Invalid
}
