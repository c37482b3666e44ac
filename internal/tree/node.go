// Package tree is the generic token tree the expander works on: leaves wrap a
// single token, groups hold a delimited ordered sequence of nodes.
package tree

import (
	"strconv"
	"strings"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

// Delimiter is the bracket kind of a Group.
type Delimiter uint8

const (
	DelimNone Delimiter = iota
	DelimParen
	DelimBrace
	DelimBracket
)

func (d Delimiter) String() string {
	switch d {
	case DelimNone:
		return "None"
	case DelimParen:
		return "Paren"
	case DelimBrace:
		return "Brace"
	case DelimBracket:
		return "Bracket"
	default:
		return "Delimiter(?)"
	}
}

// Open returns the opening bracket text, empty for DelimNone.
func (d Delimiter) Open() string {
	switch d {
	case DelimParen:
		return "("
	case DelimBrace:
		return "{"
	case DelimBracket:
		return "["
	}
	return ""
}

// Close returns the closing bracket text, empty for DelimNone.
func (d Delimiter) Close() string {
	switch d {
	case DelimParen:
		return ")"
	case DelimBrace:
		return "}"
	case DelimBracket:
		return "]"
	}
	return ""
}

func delimOf(k token.Kind) Delimiter {
	switch k {
	case token.LParen, token.RParen:
		return DelimParen
	case token.LBrace, token.RBrace:
		return DelimBrace
	case token.LBracket, token.RBracket:
		return DelimBracket
	}
	return DelimNone
}

// Node is either *Leaf or *Group.
type Node interface {
	Span() source.Span
	node()
}

// Stream is an ordered sequence of sibling nodes.
type Stream []Node

// Leaf wraps one non-delimiter token.
type Leaf struct {
	Tok token.Token
}

// Group is a delimited sub-sequence. Open and Close keep the original
// bracket tokens so rendering can restore their trivia; both are zero for
// synthetic groups.
type Group struct {
	Delim    Delimiter
	Open     token.Token
	Close    token.Token
	Children Stream
}

func (*Leaf) node()  {}
func (*Group) node() {}

func (l *Leaf) Span() source.Span { return l.Tok.Span }

func (g *Group) Span() source.Span {
	if g.Open.Kind != token.Invalid {
		return g.Open.Span.Cover(g.Close.Span)
	}
	return g.Children.Span()
}

// Span covers the whole stream; zero for an empty stream.
func (s Stream) Span() source.Span {
	if len(s) == 0 {
		return source.Span{}
	}
	return s[0].Span().Cover(s[len(s)-1].Span())
}

// Ident reports the identifier text of the node, if it is an identifier leaf.
func Ident(n Node) (string, bool) {
	l, ok := n.(*Leaf)
	if !ok || l.Tok.Kind != token.Ident {
		return "", false
	}
	return l.Tok.Text, true
}

// IsPunct reports whether n is the single-character symbol ch.
func IsPunct(n Node, ch byte) bool {
	l, ok := n.(*Leaf)
	return ok && l.Tok.IsPunct(ch)
}

// AsGroup returns n as a group with delimiter d.
func AsGroup(n Node, d Delimiter) (*Group, bool) {
	g, ok := n.(*Group)
	if !ok || g.Delim != d {
		return nil, false
	}
	return g, true
}

// NewIdent builds a synthetic identifier that takes the place of like.
func NewIdent(text string, like token.Token) *Leaf {
	return &Leaf{Tok: token.Token{
		Kind:    token.Ident,
		Span:    like.Span,
		Text:    text,
		Leading: like.Leading,
	}}
}

// NewIntLit builds an unsuffixed decimal literal that takes the place of like.
func NewIntLit(v int, like token.Token) *Leaf {
	return &Leaf{Tok: token.Token{
		Kind:    token.IntLit,
		Span:    like.Span,
		Text:    strconv.Itoa(v),
		Leading: like.Leading,
	}}
}

// WithChildren returns a copy of g holding children instead of g.Children.
func (g *Group) WithChildren(children Stream) *Group {
	return &Group{Delim: g.Delim, Open: g.Open, Close: g.Close, Children: children}
}

// Leading returns the trivia in front of n: the leaf's token trivia or the
// opening bracket's. A bracketless group defers to its first child.
func Leading(n Node) []token.Trivia {
	switch n := n.(type) {
	case *Leaf:
		return n.Tok.Leading
	case *Group:
		if n.Delim == DelimNone {
			if len(n.Children) == 0 {
				return nil
			}
			return Leading(n.Children[0])
		}
		return n.Open.Leading
	}
	return nil
}

// WithLeading returns a copy of n carrying trivia in front of it. n itself
// is not modified.
func WithLeading(n Node, trivia []token.Trivia) Node {
	switch n := n.(type) {
	case *Leaf:
		tok := n.Tok
		tok.Leading = trivia
		return &Leaf{Tok: tok}
	case *Group:
		g := n.WithChildren(n.Children)
		if g.Delim != DelimNone {
			g.Open.Leading = trivia
			return g
		}
		if len(g.Children) > 0 {
			children := make(Stream, len(g.Children))
			copy(children, g.Children)
			children[0] = WithLeading(children[0], trivia)
			g.Children = children
		}
		return g
	}
	return n
}

var intSuffixes = []string{
	"usize", "isize",
	"u128", "i128",
	"u64", "i64",
	"u32", "i32",
	"u16", "i16",
	"u8", "i8",
}

// Uint parses an integer literal leaf: decimal, 0x, 0o, 0b, `_` separators
// and an optional integer type suffix.
func (l *Leaf) Uint() (uint64, error) {
	if l.Tok.Kind != token.IntLit {
		return 0, &strconv.NumError{Func: "Uint", Num: l.Tok.Text, Err: strconv.ErrSyntax}
	}
	text := l.Tok.Text
	// hex-цифры не бывают 'i'/'u', поэтому суффикс отрезается однозначно
	for _, sfx := range intSuffixes {
		if strings.HasSuffix(text, sfx) && len(text) > len(sfx) {
			text = text[:len(text)-len(sfx)]
			break
		}
	}
	text = strings.ReplaceAll(text, "_", "")
	if strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0O") {
		text = "0o" + text[2:]
	} else if len(text) > 1 && text[0] == '0' && isDecimal(text) {
		// "007" это десятичное, а не восьмеричное
		text = strings.TrimLeft(text, "0")
		if text == "" {
			text = "0"
		}
	}
	return strconv.ParseUint(text, 0, 64)
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
