// Package render turns a token tree back into text. Every token is written
// with the whitespace and comments that preceded it in the template, so the
// output keeps the template's layout; no reformatting is done. Where two
// tokens with no trivia between them would lex as something else (`a` `b`,
// `/` `/`, `1` `.` `5`), a single space is inserted.
package render

import (
	"bufio"
	"io"
	"strings"

	"seqgen/internal/token"
	"seqgen/internal/tree"
)

type Options struct {
	// KeepComments writes comment trivia; whitespace is always kept.
	KeepComments bool
}

type printer struct {
	w       *bufio.Writer
	opts    Options
	started bool

	prev        token.Token // последний выведенный токен
	dotAfterInt bool        // prev это '.' вплотную за целым литералом
}

// Write renders s to w. Whitespace before the first emitted token is dropped.
func Write(w io.Writer, s tree.Stream, opts Options) error {
	p := &printer{w: bufio.NewWriter(w), opts: opts}
	p.stream(s)
	return p.w.Flush()
}

// String renders s with comments kept.
func String(s tree.Stream) string {
	var b strings.Builder
	_ = Write(&b, s, Options{KeepComments: true})
	return b.String()
}

func (p *printer) stream(s tree.Stream) {
	for _, n := range s {
		switch n := n.(type) {
		case *tree.Leaf:
			p.token(n.Tok)
		case *tree.Group:
			p.group(n)
		}
	}
}

func (p *printer) group(g *tree.Group) {
	if g.Delim == tree.DelimNone {
		p.stream(g.Children)
		return
	}
	open, closeTok := g.Open, g.Close
	if open.Kind == token.Invalid {
		open = token.Token{Kind: token.Punct, Text: g.Delim.Open(), Leading: g.Open.Leading}
		closeTok = token.Token{Kind: token.Punct, Text: g.Delim.Close(), Leading: g.Close.Leading}
	}
	p.token(open)
	p.stream(g.Children)
	p.token(closeTok)
}

func (p *printer) token(tok token.Token) {
	separated := false
	for _, tr := range tok.Leading {
		switch tr.Kind {
		case token.TriviaSpace, token.TriviaNewline:
			if !p.started {
				continue
			}
		case token.TriviaLineComment, token.TriviaBlockComment:
			if !p.opts.KeepComments {
				// комментарий мог разделять токены: оставляем пробел
				if p.started && !separated {
					p.write(" ")
					separated = true
				}
				continue
			}
			p.started = true
		}
		p.write(tr.Text)
		separated = separated || tr.Text != ""
	}
	if tok.Text == "" {
		return
	}

	glued := p.started && !separated
	if glued && p.wouldMerge(tok) {
		p.write(" ")
		glued = false
	}
	p.write(tok.Text)
	p.dotAfterInt = glued && tok.IsPunct('.') && p.prev.Kind == token.IntLit
	p.prev = tok
	p.started = true
}

// wouldMerge reports whether tok written right after p.prev re-lexes as
// different tokens.
func (p *printer) wouldMerge(tok token.Token) bool {
	switch {
	case isWord(p.prev.Kind) && isWord(tok.Kind):
		return true
	case p.prev.IsPunct('/'):
		// `//` и `/*` открывают комментарий
		return strings.HasPrefix(tok.Text, "/") || strings.HasPrefix(tok.Text, "*")
	case p.dotAfterInt:
		// `1.` + `5` это уже 1.5
		return tok.Text[0] >= '0' && tok.Text[0] <= '9'
	}
	return false
}

func isWord(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.Lifetime:
		return true
	}
	return false
}

func (p *printer) write(s string) {
	p.w.WriteString(s)
}
