// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// CheckTreeInvariants runs span invariants on a tree built straight from sf:
// 1) every source token has a non-empty span inside sf
// 2) tokens appear in strictly increasing, non-overlapping source order
// 3) a group's children lie between its open and close brackets
func CheckTreeInvariants(s tree.Stream, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	havePrev := false
	for _, tok := range tree.Tokens(s) {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %q span file mismatch: got=%d want=%d", tok.Text, sp.File, sf.ID)
		}
		if sp.Empty() {
			return fmt.Errorf("token %q has empty span %v", tok.Text, sp)
		}
		if sp.End > size {
			return fmt.Errorf("token %q span %v beyond content (%d bytes)", tok.Text, sp, size)
		}
		if havePrev && sp.Start < prev.End {
			return fmt.Errorf("token %q span %v overlaps previous %v", tok.Text, sp, prev)
		}
		prev, havePrev = sp, true
	}

	var groupErr error
	tree.Walk(s, func(n tree.Node, _ int) bool {
		if groupErr != nil {
			return false
		}
		g, ok := n.(*tree.Group)
		if !ok {
			return true
		}
		groupErr = checkGroup(g)
		return groupErr == nil
	})
	return groupErr
}

func checkGroup(g *tree.Group) error {
	if g.Delim == tree.DelimNone {
		return nil
	}
	if g.Open.Kind.Closer() != g.Close.Kind {
		return fmt.Errorf("group %v: '%s' closed by '%s'", g.Delim, g.Open.Text, g.Close.Text)
	}
	for _, child := range g.Children {
		sp, ok := firstSpan(child)
		if !ok {
			continue
		}
		if sp.Start < g.Open.Span.End {
			return fmt.Errorf("child at %v starts before '%s' at %v", sp, g.Open.Text, g.Open.Span)
		}
		if sp.End > g.Close.Span.Start {
			return fmt.Errorf("child at %v ends after '%s' at %v", sp, g.Close.Text, g.Close.Span)
		}
	}
	return nil
}

func firstSpan(n tree.Node) (source.Span, bool) {
	var tok token.Token
	switch n := n.(type) {
	case *tree.Leaf:
		tok = n.Tok
	case *tree.Group:
		if n.Open.Kind == token.Invalid {
			return source.Span{}, false
		}
		tok = n.Open
	default:
		return source.Span{}, false
	}
	return tok.Span, true
}
