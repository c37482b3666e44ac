package seq

import "seqgen/internal/tree"

// scanner expands `#( ... )*` sections in place.
type scanner struct {
	variable string
	rng      Range
	sections int
}

// scan walks siblings left to right with a three-node window. A matched
// section is replaced by its repetition and never rescanned; other groups
// are rebuilt with their children scanned. Only direct siblings form a
// marker: `#` closing one group and `(..)*` opening the next do not match.
func (s *scanner) scan(fragment tree.Stream) (tree.Stream, bool) {
	out := make(tree.Stream, 0, len(fragment))
	found := false
	for i := 0; i < len(fragment); i++ {
		if body, ok := markerAt(fragment, i); ok {
			// первая копия наследует отступ перед `#`
			rep := withLeadingIfBare(Repeat(body.Children, s.variable, s.rng), tree.Leading(fragment[i]))
			out = append(out, rep...)
			s.sections++
			found = true
			i += 2
			continue
		}
		if g, ok := fragment[i].(*tree.Group); ok {
			children, inner := s.scan(g.Children)
			found = found || inner
			out = append(out, g.WithChildren(children))
			continue
		}
		out = append(out, fragment[i])
	}
	return out, found
}

func markerAt(fragment tree.Stream, i int) (*tree.Group, bool) {
	if i+2 >= len(fragment) {
		return nil, false
	}
	if !tree.IsPunct(fragment[i], '#') || !tree.IsPunct(fragment[i+2], '*') {
		return nil, false
	}
	return tree.AsGroup(fragment[i+1], tree.DelimParen)
}
