package seq

import (
	"strconv"

	"seqgen/internal/tree"
)

// Substitute rewrites one copy of fragment for the value n of variable:
//
//	X ~ var  -> ident X<n>
//	var      -> unsuffixed integer literal n
//	group    -> same delimiter, children substituted
//
// Everything else is copied. The fusion window is checked first, so
// `var~var` fuses into `var<n>`.
func Substitute(fragment tree.Stream, variable string, n int) tree.Stream {
	out := make(tree.Stream, 0, len(fragment))
	for i := 0; i < len(fragment); i++ {
		node := fragment[i]
		switch v := node.(type) {
		case *tree.Group:
			out = append(out, v.WithChildren(Substitute(v.Children, variable, n)))
			continue
		case *tree.Leaf:
			name, isIdent := tree.Ident(v)
			if !isIdent {
				break
			}
			if fusesAt(fragment, i, variable) {
				out = append(out, tree.NewIdent(name+strconv.Itoa(n), v.Tok))
				i += 2
				continue
			}
			if name == variable {
				out = append(out, tree.NewIntLit(n, v.Tok))
				continue
			}
		}
		out = append(out, node)
	}
	return out
}

// fusesAt reports whether fragment[i:i+3] is `ident ~ variable`.
func fusesAt(fragment tree.Stream, i int, variable string) bool {
	if i+2 >= len(fragment) {
		return false
	}
	if !tree.IsPunct(fragment[i+1], '~') {
		return false
	}
	name, ok := tree.Ident(fragment[i+2])
	return ok && name == variable
}
