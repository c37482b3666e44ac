package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// TreeNodeOutput: JSON-представление узла дерева токенов.
type TreeNodeOutput struct {
	Kind     string           `json:"kind"`
	Token    string           `json:"token,omitempty"`
	Text     string           `json:"text,omitempty"`
	Delim    string           `json:"delim,omitempty"`
	Span     source.Span      `json:"span"`
	Children []TreeNodeOutput `json:"children,omitempty"`
}

func buildTreeOutput(s tree.Stream) []TreeNodeOutput {
	out := make([]TreeNodeOutput, 0, len(s))
	for _, n := range s {
		switch n := n.(type) {
		case *tree.Leaf:
			out = append(out, TreeNodeOutput{
				Kind:  "leaf",
				Token: n.Tok.Kind.String(),
				Text:  n.Tok.Text,
				Span:  n.Span(),
			})
		case *tree.Group:
			out = append(out, TreeNodeOutput{
				Kind:     "group",
				Delim:    n.Delim.String(),
				Span:     n.Span(),
				Children: buildTreeOutput(n.Children),
			})
		}
	}
	return out
}

// FormatTreeJSON выводит дерево токенов в JSON формате
func FormatTreeJSON(w io.Writer, s tree.Stream) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildTreeOutput(s))
}

// FormatTreePretty печатает дерево с отступами:
//
//	Ident "n" at 1:1
//	Group Brace (2) at 1:11
//	  ├─ Ident "f" at 1:13
//	  └─ Group Paren (0) at 1:14
func FormatTreePretty(w io.Writer, s tree.Stream, fs *source.FileSet) error {
	var err error
	var rec func(s tree.Stream, prefix string)
	rec = func(s tree.Stream, prefix string) {
		for i, n := range s {
			if err != nil {
				return
			}
			branch, childPrefix := "├─ ", "│  "
			if i == len(s)-1 {
				branch, childPrefix = "└─ ", "   "
			}
			if prefix == "" {
				branch, childPrefix = "", "  "
			}
			pos, _ := fs.Resolve(n.Span())
			switch n := n.(type) {
			case *tree.Leaf:
				_, err = fmt.Fprintf(w, "%s%s%s %q at %d:%d\n", prefix, branch, n.Tok.Kind, n.Tok.Text, pos.Line, pos.Col)
			case *tree.Group:
				_, err = fmt.Fprintf(w, "%s%sGroup %s (%d) at %d:%d\n", prefix, branch, n.Delim, len(n.Children), pos.Line, pos.Col)
				rec(n.Children, prefix+childPrefix)
			}
		}
	}
	rec(s, "")
	return err
}
