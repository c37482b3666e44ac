package testkit

import (
	"fmt"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// CheckRelex lexes rendered (the text produced for s) and checks that it
// yields exactly the tokens of s, compared by kind and text.
func CheckRelex(s tree.Stream, rendered string) error {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("relex.seq", []byte(rendered)))
	bag := diag.NewBag(1)
	got := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
	if bag.Len() > 0 {
		return fmt.Errorf("rendered text does not lex: %s", bag.Items()[0].Message)
	}
	got = got[:len(got)-1] // EOF

	want := tree.Tokens(s)
	for i := range min(len(got), len(want)) {
		if got[i].Kind != want[i].Kind || got[i].Text != want[i].Text {
			return fmt.Errorf("token %d: got %s %q, want %s %q in %q",
				i, got[i].Kind, got[i].Text, want[i].Kind, want[i].Text, rendered)
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("got %d tokens, want %d in %q", len(got), len(want), rendered)
	}
	return nil
}
