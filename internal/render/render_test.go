package render_test

import (
	"bytes"
	"testing"

	"seqgen/internal/lexer"
	"seqgen/internal/render"
	"seqgen/internal/source"
	"seqgen/internal/testkit"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

func parse(t *testing.T, src string) tree.Stream {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("r.seq", []byte(src)))
	s, _, ok := tree.Build(lexer.New(file, lexer.Options{}).All(), nil)
	if !ok {
		t.Fatalf("build %q failed", src)
	}
	return s
}

func TestString_PreservesLayout(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"simple", "f(x, y);", "f(x, y);"},
		{"leading whitespace trimmed", "\n\n  a  b", "a  b"},
		{"newlines kept", "a\n  b\nc", "a\n  b\nc"},
		{"comments kept", "a /* c */ b // tail\nd", "a /* c */ b // tail\nd"},
		{"nested groups", "{ [ ( ) ] }", "{ [ ( ) ] }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render.String(parse(t, tt.src)); got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrite_StripComments(t *testing.T) {
	var buf bytes.Buffer
	if err := render.Write(&buf, parse(t, "a/*c*/b // x\nc"), render.Options{}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "a b \nc"; got != want {
		t.Errorf("Write = %q, want %q", got, want)
	}
}

func TestString_SyntheticNodes(t *testing.T) {
	like := token.Token{Leading: []token.Trivia{{Kind: token.TriviaSpace, Text: " "}}}
	s := tree.Stream{
		tree.NewIdent("x1", token.Token{}),
		&tree.Group{Delim: tree.DelimParen, Children: tree.Stream{tree.NewIntLit(3, token.Token{})}},
		tree.NewIntLit(4, like),
		&tree.Group{Delim: tree.DelimNone, Children: tree.Stream{tree.NewIdent("y", like)}},
	}
	if got, want := render.String(s), "x1(3) 4 y"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestString_Empty(t *testing.T) {
	if got := render.String(nil); got != "" {
		t.Errorf("String(nil) = %q", got)
	}
}

func punct(text string) *tree.Leaf {
	return &tree.Leaf{Tok: token.Token{Kind: token.Punct, Text: text}}
}

// Соседние токены без trivia не должны слипаться в другой токен.
func TestString_SeparatesTouchingTokens(t *testing.T) {
	var bare token.Token
	tests := []struct {
		name string
		s    tree.Stream
		want string
	}{
		{
			name: "ints",
			s:    tree.Stream{tree.NewIntLit(0, bare), tree.NewIntLit(1, bare), tree.NewIntLit(2, bare)},
			want: "0 1 2",
		},
		{
			name: "idents",
			s:    tree.Stream{tree.NewIdent("a0", bare), tree.NewIdent("a1", bare)},
			want: "a0 a1",
		},
		{
			name: "ident then int",
			s:    tree.Stream{tree.NewIdent("x", bare), tree.NewIntLit(1, bare)},
			want: "x 1",
		},
		{
			name: "int dot int",
			s:    tree.Stream{tree.NewIdent("t", bare), punct("."), tree.NewIntLit(0, bare), punct("."), tree.NewIntLit(1, bare)},
			want: "t.0. 1",
		},
		{
			name: "slashes",
			s:    tree.Stream{punct("/"), punct("/"), punct("/"), punct("*")},
			want: "/ / / *",
		},
		{
			name: "punct stays joint",
			s:    tree.Stream{punct("="), tree.NewIntLit(0, bare), punct(","), punct("."), punct(".")},
			want: "=0,..",
		},
		{
			name: "groups",
			s: tree.Stream{
				tree.NewIdent("f", bare),
				&tree.Group{Delim: tree.DelimParen, Children: tree.Stream{tree.NewIntLit(0, bare)}},
				tree.NewIdent("f", bare),
			},
			want: "f(0)f",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render.String(tt.s)
			if got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
			if err := testkit.CheckRelex(tt.s, got); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestString_CommentSeparates(t *testing.T) {
	if got := render.String(parse(t, "a/* c */b")); got != "a/* c */b" {
		t.Errorf("String = %q", got)
	}
}

func TestString_RelexesParsedInput(t *testing.T) {
	for _, src := range []string{
		"f(x, y);",
		"a /* c */ b // tail\nd",
		"x.0.1 1..2 'b' \"s\" 1.5e3",
	} {
		s := parse(t, src)
		if err := testkit.CheckRelex(s, render.String(s)); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
