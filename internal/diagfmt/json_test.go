package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.seq", []byte("n in 0..\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynExpectIntLiteral, source.Span{File: fileID, Start: 8, End: 8}, "missing end").
		WithNote(source.Span{File: fileID, Start: 5, End: 6}, "range starts here"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output Report
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SYN2301" {
		t.Errorf("severity/code = %s/%s", d.Severity, d.Code)
	}
	if d.Title != diag.SynExpectIntLiteral.Title() {
		t.Errorf("title = %q", d.Title)
	}
	if d.Location.File != "test.seq" || d.Location.Start.Line != 1 || d.Location.Start.Col != 9 || d.Location.End.Offset != 8 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Start.Col != 6 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxAndNoPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.seq", []byte("abc"))
	bag := diag.NewBag(10)
	for i := range 3 {
		bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "x"))
	}

	out := BuildReport(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Truncated != 1 {
		t.Fatalf("count = %d truncated = %d, want 2 and 1", out.Count, out.Truncated)
	}
	if loc := out.Diagnostics[1].Location; loc.Start.Line != 0 || loc.Start.Offset != 1 || loc.End.Offset != 2 {
		t.Errorf("positions must be omitted, got %+v", out.Diagnostics[0].Location)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Errorf("notes must be omitted")
	}
}

func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(1), source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"diagnostics": []`) {
		t.Errorf("empty bag must encode an empty array, got %s", buf.String())
	}
}

func lexFile(t *testing.T, src string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("t.seq", []byte(src)))
}

func TestFormatTokens(t *testing.T) {
	fs, file := lexFile(t, "a ..= 1")
	toks := lexer.New(file, lexer.Options{}).All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	out := pretty.String()
	if !strings.Contains(out, `Punct      "." at 1:3-1:4 joint (leading: Space)`) {
		t.Errorf("pretty tokens:\n%s", out)
	}
	if !strings.Contains(out, "EOF") {
		t.Errorf("EOF missing:\n%s", out)
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks, fs); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(toks) || !decoded[1].Joint || decoded[1].Leading[0] != "Space" || decoded[1].Col != 3 {
		t.Errorf("json tokens = %+v", decoded)
	}
}

func TestFormatTree(t *testing.T) {
	fs, file := lexFile(t, "n { f(x) }")
	s, _, ok := tree.Build(lexer.New(file, lexer.Options{}).All(), nil)
	if !ok {
		t.Fatal("build failed")
	}

	var pretty bytes.Buffer
	if err := FormatTreePretty(&pretty, s, fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Ident "n" at 1:1`,
		`Group Brace (2) at 1:3`,
		`  ├─ Ident "f" at 1:5`,
		`  └─ Group Paren (1) at 1:6`,
		`     └─ Ident "x" at 1:7`,
		``,
	}, "\n")
	if pretty.String() != want {
		t.Errorf("tree pretty:\n%s\nwant:\n%s", pretty.String(), want)
	}

	var js bytes.Buffer
	if err := FormatTreeJSON(&js, s); err != nil {
		t.Fatal(err)
	}
	var decoded []TreeNodeOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[1].Delim != "Brace" || len(decoded[1].Children) != 2 {
		t.Errorf("json tree = %+v", decoded)
	}
}
