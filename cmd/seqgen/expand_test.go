package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/driver"
	"seqgen/internal/source"
)

func expandOne(t *testing.T, name, src string) (*source.FileSet, driver.ExpandResult) {
	t.Helper()
	fs, res := driver.ExpandSource(context.Background(), name, []byte(src), driver.Options{MaxDiagnostics: 10})
	if res == nil {
		t.Fatalf("no result for %s", name)
	}
	return fs, *res
}

func TestOutputNames(t *testing.T) {
	results := []driver.ExpandResult{{Path: "a/one.seq"}, {Path: "b/two.seq"}}
	names, err := outputNames(results, ".seq")
	if err != nil {
		t.Fatal(err)
	}
	if names[0] != "one.out" || names[1] != "two.out" {
		t.Fatalf("names = %v", names)
	}

	results = append(results, driver.ExpandResult{Path: "c/one.seq"})
	if _, err := outputNames(results, ".seq"); err == nil || !strings.Contains(err.Error(), "one.out") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestWithTrailingNewline(t *testing.T) {
	tests := map[string]string{
		"":     "",
		"x":    "x\n",
		"x\n":  "x\n",
		"a\nb": "a\nb\n",
	}
	for in, want := range tests {
		if got := withTrailingNewline(in); got != want {
			t.Errorf("withTrailingNewline(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteExpandTextStdout(t *testing.T) {
	_, ok := expandOne(t, "ok.seq", "N in 0..2 { v~N }")
	_, bad := expandOne(t, "bad.seq", "N 0..1 { x }")

	var buf bytes.Buffer
	if err := writeExpandText(&buf, []driver.ExpandResult{ok, bad}, expandFlags{ext: ".seq"}); err != nil {
		t.Fatal(err)
	}
	want := "// ok.seq\nv0 v1\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := writeExpandText(&buf, []driver.ExpandResult{ok}, expandFlags{ext: ".seq"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "v0 v1\n" {
		t.Fatalf("single result got %q", buf.String())
	}
}

func TestWriteExpandTextOutDir(t *testing.T) {
	_, res := expandOne(t, "tmpl/list.seq", "N in 1..=3 { #( N, )* }")
	dir := filepath.Join(t.TempDir(), "gen")

	if err := writeExpandText(nil, []driver.ExpandResult{res}, expandFlags{outDir: dir, ext: ".seq"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "list.out"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "1, 2, 3,\n" {
		t.Fatalf("list.out = %q", got)
	}
}

func TestBuildExpandJSON(t *testing.T) {
	_, ok := expandOne(t, "ok.seq", "N in 0..3 { f(N); }")
	fs, bad := expandOne(t, "bad.seq", "N 0..1 { x }")

	doc := buildExpandJSON([]driver.ExpandResult{ok, bad}, fs, expandFlags{maxDiagnostics: 10, withNotes: true})
	if doc.Count != 2 || doc.Failed != 1 {
		t.Fatalf("count=%d failed=%d", doc.Count, doc.Failed)
	}
	first := doc.Results[0]
	if !first.OK || first.Mode != "whole" || first.Iterations != 3 || first.Output != "f(0); f(1); f(2);" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	second := doc.Results[1]
	if second.OK || second.Mode != "" || len(second.Diagnostics) == 0 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if second.Diagnostics[0].Code != "SYN2013" {
		t.Fatalf("code = %s", second.Diagnostics[0].Code)
	}
}

func TestPrintStageTimings(t *testing.T) {
	var a, b driver.ExpandResult
	a.Timings.Add(buildpipeline.StageLex, 2*time.Millisecond)
	b.Timings.Add(buildpipeline.StageLex, 3*time.Millisecond)
	b.Cached = true

	var buf bytes.Buffer
	printStageTimings(&buf, []driver.ExpandResult{a, b})
	out := buf.String()
	if !strings.Contains(out, "lex      5.0 ms") {
		t.Errorf("missing lex total in %q", out)
	}
	if strings.Contains(out, "render") {
		t.Errorf("unrecorded stage printed: %q", out)
	}
	if !strings.Contains(out, "cached   1/2") {
		t.Errorf("missing cache count in %q", out)
	}
}

func TestPrintResultDiagnosticsShort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.seq")
	if err := os.WriteFile(path, []byte("N 0..1 { x }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, results, err := driver.ExpandPaths(context.Background(), []string{path}, driver.Options{MaxDiagnostics: 10})
	if err != nil {
		t.Fatal(err)
	}
	fs.SetBaseDir(dir)

	var buf bytes.Buffer
	printResultDiagnostics(&buf, results, fs, expandFlags{diagFormat: "short", withNotes: true})
	want := "error SYN2013 bad.seq:1:3 expected `in` after loop variable `N`\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrintResultDiagnosticsSarif(t *testing.T) {
	fs, bad := expandOne(t, "bad.seq", "N 0..1 { x }")

	var buf bytes.Buffer
	printResultDiagnostics(&buf, []driver.ExpandResult{bad}, fs, expandFlags{diagFormat: "sarif"})
	out := buf.String()
	for _, want := range []string{`"version": "2.1.0"`, `"ruleId": "SYN2013"`, `"name": "seqgen"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in:\n%s", want, out)
		}
	}
}
