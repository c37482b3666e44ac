package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/diag"
	"seqgen/internal/driver"
	"seqgen/internal/observ"
	"seqgen/internal/seq"
	"seqgen/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func codesOf(res *driver.ExpandResult) []string {
	var out []string
	for _, d := range res.Bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestExpandSource(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		mode  seq.Mode
		iters int
		codes []string
	}{
		{
			name:  "whole body",
			src:   "N in 0..3 { f(N); }",
			want:  "f(0); f(1); f(2);",
			mode:  seq.ModeWhole,
			iters: 3,
		},
		{
			name:  "section",
			src:   "N in 1..=2 { [#( x~N, )*] }",
			want:  "[ x1, x2,]",
			mode:  seq.ModeSections,
			iters: 2,
		},
		{
			name:  "comments dropped by default",
			src:   "// header\nN in 0..1 { a/* c */b }",
			want:  "a b",
			mode:  seq.ModeWhole,
			iters: 1,
		},
		{
			name:  "lex error stops pipeline",
			src:   "N in 0..1 { \"open }",
			codes: []string{"LEX1002"},
		},
		{
			name:  "unbalanced tree",
			src:   "N in 0..1 { ( }",
			codes: []string{"SYN2001"},
		},
		{
			name:  "bad header",
			src:   "N 0..1 { x }",
			codes: []string{"SYN2013"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := driver.ExpandSource(context.Background(), "t.seq", []byte(tt.src), driver.Options{})
			if tt.codes != nil {
				if res.OK() {
					t.Fatalf("expected failure, output %q", res.Output)
				}
				got := codesOf(res)
				if len(got) == 0 || got[0] != tt.codes[0] {
					t.Fatalf("codes = %v, want %v", got, tt.codes)
				}
				if res.Output != "" || res.Tree != nil {
					t.Fatalf("failed run must not produce output")
				}
				return
			}
			if !res.OK() {
				t.Fatalf("unexpected diagnostics: %v", codesOf(res))
			}
			if res.Output != tt.want {
				t.Errorf("output = %q, want %q", res.Output, tt.want)
			}
			if res.Mode != tt.mode || res.Iterations != tt.iters {
				t.Errorf("mode=%s iterations=%d", res.Mode, res.Iterations)
			}
			if !res.Timings.Has(buildpipeline.StageExpand) {
				t.Error("expand stage timing not recorded")
			}
		})
	}
}

func TestExpandSource_KeepComments(t *testing.T) {
	_, res := driver.ExpandSource(context.Background(), "t.seq",
		[]byte("N in 0..1 { a/* c */b }"), driver.Options{KeepComments: true})
	if res.Output != "a/* c */b" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestExpandFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.seq", "\ufeffI in 0..2 {\r\n  v~I\r\n}\r\n")

	tm := observ.NewTimer()
	fs, res, err := driver.ExpandFile(context.Background(), path, driver.Options{Timer: tm})
	if err != nil {
		t.Fatal(err)
	}
	if fs.Get(res.FileID) == nil {
		t.Fatal("file not registered in FileSet")
	}
	if res.Output != "v0\n  v1" {
		t.Errorf("output = %q", res.Output)
	}
	names := map[string]bool{}
	for _, p := range tm.Report().Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"load", "lex", "tree", "expand", "render"} {
		if !names[want] {
			t.Errorf("timer has no %q phase: %v", want, names)
		}
	}
}

func TestExpandFile_Missing(t *testing.T) {
	_, _, err := driver.ExpandFile(context.Background(), filepath.Join(t.TempDir(), "nope.seq"), driver.Options{})
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestDiskCache_RoundTripAndHit(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("N in 0..2 { #( n~N )* }")
	opts := driver.Options{Cache: cache}

	_, first := driver.ExpandSource(context.Background(), "a.seq", src, opts)
	if first.Cached || !first.OK() {
		t.Fatalf("first run must be a miss: cached=%v codes=%v", first.Cached, codesOf(first))
	}

	rec := &buildpipeline.RecordingSink{}
	opts.Progress = rec
	_, second := driver.ExpandSource(context.Background(), "b.seq", src, opts)
	if !second.Cached {
		t.Fatal("second run must hit the cache")
	}
	if second.Output != first.Output || second.Mode != first.Mode || second.Sections != first.Sections {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
	if second.Tree != nil {
		t.Error("cached result must not carry a tree")
	}
	evs := rec.Events()
	if len(evs) != 1 || evs[0].Status != buildpipeline.StatusCached {
		t.Errorf("events = %+v", evs)
	}

	// Другие опции рендера: другой ключ.
	opts.KeepComments = true
	if _, third := driver.ExpandSource(context.Background(), "c.seq", src, opts); third.Cached {
		t.Error("KeepComments must not share cache entries")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	opts.KeepComments = false
	if _, fourth := driver.ExpandSource(context.Background(), "d.seq", src, opts); fourth.Cached {
		t.Error("DropAll must clear entries")
	}
}

func TestDiskCache_FailuresNotCached(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("N in 0...2 { x }")
	for range 2 {
		_, res := driver.ExpandSource(context.Background(), "bad.seq", src, driver.Options{Cache: cache})
		if res.Cached || res.OK() {
			t.Fatalf("bad template: cached=%v ok=%v", res.Cached, res.OK())
		}
	}
}

func TestDiskCache_NilIsNoop(t *testing.T) {
	var c *driver.DiskCache
	var p driver.DiskPayload
	if hit, err := c.Get(driver.Digest{}, &p); hit || err != nil {
		t.Fatalf("nil cache Get = %v, %v", hit, err)
	}
	if err := c.Put(driver.Digest{}, &p); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDiskCache_XDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	c, err := driver.OpenDiskCache("seqgen")
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != filepath.Join(base, "seqgen") {
		t.Errorf("dir = %q", c.Dir())
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "sub/b.seq", "")
	a := writeFile(t, dir, "sub/a.seq", "")
	writeFile(t, dir, "sub/readme.md", "")
	extra := writeFile(t, dir, "z.seq", "")

	got, err := driver.CollectFiles([]string{extra, filepath.Join(dir, "sub"), a}, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{extra, a, b}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for i, body := range []string{"a", "b", "c", "d", "e"} {
		writeFile(t, dir, string(rune('a'+i))+".seq", "N in 0..2 { "+body+"~N }")
	}
	writeFile(t, dir, "broken.seq", "N in 0..2 x")
	missing := filepath.Join(dir, "missing.seq")

	rec := &buildpipeline.RecordingSink{}
	tracer := trace.NewRing(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), tracer)

	fs, results, err := driver.ExpandPaths(ctx, []string{dir, missing}, driver.Options{
		Jobs:     3,
		Progress: rec,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 7 {
		t.Fatalf("results = %d", len(results))
	}

	wantOut := []string{"a0 a1", "b0 b1", ""}
	for i, want := range wantOut {
		if results[i].Output != want {
			t.Errorf("results[%d] (%s) = %q, want %q", i, results[i].Path, results[i].Output, want)
		}
	}
	if !strings.HasSuffix(results[2].Path, "broken.seq") || results[2].OK() {
		t.Errorf("broken result = %+v", results[2])
	}
	if codes := codesOf(&results[2]); len(codes) == 0 || codes[0] != diag.SynExpectBody.ID() {
		t.Errorf("broken codes = %v", codes)
	}

	last := results[6]
	if last.OK() || codesOf(&last)[0] != diag.IOLoadFileError.ID() {
		t.Errorf("missing file result = %+v", last)
	}
	if f := fs.Get(last.FileID); f == nil || !strings.HasSuffix(f.Path, "missing.seq") {
		t.Errorf("load failure must point at its path, got %+v", f)
	}

	finished := map[string]buildpipeline.Status{}
	for _, ev := range rec.Events() {
		if ev.Status.Finished() {
			finished[ev.File] = ev.Status
		}
	}
	if len(finished) != 7 {
		t.Errorf("finished events for %d files: %v", len(finished), finished)
	}

	var sawDriver, sawNode bool
	for _, ev := range tracer.Snapshot() {
		sawDriver = sawDriver || ev.Scope == trace.ScopeDriver
		sawNode = sawNode || ev.Scope == trace.ScopeNode
	}
	if !sawDriver || !sawNode {
		t.Errorf("trace scopes: driver=%v node=%v", sawDriver, sawNode)
	}
}

func TestExpandPaths_Empty(t *testing.T) {
	_, results, err := driver.ExpandPaths(context.Background(), []string{t.TempDir()}, driver.Options{})
	if err != nil || len(results) != 0 {
		t.Fatalf("results=%v err=%v", results, err)
	}
}

func TestExpandPaths_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.seq", "N in 0..1 { x }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := driver.ExpandPaths(ctx, []string{dir}, driver.Options{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestTokenizeAndBuildTree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.seq", "N in 0..1 { (a) }")
	tok, err := driver.Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(tok.Tokens); n != 12 {
		t.Errorf("tokens = %d", n)
	}
	tr, err := driver.BuildTree(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Tree) != 7 || tr.Bag.Len() != 0 {
		t.Errorf("tree = %d nodes, %d diags", len(tr.Tree), tr.Bag.Len())
	}
}
