package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"N in 0..3 { f(N); }",
	"N in 1..=2 { [#( x~N, )*] }",
	"N in 0..1 { #( a )* #( b~N )* }",
	"N in 0...3 { x }",
	"N in 3..0 { x }",
	"N in 0..18446744073709551616 { x }",
	"N in 0..2 { \"open }",
	"N in 0..2 { /* unterminated",
	"n in 0..3 {n}",
	"n in 0..2 { let x = #(n)* ; }",
	"i in 0..2 { #(a~i)* }",
	"n in 0..2 {f(n)}",
	"N in 0..2 { t.N.0 }",
	"N in 0..2 { a/#(/x)* }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.seq файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".seq" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
