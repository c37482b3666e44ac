package driver

import (
	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// TokenizeResult is what the tokenize and tree commands print.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Tree    tree.Stream // nil для Tokenize и при несбалансированных скобках
	Bag     *diag.Bag
}

func (r *TokenizeResult) reporter() diag.Reporter {
	return diag.BagReporter{Bag: r.Bag}
}

// Tokenize loads path and lexes it up to and including EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}
	res.Tokens = lexer.New(res.File, lexer.Options{Reporter: res.reporter()}).All()
	settleDiagnostics(res.Bag)
	return res, nil
}

// BuildTree is Tokenize followed by tree assembly.
func BuildTree(path string, maxDiagnostics int) (*TokenizeResult, error) {
	res, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	if s, _, ok := tree.Build(res.Tokens, res.reporter()); ok {
		res.Tree = s
	}
	settleDiagnostics(res.Bag)
	return res, nil
}
