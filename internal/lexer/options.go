package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/source"
)

type Options struct {
	// Reporter может быть nil, тогда ошибки игнорируются, но лексинг продолжается.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}
