package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

// TokenOutput is one entry of the JSON token dump.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Joint   bool        `json:"joint,omitempty"`
	Span    source.Span `json:"span"`
	Line    uint32      `json:"line,omitempty"`
	Col     uint32      `json:"col,omitempty"`
	Leading []string    `json:"leading,omitempty"`
}

// untilEOF yields tokens up to and including the first EOF.
func untilEOF(tokens []token.Token, fn func(i int, tok token.Token) error) error {
	for i, tok := range tokens {
		if err := fn(i, tok); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

func triviaNames(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	names := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		names[i] = tr.Kind.String()
	}
	return names
}

// FormatTokensPretty выводит по строке на токен:
//
//	  3: Punct      "." at 1:3-1:4 joint (leading: Space)
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var line strings.Builder
	return untilEOF(tokens, func(i int, tok token.Token) error {
		line.Reset()
		fmt.Fprintf(&line, "%3d: %-10s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&line, " %q", tok.Text)
		}
		from, to := fs.Resolve(tok.Span)
		fmt.Fprintf(&line, " at %d:%d-%d:%d", from.Line, from.Col, to.Line, to.Col)
		if tok.Joint {
			line.WriteString(" joint")
		}
		if names := triviaNames(tok); names != nil {
			fmt.Fprintf(&line, " (leading: %s)", strings.Join(names, ", "))
		}
		line.WriteByte('\n')
		_, err := io.WriteString(w, line.String())
		return err
	})
}

// FormatTokensJSON пишет массив TokenOutput. Если fs не nil, у записей
// заполняются line/col начала токена.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	out := make([]TokenOutput, 0, len(tokens))
	_ = untilEOF(tokens, func(_ int, tok token.Token) error {
		rec := TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Joint:   tok.Joint,
			Span:    tok.Span,
			Leading: triviaNames(tok),
		}
		if fs != nil {
			from, _ := fs.Resolve(tok.Span)
			rec.Line, rec.Col = from.Line, from.Col
		}
		out = append(out, rec)
		return nil
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
