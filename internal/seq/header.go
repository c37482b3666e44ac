package seq

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"

	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// Range is the half-open interval [Start, End). Inverted ranges are valid
// and iterate zero times.
type Range struct {
	Start int
	End   int
}

// Len returns the number of iterations.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Header is a parsed invocation header.
type Header struct {
	Var       string
	VarSpan   source.Span
	Range     Range
	Inclusive bool
	Body      tree.Stream
	// Brace group holding Body; its bracket tokens are not part of the output.
	BodyGroup *tree.Group
}

type headerParser struct {
	in  tree.Stream
	pos int
	r   diag.Reporter
}

// ParseHeader parses `<ident> in <int>(..|..=)<int> { <body> }`. On failure
// exactly one diagnostic is reported and ok is false.
func ParseHeader(input tree.Stream, r diag.Reporter) (Header, bool) {
	p := &headerParser{in: input, r: r}
	return p.parse()
}

func (p *headerParser) parse() (Header, bool) {
	var h Header

	n := p.peek()
	name, isIdent := tree.Ident(n)
	if !isIdent || name == "in" || name == "_" {
		p.fail(diag.SynExpectIdentifier, p.here(), "expected loop variable identifier")
		return Header{}, false
	}
	h.Var = name
	h.VarSpan = n.Span()
	p.pos++

	if kw, ok := tree.Ident(p.peek()); !ok || kw != "in" {
		p.fail(diag.SynHeaderMissingIn, p.here(), fmt.Sprintf("expected `in` after loop variable `%s`", h.Var))
		return Header{}, false
	}
	p.pos++

	start, ok := p.bound("start")
	if !ok {
		return Header{}, false
	}

	inclusive, ok := p.rangeOp()
	if !ok {
		return Header{}, false
	}

	endNode := p.peek()
	end, ok := p.bound("end")
	if !ok {
		return Header{}, false
	}
	if inclusive {
		if end == math.MaxInt {
			p.fail(diag.SynIntOverflow, endNode.Span(), "inclusive range end overflows")
			return Header{}, false
		}
		end++
	}
	h.Range = Range{Start: start, End: end}
	h.Inclusive = inclusive

	body, isBody := tree.AsGroup(p.peek(), tree.DelimBrace)
	if !isBody {
		p.fail(diag.SynExpectBody, p.here(), "expected `{` to open the sequence body")
		return Header{}, false
	}
	h.BodyGroup = body
	h.Body = body.Children
	p.pos++

	if p.pos < len(p.in) {
		rest := p.in[p.pos:]
		p.fail(diag.SynUnexpectedToken, rest.Span(), "unexpected tokens after sequence body")
		return Header{}, false
	}
	return h, true
}

// rangeOp consumes `..` or `..=`. The two dots must be joint; the `=` may
// be separated from them (`0.. =2`).
func (p *headerParser) rangeOp() (inclusive, ok bool) {
	first := p.leaf()
	if first == nil || !first.Tok.IsPunct('.') || !first.Tok.Joint {
		p.fail(diag.SynHeaderBadRange, p.here(), "expected `..` or `..=`")
		return false, false
	}
	p.pos++
	second := p.leaf()
	if second == nil || !second.Tok.IsPunct('.') {
		p.fail(diag.SynHeaderBadRange, first.Span(), "expected `..` or `..=`")
		return false, false
	}
	p.pos++
	next := p.leaf()
	switch {
	case next == nil:
		return false, true
	case next.Tok.IsPunct('='):
		p.pos++
		return true, true
	case next.Tok.IsPunct('.') && second.Tok.Joint:
		p.fail(diag.SynHeaderBadRange, first.Span().Cover(next.Span()), "malformed range operator `...`")
		return false, false
	}
	return false, true
}

func (p *headerParser) bound(which string) (int, bool) {
	l := p.leaf()
	if l == nil || l.Tok.Kind != token.IntLit {
		msg := fmt.Sprintf("expected non-negative integer literal as range %s", which)
		if l != nil && l.Tok.IsPunct('-') {
			msg = fmt.Sprintf("range %s must be non-negative", which)
		}
		p.fail(diag.SynExpectIntLiteral, p.here(), msg)
		return 0, false
	}
	u, err := l.Uint()
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.fail(diag.SynIntOverflow, l.Span(), fmt.Sprintf("range %s `%s` is out of range", which, l.Tok.Text))
		} else {
			p.fail(diag.SynExpectIntLiteral, l.Span(), fmt.Sprintf("invalid integer literal `%s`", l.Tok.Text))
		}
		return 0, false
	}
	v, err := safecast.Conv[int](u)
	if err != nil {
		p.fail(diag.SynIntOverflow, l.Span(), fmt.Sprintf("range %s `%s` is out of range", which, l.Tok.Text))
		return 0, false
	}
	p.pos++
	return v, true
}

func (p *headerParser) peek() tree.Node {
	if p.pos >= len(p.in) {
		return nil
	}
	return p.in[p.pos]
}

func (p *headerParser) leaf() *tree.Leaf {
	l, _ := p.peek().(*tree.Leaf)
	return l
}

// here is the span of the current node, or a zero-width point just past the
// last node when input ended early.
func (p *headerParser) here() source.Span {
	if n := p.peek(); n != nil {
		return n.Span()
	}
	if len(p.in) == 0 {
		return source.Span{}
	}
	return p.in[len(p.in)-1].Span().ZeroideToEnd()
}

func (p *headerParser) fail(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.r, code, sp, msg).Emit()
}
