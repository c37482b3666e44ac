package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"seqgen/internal/source"
)

// Cursor is a byte position in one file. Reads past Limit yield 0.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32
	src   []byte
}

func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s is too large: %w", f.Path, err))
	}
	return Cursor{File: f, Limit: limit, src: f.Content}
}

func (c *Cursor) at(off uint32) byte {
	if off >= c.Limit {
		return 0
	}
	return c.src[off]
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte without consuming it.
func (c *Cursor) Peek() byte { return c.at(c.Off) }

// PeekAt looks n bytes ahead of the current one.
func (c *Cursor) PeekAt(n uint32) byte { return c.at(c.Off + n) }

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.at(c.Off)
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes the next byte only if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Rest returns the unread bytes.
func (c *Cursor) Rest() []byte { return c.src[min(c.Off, c.Limit):c.Limit] }

// Mark - сохранённая позиция для SpanFrom и Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
