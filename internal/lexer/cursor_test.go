package lexer

import (
	"testing"

	"seqgen/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.seq", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Error("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("Peek/Bump past end must return 0")
	}
}

func TestCursorPeekAtAndEat(t *testing.T) {
	cursor := NewCursor(createFile("..="))
	if cursor.PeekAt(2) != '=' {
		t.Errorf("PeekAt(2) = %q", cursor.PeekAt(2))
	}
	if cursor.PeekAt(3) != 0 {
		t.Errorf("PeekAt past end = %q", cursor.PeekAt(3))
	}
	if cursor.Eat('=') {
		t.Error("Eat must not consume a non-matching byte")
	}
	if !cursor.Eat('.') || cursor.Off != 1 {
		t.Errorf("Eat('.') failed, off=%d", cursor.Off)
	}
}

func TestCursorMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Errorf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Errorf("Reset: off=%d", cursor.Off)
	}
}

func TestCursorRest(t *testing.T) {
	cursor := NewCursor(createFile("héllo"))
	cursor.Bump()
	if got := string(cursor.Rest()); got != "éllo" {
		t.Errorf("Rest = %q", got)
	}
	cursor.Off = cursor.Limit + 3
	if len(cursor.Rest()) != 0 {
		t.Error("Rest past end must be empty")
	}
}

func TestByteClasses(t *testing.T) {
	tests := []struct {
		b                          byte
		identStart, dec, hex, punc bool
	}{
		{'a', true, false, true, false},
		{'g', true, false, false, false},
		{'_', true, false, false, false},
		{'7', false, true, true, false},
		{'~', false, false, false, true},
		{'#', false, false, false, true},
		{'(', false, false, false, false},
		{0xC3, false, false, false, false},
		{0, false, false, false, false},
	}
	for _, tt := range tests {
		if isIdentStartByte(tt.b) != tt.identStart || isDec(tt.b) != tt.dec ||
			isHex(tt.b) != tt.hex || isPunctByte(tt.b) != tt.punc {
			t.Errorf("byte %q: classes mismatch", tt.b)
		}
	}
	if !isIdentContinueByte('9') || isIdentContinueByte('-') {
		t.Error("ident continue classes")
	}
}
