package diag

import (
	"testing"

	"seqgen/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		ok := bag.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d returned %v, want %v", i, ok, want)
		}
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("Len=%d Dropped=%d", bag.Len(), bag.Dropped())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, SynInfo, source.Span{Start: 5, End: 6}, "w"))
	bag.Add(NewError(SynUnexpectedToken, source.Span{Start: 5, End: 6}, "e"))
	bag.Add(NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "lex"))
	bag.Add(NewError(LexUnknownChar, source.Span{Start: 1, End: 2}, "lex again"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Code != LexUnknownChar || items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestBagUnlimited(t *testing.T) {
	bag := NewBag(0)
	for range 100 {
		bag.Add(New(SevWarning, SynInfo, source.Span{}, "w"))
	}
	if bag.Len() != 100 || bag.Dropped() != 0 {
		t.Fatalf("Len=%d Dropped=%d", bag.Len(), bag.Dropped())
	}
	if bag.HasErrors() {
		t.Fatal("warnings only")
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := NewError(SynUnexpectedToken, source.Span{}, "x").WithNote(source.Span{}, "first")
	a := base.WithNote(source.Span{Start: 1}, "a")
	b := base.WithNote(source.Span{Start: 2}, "b")
	if a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" || len(base.Notes) != 1 {
		t.Fatalf("notes aliased: %+v %+v", a.Notes, b.Notes)
	}
}

func TestPendingEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	rep := BagReporter{Bag: bag}

	b := ReportError(rep, SynHeaderMissingIn, source.Span{Start: 2, End: 4}, "expected `in`").
		WithNote(source.Span{Start: 0, End: 1}, "loop variable declared here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != SynHeaderMissingIn || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if b.Diagnostic().Message != "expected `in`" {
		t.Fatalf("builder lost message")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:      "LEX1004",
		SynHeaderBadRange: "SYN2014",
		IOLoadFileError:   "IO4001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if SynExpectBody.String() != "[SYN2019]: Expected brace-delimited body" {
		t.Errorf("unexpected String(): %s", SynExpectBody.String())
	}
}
