package ui

import (
	"errors"
	"strings"
	"testing"

	"seqgen/internal/buildpipeline"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("expand", []string{"a.seq", "b.seq"}, nil).(*progressModel)

	m.applyEvent(buildpipeline.Event{File: "a.seq", Stage: buildpipeline.StageExpand, Status: buildpipeline.StatusWorking})
	if got := m.items[0].status; got != "expanding" {
		t.Errorf("status = %q", got)
	}
	if p := m.percent(); p != 0.3 {
		t.Errorf("percent = %v", p)
	}

	m.applyEvent(buildpipeline.Event{File: "a.seq", Stage: buildpipeline.StageRender, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.seq", Stage: buildpipeline.StageTree, Status: buildpipeline.StatusError, Err: errors.New("SYN2001: boom")})
	// события после финала игнорируются
	m.applyEvent(buildpipeline.Event{File: "b.seq", Stage: buildpipeline.StageLex, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "unknown.seq", Status: buildpipeline.StatusDone})

	if m.finished != 2 || m.percent() != 1.0 {
		t.Errorf("finished=%d percent=%v", m.finished, m.percent())
	}
	if m.items[1].status != "error" || m.items[1].err != "SYN2001: boom" {
		t.Errorf("item = %+v", m.items[1])
	}

	m.done = true
	view := m.View()
	for _, want := range []string{"done: expand [2/2]", "a.seq", "SYN2001: boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 2, "ab"},
		{"abc", 0, "abc"},
		{"日本語ファイル", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
