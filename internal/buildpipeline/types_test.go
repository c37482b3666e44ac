package buildpipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageLex) {
		t.Fatal("empty timings must not have stages")
	}
	tm.Add(StageLex, time.Millisecond)
	tm.Add(StageLex, time.Millisecond)
	tm.Add(StageExpand, 3*time.Millisecond)
	if got := tm.Duration(StageLex); got != 2*time.Millisecond {
		t.Errorf("lex = %v", got)
	}
	if got := tm.Sum(StageLex, StageExpand, StageRender); got != 5*time.Millisecond {
		t.Errorf("sum = %v", got)
	}

	var total Timings
	total.Add(StageCache, 0)
	total.Merge(tm)
	total.Merge(tm)
	if !total.Has(StageCache) || total.Duration(StageExpand) != 6*time.Millisecond {
		t.Errorf("merged = %+v", total)
	}
	var nilTimings *Timings
	nilTimings.Add(StageLex, time.Second)
}

func TestStatusFinished(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusQueued:  false,
		StatusWorking: false,
		StatusDone:    true,
		StatusCached:  true,
		StatusError:   true,
	} {
		if got := status.Finished(); got != want {
			t.Errorf("%s.Finished() = %v", status, got)
		}
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{File: "a.seq", Status: StatusDone})
	if ev := <-ch; ev.File != "a.seq" {
		t.Errorf("channel event = %+v", ev)
	}
	Emit(nil, Event{}) // не паникует
	ChannelSink{}.OnEvent(Event{})

	rec := &RecordingSink{}
	Emit(rec, Event{Stage: StageLex})
	Emit(rec, Event{Stage: StageTree})
	if evs := rec.Events(); len(evs) != 2 || evs[1].Stage != StageTree {
		t.Errorf("recorded = %+v", evs)
	}
}
