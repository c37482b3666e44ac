package trace

import (
	"runtime"
	"strconv"
	"sync"
	"time"
)

// StartHeartbeat emits a driver-scope heartbeat every interval until the
// returned stop is called. Heartbeats with no end events in between point
// at a stuck expansion (e.g. a huge range). stop is idempotent.
func StartHeartbeat(t Tracer, interval time.Duration) (stop func()) {
	if !Enabled(t) || interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				emit(t, &Event{
					Kind:   KindHeartbeat,
					Scope:  ScopeDriver,
					ID:     idCounter.Add(1),
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(beat),
					Attrs:  []Attr{{Key: "goroutines", Value: strconv.Itoa(runtime.NumGoroutine())}},
				})
			}
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
