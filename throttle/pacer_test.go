package throttle

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aschepis/llmrelay/dispatch"
)

func TestPacerReleasesEveryCall(t *testing.T) {
	pacer := NewPacer(5*time.Millisecond, zerolog.Nop())
	defer pacer.Close()

	calls := make([]*dispatch.Call, 3)
	for i := range calls {
		calls[i] = dispatch.NewCall([]byte("payload"))
		pacer.Route(calls[i])
	}

	start := time.Now()
	for i, call := range calls {
		select {
		case rep := <-call.Reply:
			if rep.Kind != dispatch.GateProceed {
				t.Errorf("Expected call %d to proceed, got %+v", i, rep)
			}
		case <-time.After(time.Second):
			t.Fatalf("Expected call %d to be released", i)
		}
	}

	// Three releases cannot all happen inside one interval.
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Expected pacing between releases, all done in %v", elapsed)
	}
}

func TestPacerPreservesOrder(t *testing.T) {
	pacer := NewPacer(time.Millisecond, zerolog.Nop())
	defer pacer.Close()

	first := dispatch.NewCall([]byte("first"))
	second := dispatch.NewCall([]byte("second"))
	pacer.Route(first)
	pacer.Route(second)

	<-first.Reply
	select {
	case <-second.Reply:
	case <-time.After(time.Second):
		t.Fatal("Expected the second call released after the first")
	}
}

func TestPacerCloseReleasesQueued(t *testing.T) {
	pacer := NewPacer(time.Hour, zerolog.Nop())

	call := dispatch.NewCall([]byte("payload"))
	pacer.Route(call)
	pacer.Close()

	select {
	case rep := <-call.Reply:
		if rep.Kind != dispatch.GateProceed {
			t.Errorf("Expected a proceed on close, got %+v", rep)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected queued calls released on close")
	}
}

func TestPacerRouteAfterClose(t *testing.T) {
	pacer := NewPacer(time.Hour, zerolog.Nop())
	pacer.Close()

	call := dispatch.NewCall([]byte("payload"))
	pacer.Route(call)

	select {
	case rep := <-call.Reply:
		if rep.Kind != dispatch.GateProceed {
			t.Errorf("Expected an immediate proceed, got %+v", rep)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a closed pacer to release immediately")
	}
}
