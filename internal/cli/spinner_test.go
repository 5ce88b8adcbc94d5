package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinner_StartStop(t *testing.T) {
	s := newSpinner(context.Background(), "working")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() != true {
		// Stop cancels the internal context.
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinner_DoubleStopIsSafe(t *testing.T) {
	s := newSpinner(context.Background(), "working")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "working")
	s.Start()
	cancel()

	deadline := time.After(time.Second)
	for !s.Cancelled() {
		select {
		case <-deadline:
			t.Fatal("spinner did not observe cancellation")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	s.Stop()
}
