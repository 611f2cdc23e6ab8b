package anim

import (
	"math"
	"testing"
	"time"
)

func line() []Keyframe {
	return []Keyframe{
		{Offset: 0, X: 0, Y: 0, Opacity: 1},
		{Offset: 1, X: 10, Y: 100, Opacity: 0.5},
	}
}

func TestAdvanceFiresCompletionAfterDuration(t *testing.T) {
	tl := NewTimeline()
	a := tl.Play(line(), Timing{Duration: 100 * time.Millisecond, Delay: 50 * time.Millisecond})
	fired := 0
	a.OnFinish(func() { fired++ })

	if n := tl.Advance(100 * time.Millisecond); n != 0 || fired != 0 {
		t.Fatalf("expected no completion mid-flight, got n=%d fired=%d", n, fired)
	}
	if got := a.Progress(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected progress 0.5, got %f", got)
	}
	if n := tl.Advance(50 * time.Millisecond); n != 1 || fired != 1 {
		t.Fatalf("expected completion at end, got n=%d fired=%d", n, fired)
	}
	if !a.Finished() {
		t.Fatal("animation should report finished")
	}
	if tl.Len() != 0 {
		t.Fatalf("finished animation should leave the timeline, len=%d", tl.Len())
	}
	tl.Advance(time.Second)
	if fired != 1 {
		t.Fatal("completion must fire exactly once")
	}
}

func TestCancelSuppressesCompletion(t *testing.T) {
	tl := NewTimeline()
	a := tl.Play(line(), Timing{Duration: 10 * time.Millisecond})
	fired := false
	a.OnFinish(func() { fired = true })
	a.Cancel()
	tl.Advance(time.Second)
	if fired {
		t.Fatal("cancelled animation must not complete")
	}
	if _, ok := a.Frame(); ok {
		t.Fatal("cancelled animation must not render")
	}
	if !a.Cancelled() {
		t.Fatal("expected cancelled state")
	}
}

func TestCallbackStartedAnimationWaitsForNextAdvance(t *testing.T) {
	tl := NewTimeline()
	laps := 0
	var start func()
	start = func() {
		a := tl.Play(line(), Timing{Duration: 0})
		a.OnFinish(func() {
			laps++
			start()
		})
	}
	start()
	tl.Advance(0)
	if laps != 1 {
		t.Fatalf("expected one lap per advance, got %d", laps)
	}
	tl.Advance(0)
	if laps != 2 {
		t.Fatalf("expected two laps after two advances, got %d", laps)
	}
}

func TestFrameHoldsFirstKeyframeDuringDelay(t *testing.T) {
	tl := NewTimeline()
	a := tl.Play(line(), Timing{Duration: time.Second, Delay: time.Second})
	tl.Advance(500 * time.Millisecond)
	f, ok := a.Frame()
	if !ok {
		t.Fatal("expected a frame while delayed")
	}
	if f.X != 0 || f.Y != 0 || f.Opacity != 1 {
		t.Fatalf("expected first keyframe, got %+v", f)
	}
	tl.Advance(time.Second)
	f, _ = a.Frame()
	if math.Abs(f.Y-50) > 1e-9 || math.Abs(f.Opacity-0.75) > 1e-9 {
		t.Fatalf("expected midpoint, got %+v", f)
	}
}

func TestSampleMultipleStops(t *testing.T) {
	kf := []Keyframe{
		{Offset: 0, X: 0},
		{Offset: 0.25, X: 10},
		{Offset: 1, X: 40, Rotation: 90},
	}
	if f := Sample(kf, 0.125); math.Abs(f.X-5) > 1e-9 {
		t.Fatalf("expected 5, got %f", f.X)
	}
	if f := Sample(kf, 0.625); math.Abs(f.X-25) > 1e-9 || math.Abs(f.Rotation-45) > 1e-9 {
		t.Fatalf("unexpected frame %+v", f)
	}
	if f := Sample(kf, 2); f.X != 40 {
		t.Fatalf("expected clamp to last keyframe, got %f", f.X)
	}
	if f := Sample(nil, 0.5); f != (Frame{}) {
		t.Fatalf("expected zero frame, got %+v", f)
	}
}
