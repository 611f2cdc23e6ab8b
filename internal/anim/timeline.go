package anim

import "time"

// Keyframe is one stop of a linear keyframe animation. Offset runs from 0 to 1
// over the active duration.
type Keyframe struct {
	Offset   float64
	X, Y     float64
	Rotation float64
	Opacity  float64
}

// Frame is the interpolated state of an animation at one instant.
type Frame struct {
	X, Y     float64
	Rotation float64
	Opacity  float64
}

// Timing controls a single-iteration playback.
type Timing struct {
	Duration time.Duration
	Delay    time.Duration
}

type playState uint8

const (
	statePending playState = iota
	stateRunning
	stateFinished
	stateCancelled
)

// Animation is one playback registered on a Timeline.
type Animation struct {
	tl        *Timeline
	keyframes []Keyframe
	begin     time.Duration
	end       time.Duration
	state     playState
	onFinish  func()
}

// Timeline is a manually advanced clock that drives animations. Completion
// callbacks fire from Advance, never from the call that started the
// animation.
type Timeline struct {
	now     time.Duration
	running []*Animation
}

// NewTimeline constructs an empty timeline at time zero.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Now returns the elapsed timeline time.
func (tl *Timeline) Now() time.Duration { return tl.now }

// Len reports how many animations are pending or running.
func (tl *Timeline) Len() int { return len(tl.running) }

// Play registers a new animation starting after timing.Delay.
func (tl *Timeline) Play(keyframes []Keyframe, timing Timing) *Animation {
	if timing.Duration < 0 {
		timing.Duration = 0
	}
	if timing.Delay < 0 {
		timing.Delay = 0
	}
	a := &Animation{
		tl:        tl,
		keyframes: keyframes,
		begin:     tl.now + timing.Delay,
		end:       tl.now + timing.Delay + timing.Duration,
	}
	tl.running = append(tl.running, a)
	return a
}

// Advance moves the clock forward by dt and fires the completion callbacks of
// every animation that ended. Animations started by those callbacks are first
// evaluated on the next Advance. It returns the number of completions.
func (tl *Timeline) Advance(dt time.Duration) int {
	if dt > 0 {
		tl.now += dt
	}
	var finished []*Animation
	kept := tl.running[:0]
	for _, a := range tl.running {
		switch {
		case a.state == stateCancelled:
			continue
		case tl.now >= a.end:
			a.state = stateFinished
			finished = append(finished, a)
			continue
		case tl.now >= a.begin:
			a.state = stateRunning
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(tl.running); i++ {
		tl.running[i] = nil
	}
	tl.running = kept

	for _, a := range finished {
		if fn := a.onFinish; fn != nil {
			fn()
		}
	}
	return len(finished)
}

// OnFinish replaces the completion callback. Passing nil detaches it.
func (a *Animation) OnFinish(fn func()) {
	if a == nil {
		return
	}
	a.onFinish = fn
}

// Cancel stops the animation without firing its completion callback.
func (a *Animation) Cancel() {
	if a == nil || a.state == stateFinished {
		return
	}
	a.state = stateCancelled
	a.onFinish = nil
}

// Cancelled reports whether Cancel stopped the animation.
func (a *Animation) Cancelled() bool { return a != nil && a.state == stateCancelled }

// Finished reports whether the animation played to the end.
func (a *Animation) Finished() bool { return a != nil && a.state == stateFinished }

// Keyframes exposes the animation's keyframes.
func (a *Animation) Keyframes() []Keyframe { return a.keyframes }

// Progress returns the fraction of the active duration elapsed, clamped to
// [0,1]. During the delay it is 0.
func (a *Animation) Progress() float64 {
	if a == nil {
		return 0
	}
	now := a.tl.now
	if now <= a.begin {
		return 0
	}
	if now >= a.end || a.end <= a.begin {
		return 1
	}
	return float64(now-a.begin) / float64(a.end-a.begin)
}

// Frame samples the animation at the current timeline time. While delayed the
// first keyframe applies; a cancelled animation yields no frame.
func (a *Animation) Frame() (Frame, bool) {
	if a == nil || a.state == stateCancelled || len(a.keyframes) == 0 {
		return Frame{}, false
	}
	return Sample(a.keyframes, a.Progress()), true
}
