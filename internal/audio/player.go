package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker and plays an Ambience through a master volume.
type Player struct {
	mu          sync.Mutex
	ambience    *Ambience
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player with its own ambience.
func NewPlayer(seed int64, master float64) *Player {
	a := NewAmbience(int(sampleRate), seed)
	ctrl := &beep.Ctrl{Streamer: a}
	p := &Player{
		ambience: a,
		ctrl:     ctrl,
		volume:   newVolume(ctrl, master),
		mixer:    &beep.Mixer{},
	}
	p.mixer.Add(p.volume)
	return p
}

// Ambience returns the streamer to attach as a weather sink.
func (p *Player) Ambience() *Ambience { return p.ambience }

// Start opens the speaker and begins playback.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// SetPaused pauses or resumes the soundscape.
func (p *Player) SetPaused(paused bool) {
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Close stops playback. Safe to call when Start failed.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	p.mixer.Clear()
	p.initialized = false
}

// newVolume maps a linear gain to a log2 volume effect. Zero is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
