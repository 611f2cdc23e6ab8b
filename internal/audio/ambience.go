package audio

import (
	"math"
	"sync"

	"weatherfx/internal/weather"
	pcore "weatherfx/pkg/core"
)

const (
	// per-sample approach rate towards the target gains
	gainSmoothing = 0.0005
	rainLevel     = 0.35
	windLevel     = 0.5
	pourBoost     = 1.3
)

// Ambience is a beep.Streamer producing filtered noise: a bright hiss for
// rain and a slowly swelling rumble for wind. It implements weather.Sink.
// Targets and published gains are guarded by mu; the filter state belongs to
// the goroutine calling Stream.
type Ambience struct {
	mu         sync.Mutex
	rainTarget float64
	windTarget float64
	pouring    bool

	rain  float64
	wind  float64
	noise pcore.Rand

	hpPrev  float64
	hpOut   float64
	lpOut   float64
	gustPos float64
	gustInc float64
}

// NewAmbience creates a silent ambience for the given sample rate.
func NewAmbience(sampleRate int, seed int64) *Ambience {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Ambience{
		noise:   pcore.NewRNG(seed),
		gustInc: 2 * math.Pi * 0.15 / float64(sampleRate),
	}
}

// SetVariable follows precipitation and wind intensity.
func (a *Ambience) SetVariable(name string, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch name {
	case weather.VarPrecipitation:
		a.rainTarget = clamp01(value)
	case weather.VarWindSpeed:
		a.windTarget = clamp01(value)
	}
}

// ToggleClass makes pouring rain louder.
func (a *Ambience) ToggleClass(name string, on bool) {
	if name != weather.ConditionClass(weather.Pouring) {
		return
	}
	a.mu.Lock()
	a.pouring = on
	a.mu.Unlock()
}

// Levels returns the current and target gains of rain and wind.
func (a *Ambience) Levels() (rain, wind, rainTarget, windTarget float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rain, a.wind, a.rainTarget, a.windTarget
}

// Stream fills samples with the soundscape. It never ends.
func (a *Ambience) Stream(samples [][2]float64) (n int, ok bool) {
	a.mu.Lock()
	rainTarget, windTarget := a.rainTarget, a.windTarget
	if a.pouring {
		rainTarget = math.Min(1, rainTarget*pourBoost)
	}
	rain, wind := a.rain, a.wind
	a.mu.Unlock()

	for i := range samples {
		rain += (rainTarget - rain) * gainSmoothing
		wind += (windTarget - wind) * gainSmoothing
		if rainTarget == 0 && rain < 1e-4 {
			rain = 0
		}
		if windTarget == 0 && wind < 1e-4 {
			wind = 0
		}
		if rain == 0 && wind == 0 {
			samples[i] = [2]float64{}
			continue
		}

		white := a.noise.Float64()*2 - 1
		// one-pole high pass for the hiss
		a.hpOut = 0.97 * (a.hpOut + white - a.hpPrev)
		a.hpPrev = white
		// one-pole low pass for the rumble
		a.lpOut += 0.02 * (white - a.lpOut)

		a.gustPos += a.gustInc
		if a.gustPos > 2*math.Pi {
			a.gustPos -= 2 * math.Pi
		}
		gust := 0.6 + 0.4*math.Sin(a.gustPos)

		v := a.hpOut*rain*rainLevel + a.lpOut*4*wind*windLevel*gust
		v = math.Max(-1, math.Min(1, v))
		samples[i] = [2]float64{v, v}
	}

	a.mu.Lock()
	a.rain, a.wind = rain, wind
	a.mu.Unlock()
	return len(samples), true
}

// Err always returns nil.
func (a *Ambience) Err() error { return nil }

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
