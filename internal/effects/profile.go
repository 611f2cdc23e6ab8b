package effects

import (
	"math"
	"time"

	"weatherfx/internal/geom"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

// Profile turns a build request into one lap of a particle animation.
type Profile interface {
	Name() string
	MaxCount() int
	SetViewSize(w, h float64)
	SetWind(intensity float64)
	Wind() float64
	Bounds() geom.Rect
	Build(req particles.BuildRequest) (particles.Descriptor, bool)
}

// base carries the state shared by every profile: view size, wind and the
// common derivations.
type base struct {
	name  string
	c     Common
	rnd   core.Rand
	viewW float64
	viewH float64
	wind  float64
}

func newBase(name string, c Common, rnd core.Rand) base {
	if rnd == nil {
		rnd = core.NewRNG(1)
	}
	return base{name: name, c: c, rnd: rnd, viewW: 1000, viewH: 1000}
}

func (b *base) Name() string  { return b.name }
func (b *base) MaxCount() int { return b.c.MaxCount }
func (b *base) Wind() float64 { return b.wind }

// SetViewSize stores the viewport; non-positive sizes are ignored.
func (b *base) SetViewSize(w, h float64) {
	if w > 0 {
		b.viewW = w
	}
	if h > 0 {
		b.viewH = h
	}
}

func (b *base) SetWind(intensity float64) { b.wind = clamp01(intensity) }

// Bounds is the padded viewport paths are clipped to.
func (b *base) Bounds() geom.Rect {
	return geom.ViewportRect(b.viewW, b.viewH, b.c.Path.Padding)
}

// varied biases intensity by a symmetric perturbation and maps the result
// into v's range. It returns the value and the biased fraction.
func (b *base) varied(v Variation, intensity float64) (float64, float64) {
	f := clamp01(intensity + core.Symmetric(b.rnd, v.Variation))
	return v.Min + (v.Max-v.Min)*f, f
}

// speed derives the travel speed for a particle whose size fraction is
// sizeFrac.
func (b *base) speed(intensity, sizeFrac float64) float64 {
	s := b.c.Speed
	v := s.Min + (s.Max-s.Min)*clamp01(intensity)
	v *= 1 + b.wind*s.WindMultiplier
	v *= core.Range(b.rnd, s.JitterMin, s.JitterMax)
	v *= s.SizeBase + sizeFrac*s.SizeScale
	return math.Max(s.Min, math.Min(s.Max, v))
}

// tilt is the signed path angle in degrees; negative skews to the left.
func (b *base) tilt() float64 {
	t := b.c.Tilt
	exp := t.Exponent
	if exp <= 0 {
		exp = 1
	}
	return -(math.Pow(b.wind, exp)*t.Max + core.Symmetric(b.rnd, t.Variation))
}

// duration is never shorter than MinDuration so no particle crosses the view
// unrealistically fast.
func (b *base) duration(path geom.Path, speed float64) time.Duration {
	ref := b.viewH
	if ref <= 0 {
		ref = 1
	}
	secs := b.c.Speed.MinDuration
	if speed > 0 {
		secs = math.Max(secs, (path.Length()/ref)/speed)
	}
	return seconds(secs)
}

// path picks the stratified path for slot and pulls its start back by the
// configured spawn offset.
func (b *base) path(req particles.BuildRequest, tiltDeg float64) geom.Path {
	p := geom.PathForSlot(req.Slot, req.TargetCount, tiltDeg, b.Bounds(), b.rnd)
	pull := b.c.Path.SpawnOffset + b.rnd.Float64()*b.c.Path.SpawnVariation
	if pull > 0 {
		p.Start = p.Start.Sub(p.Dir.Scale(pull))
	}
	return p
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func seconds(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
