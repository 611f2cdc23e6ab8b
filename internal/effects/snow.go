package effects

import (
	"math"

	"weatherfx/internal/anim"
	"weatherfx/internal/geom"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

const snowSteps = 12

// Snow builds flakes that sway across their path. Bigger flakes sway wider.
type Snow struct {
	base
	t SnowTuning
}

// NewSnow constructs the snow profile.
func NewSnow(t SnowTuning, rnd core.Rand) *Snow {
	return &Snow{base: newBase("snow", t.Common, rnd), t: t}
}

// Build computes one lap of a flake.
func (s *Snow) Build(req particles.BuildRequest) (particles.Descriptor, bool) {
	if req.TargetCount <= 0 {
		return particles.Descriptor{}, false
	}
	radius, sizeFrac := s.varied(s.c.Size, req.Intensity)
	opacity, _ := s.varied(s.c.Opacity, req.Intensity)
	tilt := s.tilt()
	path := s.path(req, tilt)
	speed := s.speed(req.Intensity, sizeFrac)
	duration := s.duration(path, speed)

	amp := s.t.SwayMin + (s.t.SwayMax-s.t.SwayMin)*sizeFrac
	phase := s.rnd.Float64() * 2 * math.Pi
	perp := geom.Perpendicular(path.Dir)
	kf := make([]anim.Keyframe, 0, snowSteps+1)
	for i := 0; i <= snowSteps; i++ {
		t := float64(i) / snowSteps
		p := path.At(t).Add(perp.Scale(amp * math.Sin(phase+2*math.Pi*s.t.SwayCycles*t)))
		kf = append(kf, anim.Keyframe{Offset: t, X: p.X, Y: p.Y, Opacity: snowFade(t)})
	}

	d := particles.Descriptor{
		Keyframes: kf,
		Duration:  duration,
		Style:     particles.Style{Size: radius, Opacity: opacity},
	}
	if req.Lap == 0 {
		d.Delay = seconds(s.rnd.Float64() * s.t.StartDelayRatio * duration.Seconds())
	}
	return d, true
}

// snowFade fades flakes in over the first and out over the last tenth.
func snowFade(t float64) float64 {
	switch {
	case t < 0.1:
		return t / 0.1
	case t > 0.9:
		return (1 - t) / 0.1
	}
	return 1
}
