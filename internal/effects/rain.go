package effects

import (
	"weatherfx/internal/anim"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

// Rain builds straight falling drops rotated to their travel direction.
type Rain struct {
	base
	t RainTuning
}

// NewRain constructs the rain profile.
func NewRain(t RainTuning, rnd core.Rand) *Rain {
	return &Rain{base: newBase("rain", t.Common, rnd), t: t}
}

// Build computes one lap of a drop.
func (r *Rain) Build(req particles.BuildRequest) (particles.Descriptor, bool) {
	if req.TargetCount <= 0 {
		return particles.Descriptor{}, false
	}
	length, sizeFrac := r.varied(r.c.Size, req.Intensity)
	opacity, _ := r.varied(r.c.Opacity, req.Intensity)
	tilt := r.tilt()
	path := r.path(req, tilt)
	speed := r.speed(req.Intensity, sizeFrac)

	d := particles.Descriptor{
		Keyframes: []anim.Keyframe{
			{Offset: 0, X: path.Start.X, Y: path.Start.Y, Rotation: tilt, Opacity: 1},
			{Offset: 1, X: path.End.X, Y: path.End.Y, Rotation: tilt, Opacity: 1},
		},
		Duration: r.duration(path, speed),
		Style:    particles.Style{Size: length, Opacity: opacity},
	}
	if req.Lap == 0 {
		d.Delay = seconds(r.rnd.Float64() * r.t.StartDelayMax)
	}
	return d, true
}
