package effects

import (
	"math"

	"weatherfx/internal/anim"
	"weatherfx/internal/geom"
	"weatherfx/internal/particles"
	"weatherfx/pkg/core"
)

const leafSteps = 6

// Leaf builds tumbling leaves that only appear in dry, breezy weather.
type Leaf struct {
	base
	t LeafTuning
}

// NewLeaf constructs the leaf profile.
func NewLeaf(t LeafTuning, rnd core.Rand) *Leaf {
	return &Leaf{base: newBase("leaf", t.Common, rnd), t: t}
}

// LeafIntensity gates leaves with the default thresholds.
func LeafIntensity(wind, rain, snow float64) float64 {
	return leafIntensity(wind, rain, snow, 0.1, 0.1)
}

// Intensity gates leaves with the profile's thresholds: zero at or below
// WindMin wind or at or above PrecipMax combined precipitation, otherwise
// rising with wind and falling with precipitation.
func (l *Leaf) Intensity(wind, rain, snow float64) float64 {
	return leafIntensity(wind, rain, snow, l.t.WindMin, l.t.PrecipMax)
}

func leafIntensity(wind, rain, snow, windMin, precipMax float64) float64 {
	wind = clamp01(wind)
	precip := math.Max(0, rain) + math.Max(0, snow)
	if math.IsNaN(precip) {
		precip = 0
	}
	if wind <= windMin || precip >= precipMax {
		return 0
	}
	return clamp01((wind-windMin)/(1-windMin)) * clamp01(1-precip/precipMax)
}

// Build computes one lap of a leaf.
func (l *Leaf) Build(req particles.BuildRequest) (particles.Descriptor, bool) {
	if req.TargetCount <= 0 {
		return particles.Descriptor{}, false
	}
	size, sizeFrac := l.varied(l.c.Size, req.Intensity)
	opacity, _ := l.varied(l.c.Opacity, req.Intensity)
	tilt := l.tilt()
	path := l.path(req, tilt)
	speed := l.speed(req.Intensity, sizeFrac)

	startAngle := l.rnd.Float64() * 360
	spin := core.Range(l.rnd, l.t.SpinMin, l.t.SpinMax)
	if l.rnd.Float64() < 0.5 {
		spin = -spin
	}
	flutter := size * 0.75
	perp := geom.Perpendicular(path.Dir)
	kf := make([]anim.Keyframe, 0, leafSteps+1)
	for i := 0; i <= leafSteps; i++ {
		t := float64(i) / leafSteps
		p := path.At(t).Add(perp.Scale(flutter * math.Sin(math.Pi*3*t)))
		kf = append(kf, anim.Keyframe{
			Offset:   t,
			X:        p.X,
			Y:        p.Y,
			Rotation: startAngle + spin*t,
			Opacity:  1,
		})
	}

	variants := l.t.Variants
	if variants < 1 {
		variants = 1
	}
	delay := float64(req.Slot)*l.t.StartStagger + l.rnd.Float64()*l.t.StartJitter
	if req.Lap > 0 {
		delay += l.t.RespawnMin + l.rnd.Float64()*l.t.RespawnJitter
	}
	return particles.Descriptor{
		Keyframes: kf,
		Duration:  l.duration(path, speed),
		Delay:     seconds(delay),
		Style:     particles.Style{Size: size, Opacity: opacity, Variant: l.rnd.IntN(variants)},
	}, true
}
