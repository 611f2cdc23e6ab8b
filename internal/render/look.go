package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"weatherfx/internal/weather"
)

// Look collects the presentation state published by the weather controller
// and turns it into colours. It satisfies weather.Sink.
type Look struct {
	vars    map[string]float64
	classes map[string]bool
}

// NewLook returns an empty Look.
func NewLook() *Look {
	return &Look{vars: map[string]float64{}, classes: map[string]bool{}}
}

// SetVariable records a published variable.
func (l *Look) SetVariable(name string, value float64) { l.vars[name] = value }

// ToggleClass records a published class.
func (l *Look) ToggleClass(name string, on bool) {
	if on {
		l.classes[name] = true
		return
	}
	delete(l.classes, name)
}

// Var returns a published variable or 0.
func (l *Look) Var(name string) float64 { return l.vars[name] }

// Has reports whether a class is set.
func (l *Look) Has(class string) bool { return l.classes[class] }

var (
	skyClearTop    = colorful.Color{R: 0.20, G: 0.42, B: 0.74}
	skyClearBottom = colorful.Color{R: 0.62, G: 0.78, B: 0.92}
	skyStormTop    = colorful.Color{R: 0.16, G: 0.18, B: 0.22}
	skyStormBottom = colorful.Color{R: 0.42, G: 0.45, B: 0.50}
	skyColdTint    = colorful.Color{R: 0.78, G: 0.86, B: 0.96}
	rainWarm       = colorful.Color{R: 0.62, G: 0.70, B: 0.82}
	rainCold       = colorful.Color{R: 0.80, G: 0.90, B: 1.00}
	snowColor      = colorful.Color{R: 0.97, G: 0.98, B: 1.00}
	icicleColor    = colorful.Color{R: 0.85, G: 0.94, B: 1.00}
)

// Sky returns the gradient end colours for the background.
func (l *Look) Sky() (top, bottom colorful.Color) {
	storm := clamp01(math.Max(l.Var(weather.VarPrecipitation), l.Var(weather.VarSnowfall)))
	top = skyClearTop.BlendHcl(skyStormTop, storm).Clamped()
	bottom = skyClearBottom.BlendHcl(skyStormBottom, storm).Clamped()
	if l.Has(weather.ClassScarf) {
		cold := 1 - clamp01(l.Var(weather.VarTemperature)/0.1)
		bottom = bottom.BlendLab(skyColdTint, 0.35*cold).Clamped()
	}
	return top, bottom
}

// Rain returns the drop colour; cold weather turns drops icy.
func (l *Look) Rain() colorful.Color {
	t := clamp01(l.Var(weather.VarTemperature))
	return rainCold.BlendHcl(rainWarm, t).Clamped()
}

// Snow returns the flake colour.
func (l *Look) Snow() colorful.Color { return snowColor }

// Icicle returns the fringe colour drawn while the icicle class is set.
func (l *Look) Icicle() colorful.Color { return icicleColor }

// Leaf returns the colour of a leaf variant. Warmer air shifts the whole set
// from autumn reds towards greens.
func (l *Look) Leaf(variant int) colorful.Color {
	if variant < 0 {
		variant = -variant
	}
	hue := 25 + 60*clamp01(l.Var(weather.VarTemperature)) + float64(variant%4)*18
	return colorful.Hcl(math.Mod(hue, 360), 0.75, 0.55).Clamped()
}

// RGBA converts c with the given opacity into a non-premultiplied colour.
func RGBA(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * clamp01(opacity)))}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
