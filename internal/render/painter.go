//go:build ebiten

package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"weatherfx/internal/geom"
	"weatherfx/internal/scene"
	"weatherfx/internal/weather"
	pcore "weatherfx/pkg/core"
)

// Painter draws a stage with the colours of a Look.
type Painter struct {
	look *Look

	sky          *ebiten.Image
	skyBuf       []byte
	skyTop       colorful.Color
	skyBottom    colorful.Color
	skyW, skyH   int
	icicles      *ebiten.Image
	icicleW      int
	icicleH      int
	icicleSource pcore.Rand
}

// NewPainter constructs a painter reading colours from look.
func NewPainter(look *Look, seed int64) *Painter {
	return &Painter{look: look, icicleSource: pcore.NewRNG(seed)}
}

// Draw paints the background, every visible layer and the icicle fringe.
func (p *Painter) Draw(dst *ebiten.Image, st *scene.Stage) {
	w, h := st.Size()
	if w <= 0 || h <= 0 {
		return
	}
	p.drawSky(dst, w, h)
	for _, l := range st.Layers() {
		if l.Hidden {
			continue
		}
		switch l.Name() {
		case weather.LayerRain:
			p.drawRain(dst, l)
		case weather.LayerSnow:
			p.drawSnow(dst, l)
		case weather.LayerLeaf:
			p.drawLeaves(dst, l)
		}
	}
	if p.look.Has(weather.ClassIcicles) {
		p.drawIcicles(dst, w, h)
	}
}

func (p *Painter) drawSky(dst *ebiten.Image, w, h int) {
	top, bottom := p.look.Sky()
	if p.sky == nil || p.skyW != w || p.skyH != h {
		p.sky = ebiten.NewImage(w, h)
		p.skyBuf = make([]byte, 4*w*h)
		p.skyW, p.skyH = w, h
		p.skyTop, p.skyBottom = colorful.Color{R: -1}, colorful.Color{}
	}
	if !top.AlmostEqualRgb(p.skyTop) || !bottom.AlmostEqualRgb(p.skyBottom) {
		fillGradientRGBA(p.skyBuf, w, h, top, bottom)
		p.sky.WritePixels(p.skyBuf)
		p.skyTop, p.skyBottom = top, bottom
	}
	dst.DrawImage(p.sky, nil)
}

func (p *Painter) drawRain(dst *ebiten.Image, l *scene.Layer) {
	base := p.look.Rain()
	for _, s := range l.Sprites() {
		f, ok := s.Frame()
		if !ok {
			continue
		}
		axis := geom.Direction(f.Rotation).Scale(s.Style().Size / 2)
		col := RGBA(base, f.Opacity)
		vector.StrokeLine(dst,
			float32(f.X-axis.X), float32(f.Y-axis.Y),
			float32(f.X+axis.X), float32(f.Y+axis.Y),
			1.5, col, true)
	}
}

func (p *Painter) drawSnow(dst *ebiten.Image, l *scene.Layer) {
	base := p.look.Snow()
	for _, s := range l.Sprites() {
		f, ok := s.Frame()
		if !ok {
			continue
		}
		vector.DrawFilledCircle(dst, float32(f.X), float32(f.Y), float32(s.Style().Size), RGBA(base, f.Opacity), true)
	}
}

// drawLeaves renders each leaf as two overlapping lobes along its rotated
// axis plus a stem.
func (p *Painter) drawLeaves(dst *ebiten.Image, l *scene.Layer) {
	for _, s := range l.Sprites() {
		f, ok := s.Frame()
		if !ok {
			continue
		}
		st := s.Style()
		col := RGBA(p.look.Leaf(st.Variant), f.Opacity)
		axis := geom.Direction(f.Rotation).Scale(st.Size / 4)
		r := float32(st.Size / 4)
		vector.DrawFilledCircle(dst, float32(f.X+axis.X), float32(f.Y+axis.Y), r, col, true)
		vector.DrawFilledCircle(dst, float32(f.X-axis.X), float32(f.Y-axis.Y), r, col, true)
		stem := darken(col)
		vector.StrokeLine(dst,
			float32(f.X-axis.X*2), float32(f.Y-axis.Y*2),
			float32(f.X+axis.X*2), float32(f.Y+axis.Y*2),
			1, stem, true)
	}
}

func (p *Painter) drawIcicles(dst *ebiten.Image, w, h int) {
	fh := int(math.Max(8, float64(h)/6))
	if p.icicles == nil || p.icicleW != w || p.icicleH != fh {
		mask := IcicleMask(w, fh, p.icicleSource)
		buf := make([]byte, 4*w*fh)
		icicleRGBA(buf, mask, RGBA(p.look.Icicle(), 0.85))
		p.icicles = ebiten.NewImage(w, fh)
		p.icicles.WritePixels(buf)
		p.icicleW, p.icicleH = w, fh
	}
	dst.DrawImage(p.icicles, nil)
}

func darken(c color.NRGBA) color.NRGBA {
	return color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}
