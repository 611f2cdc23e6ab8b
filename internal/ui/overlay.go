//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"weatherfx/internal/geom"
	"weatherfx/internal/scene"
	"weatherfx/internal/weather"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindSource exposes the global wind state drawn by the overlay.
type WindSource interface {
	WindIntensity() float64
	WindTilt() float64
}

// Overlay draws optional debugging visuals on top of the weather layers:
// the travel path of every live particle (D) and a wind arrow field (W).
type Overlay struct {
	stage    *scene.Stage
	wind     WindSource
	showPath bool
	showWind bool

	pixel         *ebiten.Image
	windSamples   []windSample
	windCacheW    int
	windCacheH    int
	windPixelSpan float64
}

type windSample struct {
	sx float64
	sy float64
}

var pathColors = map[string]color.RGBA{
	weather.LayerRain: {R: 64, G: 164, B: 223, A: 90},
	weather.LayerSnow: {R: 220, G: 230, B: 255, A: 90},
	weather.LayerLeaf: {R: 230, G: 140, B: 40, A: 140},
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(stage *scene.Stage, wind WindSource) *Overlay {
	o := &Overlay{stage: stage, wind: wind}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		o.showPath = !o.showPath
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		o.showWind = !o.showWind
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	w, h := o.stage.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if o.showWind && o.wind != nil {
		o.drawWindField(screen, w, h)
	}
	if o.showPath {
		o.drawPaths(screen)
	}
}

// drawPaths connects the first and last keyframe of every running sprite and
// marks its current position.
func (o *Overlay) drawPaths(screen *ebiten.Image) {
	for _, l := range o.stage.Layers() {
		col, ok := pathColors[l.Name()]
		if !ok {
			col = color.RGBA{R: 200, G: 200, B: 200, A: 90}
		}
		for _, s := range l.Sprites() {
			kf := s.Keyframes()
			if len(kf) < 2 {
				continue
			}
			first, last := kf[0], kf[len(kf)-1]
			o.drawLine(screen, first.X, first.Y, last.X, last.Y, 1, col)
			o.drawPoint(screen, first.X, first.Y, 3, col)
			if f, ok := s.Frame(); ok {
				o.drawPoint(screen, f.X, f.Y, 4, color.RGBA{R: 255, G: 80, B: 80, A: 200})
			}
		}
	}
}

func (o *Overlay) drawWindField(screen *ebiten.Image, w, h int) {
	if o.pixel == nil || !o.ensureWindSamples(w, h) {
		return
	}

	const (
		calmThreshold = 0.05
		headAngle     = math.Pi / 6
		calmDotScale  = 0.18
		minThickness  = 1.0
		maxThickness  = 2.2
	)

	speed := o.wind.WindIntensity()
	span := o.windPixelSpan
	if speed < calmThreshold {
		for _, sample := range o.windSamples {
			o.drawPoint(screen, sample.sx, sample.sy, span*calmDotScale, color.RGBA{R: 90, G: 130, B: 170, A: 120})
		}
		return
	}

	dir := geom.Direction(o.wind.WindTilt())
	normalized := clamp01(speed)
	length := span * (0.35 + 0.35*math.Sqrt(normalized))
	headLength := length * 0.3
	tailLength := length * 0.4
	thickness := minThickness + (maxThickness-minThickness)*normalized
	col := interpolateColor(normalized)
	angle := math.Atan2(dir.Y, dir.X)

	for _, sample := range o.windSamples {
		tipX := sample.sx + dir.X*(length-tailLength)
		tipY := sample.sy + dir.Y*(length-tailLength)
		tailX := sample.sx - dir.X*tailLength
		tailY := sample.sy - dir.Y*tailLength
		o.drawLine(screen, tailX, tailY, tipX-dir.X*headLength, tipY-dir.Y*headLength, thickness, col)

		leftX := tipX - math.Cos(angle+headAngle)*headLength
		leftY := tipY - math.Sin(angle+headAngle)*headLength
		rightX := tipX - math.Cos(angle-headAngle)*headLength
		rightY := tipY - math.Sin(angle-headAngle)*headLength
		o.drawLine(screen, tipX, tipY, leftX, leftY, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, rightX, rightY, thickness*0.85, col)
	}
}

func (o *Overlay) ensureWindSamples(w, h int) bool {
	if o.windCacheW == w && o.windCacheH == h && len(o.windSamples) > 0 {
		return true
	}

	const (
		targetSamples = 48.0
		minSpacing    = 40
		maxSpacing    = 160
	)

	spacing := int(math.Sqrt(float64(w*h) / targetSamples))
	spacing = max(minSpacing, min(maxSpacing, spacing))
	countX := max(1, (w+spacing-1)/spacing)
	countY := max(1, (h+spacing-1)/spacing)
	startX := max(0, (w-(countX-1)*spacing)/2)
	startY := max(0, (h-(countY-1)*spacing)/2)

	o.windSamples = o.windSamples[:0]
	for yi := 0; yi < countY; yi++ {
		for xi := 0; xi < countX; xi++ {
			o.windSamples = append(o.windSamples, windSample{
				sx: float64(startX + xi*spacing),
				sy: float64(startY + yi*spacing),
			})
		}
	}
	o.windCacheW, o.windCacheH = w, h
	o.windPixelSpan = float64(spacing)
	return len(o.windSamples) > 0
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	r := uint8(math.Round(80 + 70*t))
	g := uint8(math.Round(170 + 70*t))
	b := uint8(math.Round(230 + 20*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
