package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"weatherfx/internal/core"
	"weatherfx/internal/render"
	"weatherfx/internal/scene"
	"weatherfx/internal/weather"
)

// Cell kinds rasterised into the coverage grid. Higher values win when
// particles overlap.
const (
	cellNone uint8 = iota
	cellRain
	cellRainLeft
	cellRainRight
	cellSnow
	cellLeaf
	cellIcicle = cellLeaf + leafShades
)

const (
	leafShades = 4
	// rotation in degrees beyond which a drop is drawn slanted
	slantThreshold = 10
)

var glyphs = map[uint8]rune{
	cellRain:      '|',
	cellRainLeft:  '/',
	cellRainRight: '\\',
	cellSnow:      '*',
	cellIcicle:    'V',
}

// Renderer maps stage coordinates onto terminal cells of CellW by CellH
// stage units.
type Renderer struct {
	screen tcell.Screen
	look   *render.Look
	grid   *core.ByteGrid
	alpha  []float64

	CellW, CellH float64
}

// NewRenderer creates a renderer for screen reading colours from look.
func NewRenderer(screen tcell.Screen, look *render.Look, cellW, cellH float64) *Renderer {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	return &Renderer{screen: screen, look: look, grid: core.NewByteGrid(1, 1), CellW: cellW, CellH: cellH}
}

// StageSize returns the stage dimensions that cover a cols by rows terminal.
func (r *Renderer) StageSize(cols, rows int) (int, int) {
	return int(float64(cols) * r.CellW), int(float64(rows) * r.CellH)
}

// Draw rasterises st and paints it. The last reserve rows are left for a
// status line.
func (r *Renderer) Draw(st *scene.Stage, reserve int) {
	cols, rows := r.screen.Size()
	rows -= reserve
	if cols <= 0 || rows <= 0 {
		return
	}
	if r.grid.W != cols || r.grid.H != rows {
		r.grid.Resize(cols, rows)
		r.alpha = make([]float64, cols*rows)
	} else {
		r.grid.Clear()
		clear(r.alpha)
	}
	r.rasterise(st)
	if r.look.Has(weather.ClassIcicles) {
		r.icicles()
	}
	r.paint()
}

func (r *Renderer) rasterise(st *scene.Stage) {
	for _, l := range st.Layers() {
		if l.Hidden {
			continue
		}
		for _, s := range l.Sprites() {
			f, ok := s.Frame()
			if !ok {
				continue
			}
			x := int(math.Floor(f.X / r.CellW))
			y := int(math.Floor(f.Y / r.CellH))
			if !r.grid.InBounds(x, y) {
				continue
			}
			var kind uint8
			switch l.Name() {
			case weather.LayerRain:
				kind = rainKind(f.Rotation)
			case weather.LayerSnow:
				kind = cellSnow
			case weather.LayerLeaf:
				v := s.Style().Variant
				if v < 0 {
					v = -v
				}
				kind = cellLeaf + uint8(v%leafShades)
			default:
				continue
			}
			r.plot(x, y, kind, f.Opacity)
		}
	}
}

func (r *Renderer) plot(x, y int, kind uint8, opacity float64) {
	i := r.grid.Index(x, y)
	cur := r.grid.Cells()[i]
	if kind < cur || (kind == cur && opacity <= r.alpha[i]) {
		return
	}
	r.grid.Cells()[i] = kind
	r.alpha[i] = opacity
}

// icicles hangs a sparse fringe from the top row.
func (r *Renderer) icicles() {
	for x := 1; x < r.grid.W; x += 3 {
		r.plot(x, 0, cellIcicle, 1)
	}
}

func (r *Renderer) paint() {
	top, bottom := r.look.Sky()
	for y := 0; y < r.grid.H; y++ {
		t := 0.0
		if r.grid.H > 1 {
			t = float64(y) / float64(r.grid.H-1)
		}
		sky := top.BlendLab(bottom, t).Clamped()
		base := tcell.StyleDefault.Background(tcellColor(sky))
		for x := 0; x < r.grid.W; x++ {
			kind := r.grid.At(x, y)
			if kind == cellNone {
				r.screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			fg := sky.BlendRgb(r.colour(kind), math.Max(0.35, r.alpha[r.grid.Index(x, y)]))
			r.screen.SetContent(x, y, glyph(kind), nil, base.Foreground(tcellColor(fg)))
		}
	}
}

func (r *Renderer) colour(kind uint8) colorful.Color {
	switch {
	case kind == cellSnow:
		return r.look.Snow()
	case kind == cellIcicle:
		return r.look.Icicle()
	case kind >= cellLeaf:
		return r.look.Leaf(int(kind - cellLeaf))
	default:
		return r.look.Rain()
	}
}

// DrawStatus writes text on row y, clipped to the screen width.
func (r *Renderer) DrawStatus(y int, text string) {
	cols, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	x := 0
	for _, ch := range text {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	for ; x < cols; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

func rainKind(rotation float64) uint8 {
	switch {
	case rotation < -slantThreshold:
		return cellRainLeft
	case rotation > slantThreshold:
		return cellRainRight
	default:
		return cellRain
	}
}

func glyph(kind uint8) rune {
	if g, ok := glyphs[kind]; ok {
		return g
	}
	if kind >= cellLeaf && kind < cellIcicle {
		return '&'
	}
	return '?'
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
