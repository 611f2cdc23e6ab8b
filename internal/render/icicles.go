package render

import (
	"image/color"

	"weatherfx/internal/core"
	pcore "weatherfx/pkg/core"
)

// Icicle mask cell values.
const (
	icicleNone uint8 = iota
	icicleBody
	icicleTip
)

// IcicleMask rasterises a fringe of icicles hanging from the top edge of a
// w*h area. Icicles are spaced a few pixels apart with random lengths of up to
// a tenth of the height.
func IcicleMask(w, h int, rnd pcore.Rand) *core.ByteGrid {
	g := core.NewByteGrid(w, h)
	maxLen := max(2, h/10)
	for x := 1; x < g.W; x += 4 + rnd.IntN(5) {
		length := 2 + rnd.IntN(maxLen-1)
		width := 1 + rnd.IntN(2)
		for y := 0; y < length; y++ {
			v := icicleBody
			if y == length-1 {
				v = icicleTip
			}
			span := width
			if y > length/2 {
				span = 1
			}
			for dx := 0; dx < span; dx++ {
				g.Set(x+dx, y, v)
			}
		}
	}
	return g
}

// icicleRGBA fills buf from an icicle mask, fading tips.
func icicleRGBA(buf []byte, mask *core.ByteGrid, c color.NRGBA) {
	body := color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	tip := color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A / 2}
	fillPaletteRGBA(buf, mask.Cells(), []color.RGBA{{}, body, tip})
}
