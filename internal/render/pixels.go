package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// fillGradientRGBA fills a w*h RGBA buffer with a vertical gradient from top to
// bottom blended in Lab space.
func fillGradientRGBA(buf []byte, w, h int, top, bottom colorful.Color) {
	if w <= 0 || h <= 0 || len(buf) < 4*w*h {
		return
	}
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		r, g, b := top.BlendLab(bottom, t).Clamped().RGB255()
		row := buf[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			base := x * 4
			row[base+0] = r
			row[base+1] = g
			row[base+2] = b
			row[base+3] = 0xff
		}
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
