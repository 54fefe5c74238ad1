package raster

import (
	"image"
	"math"
)

// AlphaByte converts a [0,1] opacity to 0..255, rounding to nearest.
func AlphaByte(alpha float64) uint32 {
	if !(alpha > 0) {
		return 0
	}
	if alpha >= 1 {
		return 255
	}
	return uint32(math.Round(alpha * 255))
}

// BlendOver composites src over dst at a global opacity, source-over on
// premultiplied pixels. Only the overlap of the two bounds is touched.
// Alpha 1 with an opaque source is an exact copy; alpha 0 leaves dst alone.
func BlendOver(dst, src *image.RGBA, alpha float64) {
	a8 := AlphaByte(alpha)
	if a8 == 0 {
		return
	}
	r := dst.Bounds().Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(r.Min.X, y):]
		s := src.Pix[src.PixOffset(r.Min.X, y):]
		for i := 0; i < n; i += 4 {
			sa := (uint32(s[i+3])*a8 + 127) / 255
			if sa == 0 {
				continue
			}
			if sa == 255 {
				d[i] = s[i]
				d[i+1] = s[i+1]
				d[i+2] = s[i+2]
				d[i+3] = 255
				continue
			}
			inv := 255 - sa
			d[i] = uint8((uint32(s[i])*a8 + uint32(d[i])*inv + 127) / 255)
			d[i+1] = uint8((uint32(s[i+1])*a8 + uint32(d[i+1])*inv + 127) / 255)
			d[i+2] = uint8((uint32(s[i+2])*a8 + uint32(d[i+2])*inv + 127) / 255)
			d[i+3] = uint8((sa*255 + uint32(d[i+3])*inv + 127) / 255)
		}
	}
}

// BlitOffset draws src onto dst translated by (dx,dy), source-over. Pixels
// shifted outside dst are dropped.
func BlitOffset(dst, src *image.RGBA, dx, dy int) {
	if dx == 0 && dy == 0 {
		BlendOver(dst, src, 1)
		return
	}
	sb := src.Bounds()
	moved := &image.RGBA{
		Pix:    src.Pix,
		Stride: src.Stride,
		Rect:   sb.Add(image.Pt(dx, dy)),
	}
	BlendOver(dst, moved, 1)
}
