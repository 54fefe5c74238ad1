package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const identityEps = 1e-9

// IsIdentity reports whether scale/angle leave a surface unchanged.
func IsIdentity(scale, angleRad float64) bool {
	return math.Abs(scale-1) < identityEps && math.Abs(angleRad) < identityEps
}

// CenterAff3 returns the source→destination matrix that scales and rotates
// src about its center and places that center on the center of dst.
func CenterAff3(src, dst image.Rectangle, scale, angleRad float64) f64.Aff3 {
	sin, cos := math.Sincos(angleRad)
	a, b := scale*cos, -scale*sin
	d, e := scale*sin, scale*cos

	scx := float64(src.Min.X) + float64(src.Dx())/2
	scy := float64(src.Min.Y) + float64(src.Dy())/2
	dcx := float64(dst.Min.X) + float64(dst.Dx())/2
	dcy := float64(dst.Min.Y) + float64(dst.Dy())/2

	return f64.Aff3{
		a, b, dcx - (a*scx + b*scy),
		d, e, dcy - (d*scx + e*scy),
	}
}

// RectAff3 maps the float source rectangle sr onto the float destination
// rectangle dr with independent x/y scale.
func RectAff3(sx, sy, sw, sh, dx, dy, dw, dh float64) f64.Aff3 {
	kx := dw / sw
	ky := dh / sh
	return f64.Aff3{
		kx, 0, dx - sx*kx,
		0, ky, dy - sy*ky,
	}
}

// DrawTransformed composites src onto dst scaled by scale and rotated by
// angleRad about the center, at the given opacity. Uncovered pixels of dst
// keep their value. scratch is reused when it matches dst's size; pass nil
// to allocate. The identity transform is an exact blend with no resampling.
func DrawTransformed(dst, src *image.RGBA, scale, angleRad, alpha float64, scratch *image.RGBA) {
	if IsIdentity(scale, angleRad) && SameSize(dst, src) {
		BlendOver(dst, alignTo(src, dst.Bounds()), alpha)
		return
	}
	if AlphaByte(alpha) == 0 {
		return
	}
	db := dst.Bounds()
	if scratch == nil || scratch.Bounds() != db {
		scratch = image.NewRGBA(db)
	} else {
		clear(scratch.Pix)
	}
	m := CenterAff3(src.Bounds(), db, scale, angleRad)
	draw.BiLinear.Transform(scratch, m, src, src.Bounds(), draw.Src, nil)
	BlendOver(dst, scratch, alpha)
}

// alignTo reinterprets src so that its origin sits at r.Min.
func alignTo(src *image.RGBA, r image.Rectangle) *image.RGBA {
	if src.Rect.Min == r.Min {
		return src
	}
	return &image.RGBA{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect.Sub(src.Rect.Min).Add(r.Min)}
}
