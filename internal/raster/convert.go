package raster

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ToRGBA converts any image to a zero-origin RGBA with a tight stride.
// Sources that already qualify are returned as is.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if r, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) && r.Stride == b.Dx()*4 {
		return r
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// FitWithin returns the largest size with the aspect of w×h that fits in
// maxW×maxH. Sizes already inside the box are returned unchanged. A
// non-positive bound disables that axis.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}
	return max(1, int(math.Round(float64(w)*scale))), max(1, int(math.Round(float64(h)*scale)))
}

// Downsample reduces img to fit within maxW×maxH with CatmullRom filtering.
// RGBA is already premultiplied, so transparent edges do not darken.
func Downsample(img *image.RGBA, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
