package raster

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// maxDirectSigma is the largest sigma blurred at full resolution. Wider
// blurs run on a reduced copy and are scaled back up.
const maxDirectSigma = 4.0

// Blur returns a gaussian-blurred copy of src with standard deviation sigma
// in pixels. sigma <= 0 returns an unmodified copy.
func Blur(src *image.RGBA, sigma float64) *image.RGBA {
	if sigma <= 0 || math.IsNaN(sigma) {
		return Clone(src)
	}
	b := src.Bounds()
	if sigma <= maxDirectSigma {
		return ToRGBA(imaging.Blur(src, sigma))
	}

	factor := sigma / maxDirectSigma
	sw := max(1, int(math.Round(float64(b.Dx())/factor)))
	sh := max(1, int(math.Round(float64(b.Dy())/factor)))

	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, draw.Src, nil)
	blurred := imaging.Blur(small, maxDirectSigma)

	out := image.NewRGBA(b)
	draw.BiLinear.Scale(out, b, blurred, blurred.Bounds(), draw.Src, nil)
	return out
}
