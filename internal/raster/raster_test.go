package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	s := image.NewRGBA(image.Rect(0, 0, w, h))
	Clear(s, c)
	return s
}

func pixel(s *image.RGBA, x, y int) color.RGBA {
	return s.RGBAAt(x, y)
}

func TestNewSurfaceIsOpaqueBlack(t *testing.T) {
	s := NewSurface(7, 3)
	assert.Equal(t, 7*4, s.Stride)
	for y := 0; y < 3; y++ {
		for x := 0; x < 7; x++ {
			require.Equal(t, Black, pixel(s, x, y))
		}
	}
}

func TestClearSubImage(t *testing.T) {
	s := NewSurface(10, 10)
	sub := s.SubImage(image.Rect(2, 2, 5, 4)).(*image.RGBA)
	Clear(sub, color.RGBA{255, 0, 0, 255})

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(s, 2, 2))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(s, 4, 3))
	assert.Equal(t, Black, pixel(s, 5, 3))
	assert.Equal(t, Black, pixel(s, 2, 4))
}

func TestBlendOverEndpoints(t *testing.T) {
	dst := solid(4, 4, color.RGBA{10, 20, 30, 255})
	src := solid(4, 4, color.RGBA{200, 100, 50, 255})

	before := Clone(dst)
	BlendOver(dst, src, 0)
	assert.True(t, Equal(before, dst), "alpha 0 is a no-op")

	BlendOver(dst, src, 1)
	assert.True(t, Equal(src, dst), "alpha 1 copies opaque source")
}

func TestBlendOverHalf(t *testing.T) {
	dst := solid(1, 1, color.RGBA{0, 0, 0, 255})
	src := solid(1, 1, color.RGBA{255, 255, 255, 255})
	BlendOver(dst, src, 0.5)

	p := pixel(dst, 0, 0)
	assert.InDelta(t, 128, int(p.R), 1)
	assert.Equal(t, uint8(255), p.A)
}

func TestBlendOverTransparentSource(t *testing.T) {
	dst := solid(2, 2, color.RGBA{9, 9, 9, 255})
	BlendOver(dst, NewTransparent(2, 2), 1)
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, pixel(dst, 1, 1))
}

func TestBlitOffset(t *testing.T) {
	dst := NewSurface(4, 1)
	src := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		src.SetRGBA(x, 0, color.RGBA{uint8(x + 1), 0, 0, 255})
	}

	BlitOffset(dst, src, 2, 0)
	assert.Equal(t, Black, pixel(dst, 0, 0))
	assert.Equal(t, Black, pixel(dst, 1, 0))
	assert.Equal(t, uint8(1), pixel(dst, 2, 0).R)
	assert.Equal(t, uint8(2), pixel(dst, 3, 0).R)

	dst = NewSurface(4, 1)
	BlitOffset(dst, src, -3, 0)
	assert.Equal(t, uint8(4), pixel(dst, 0, 0).R)
	assert.Equal(t, Black, pixel(dst, 1, 0))
}

func TestCopyRect(t *testing.T) {
	dst := NewSurface(4, 4)
	src := solid(4, 4, color.RGBA{1, 2, 3, 255})
	CopyRect(dst, src, image.Rect(0, 0, 2, 4))
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, pixel(dst, 1, 3))
	assert.Equal(t, Black, pixel(dst, 2, 0))
}

func TestDrawTransformedIdentityIsExact(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	dst := NewSurface(8, 6)
	DrawTransformed(dst, src, 1, 0, 1, nil)
	assert.True(t, Equal(src, dst))
}

func TestDrawTransformedScaleDownLeavesBorder(t *testing.T) {
	src := solid(40, 40, color.RGBA{255, 255, 255, 255})
	dst := NewSurface(40, 40)
	DrawTransformed(dst, src, 0.5, 0, 1, nil)

	assert.Equal(t, Black, pixel(dst, 0, 0))
	assert.Equal(t, Black, pixel(dst, 39, 39))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(dst, 20, 20))
}

func TestDrawTransformedRotationKeepsCenter(t *testing.T) {
	src := solid(40, 20, color.RGBA{0, 255, 0, 255})
	dst := NewSurface(40, 20)
	scratch := NewTransparent(40, 20)
	DrawTransformed(dst, src, 1, math.Pi/4, 1, scratch)

	assert.Equal(t, color.RGBA{0, 255, 0, 255}, pixel(dst, 20, 10))
	assert.Equal(t, Black, pixel(dst, 0, 10), "left edge rotates away")
}

func TestCenterAff3MapsCenter(t *testing.T) {
	m := CenterAff3(image.Rect(0, 0, 10, 10), image.Rect(0, 0, 30, 20), 2, 0.3)
	x := m[0]*5 + m[1]*5 + m[2]
	y := m[3]*5 + m[4]*5 + m[5]
	assert.InDelta(t, 15, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestBlurSmoothsEdge(t *testing.T) {
	src := NewSurface(40, 10)
	Clear(src.SubImage(image.Rect(20, 0, 40, 10)).(*image.RGBA), color.RGBA{255, 255, 255, 255})

	for _, sigma := range []float64{2, 12} {
		out := Blur(src, sigma)
		require.Equal(t, src.Bounds(), out.Bounds())
		mid := pixel(out, 20, 5).R
		assert.Greater(t, mid, uint8(30), "sigma %v", sigma)
		assert.Less(t, mid, uint8(225), "sigma %v", sigma)
	}

	same := Blur(src, 0)
	assert.True(t, Equal(src, same))
	assert.NotSame(t, src, same)
}

func TestToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(5, 5, 8, 7))
	gray.Pix[0] = 100
	out := ToRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 3, 2), out.Bounds())
	assert.Equal(t, color.RGBA{100, 100, 100, 255}, pixel(out, 0, 0))

	rgba := NewSurface(2, 2)
	assert.Same(t, rgba, ToRGBA(rgba))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, mw, mh, ww, wh int
	}{
		{4000, 3000, 1920, 1080, 1440, 1080},
		{800, 600, 1920, 1080, 800, 600},
		{3000, 1000, 1500, 0, 1500, 500},
		{10, 10, 0, 0, 10, 10},
	}
	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.mw, tt.mh)
		assert.Equal(t, tt.ww, w)
		assert.Equal(t, tt.wh, h)
	}
}

func TestDownsample(t *testing.T) {
	img := solid(400, 200, color.RGBA{50, 60, 70, 255})
	out := Downsample(img, 100, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
	p := pixel(out, 50, 25)
	assert.InDelta(t, 50, int(p.R), 1)
	assert.InDelta(t, 70, int(p.B), 1)

	assert.Same(t, img, Downsample(img, 0, 0))
}
