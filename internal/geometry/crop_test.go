package geometry

import (
	"image"
	"math"
	"testing"

	"collage-video/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClampOffset(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0}, {0.5, 0.5}, {-1, -1}, {1, 1}, {3, 1}, {-7, -1}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampOffset(tt.in))
	}
}

func TestCropSourceRectContainIsFullImage(t *testing.T) {
	r := CropSourceRect(model.SlotCropConfig{ObjectFit: model.FitContain, OffsetX: 1}, 400, 300, 100, 100)
	assert.Equal(t, Rect{0, 0, 400, 300}, r)
}

func TestCropSourceRectCover(t *testing.T) {
	tests := []struct {
		name string
		crop model.SlotCropConfig
		want Rect
	}{
		{"centered", model.SlotCropConfig{ObjectFit: model.FitCover}, Rect{100, 0, 200, 200}},
		{"pan right", model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: 1}, Rect{200, 0, 200, 200}},
		{"pan left", model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: -1}, Rect{0, 0, 200, 200}},
		{"half", model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: 0.5}, Rect{150, 0, 200, 200}},
		{"y ignored", model.SlotCropConfig{ObjectFit: model.FitCover, OffsetY: 1}, Rect{100, 0, 200, 200}},
		{"clamped", model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: 9}, Rect{200, 0, 200, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 400x200 image into a square slot: 200px of horizontal slack.
			r := CropSourceRect(tt.crop, 400, 200, 50, 50)
			assert.InDelta(t, tt.want.X, r.X, 1e-9)
			assert.InDelta(t, tt.want.Y, r.Y, 1e-9)
			assert.InDelta(t, tt.want.W, r.W, 1e-9)
			assert.InDelta(t, tt.want.H, r.H, 1e-9)
		})
	}
}

func TestCropSourceRectVerticalSlack(t *testing.T) {
	crop := model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: 1, OffsetY: -1}
	r := CropSourceRect(crop, 100, 400, 100, 100)
	assert.Equal(t, Rect{0, 0, 100, 100}, r)

	crop.OffsetY = 1
	r = CropSourceRect(crop, 100, 400, 100, 100)
	assert.Equal(t, Rect{0, 300, 100, 100}, r)
}

func TestCropSourceRectEqualAspect(t *testing.T) {
	for _, off := range []float64{-1, 0, 1} {
		r := CropSourceRect(model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: off, OffsetY: off}, 1600, 900, 16, 9)
		assert.InDelta(t, 0, r.X, 1e-9)
		assert.InDelta(t, 0, r.Y, 1e-9)
		assert.InDelta(t, 1600, r.W, 1e-9)
		assert.InDelta(t, 900, r.H, 1e-9)
	}
}

func TestCropSourceRectAlwaysInsideImage(t *testing.T) {
	sizes := [][2]float64{{4000, 3000}, {3000, 4000}, {1920, 1080}, {1, 1000}, {1000, 1}, {1280, 720}}
	targets := [][2]float64{{1, 1}, {16, 9}, {9, 16}, {640, 720}, {1280, 240}, {427, 1080}}
	offsets := []float64{-1, -0.75, -0.33, 0, 0.1, 0.5, 0.99, 1}
	const eps = 1e-6

	for _, sz := range sizes {
		for _, tg := range targets {
			for _, ox := range offsets {
				for _, oy := range offsets {
					crop := model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: ox, OffsetY: oy}
					r := CropSourceRect(crop, sz[0], sz[1], tg[0], tg[1])
					assert.GreaterOrEqual(t, r.X, -eps)
					assert.GreaterOrEqual(t, r.Y, -eps)
					assert.LessOrEqual(t, r.X+r.W, sz[0]+eps)
					assert.LessOrEqual(t, r.Y+r.H, sz[1]+eps)
					assert.InDelta(t, tg[0]/tg[1], r.W/r.H, 1e-6*math.Max(1, tg[0]/tg[1]))
				}
			}
		}
	}
}

func TestContainDestRect(t *testing.T) {
	// Wide image into a square box: letterboxed.
	r := ContainDestRect(400, 200, 100, 100)
	assert.Equal(t, Rect{0, 25, 100, 50}, r)

	// Tall image into a wide box: pillarboxed.
	r = ContainDestRect(100, 200, 400, 100)
	assert.Equal(t, Rect{175, 0, 50, 100}, r)

	assert.Equal(t, Rect{}, ContainDestRect(0, 10, 100, 100))
}

func TestFaceCropOffsetSingleAxis(t *testing.T) {
	face := model.Point{X: 0.8, Y: 0.1}

	o := FaceCropOffset(face, 2, 1)
	assert.InDelta(t, 0.6, o.X, 1e-9)
	assert.Zero(t, o.Y)

	o = FaceCropOffset(face, 0.5, 1)
	assert.Zero(t, o.X)
	assert.InDelta(t, -0.8, o.Y, 1e-9)

	assert.Equal(t, Offset{}, FaceCropOffset(face, 1, 1))
}

func TestFaceCropWindowFollowsFace(t *testing.T) {
	const imgW, imgH = 3000.0, 1000.0
	for _, fx := range []float64{0, 0.1, 0.25, 0.5, 0.7, 0.9, 1} {
		off := FaceCropOffset(model.Point{X: fx, Y: 0.5}, imgW/imgH, 1)
		r := CropSourceRect(model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: off.X, OffsetY: off.Y}, imgW, imgH, 1, 1)

		faceX := fx * imgW
		assert.GreaterOrEqual(t, faceX, r.X-1e-6, "face inside window")
		assert.LessOrEqual(t, faceX, r.X+r.W+1e-6, "face inside window")

		// Window center lies between the image center and the face.
		center := r.X + r.W/2
		lo, hi := math.Min(imgW/2, faceX), math.Max(imgW/2, faceX)
		assert.GreaterOrEqual(t, center, lo-1e-6)
		assert.LessOrEqual(t, center, hi+1e-6)
	}

	off := FaceCropOffset(model.Point{X: 0.5, Y: 0.5}, imgW/imgH, 1)
	r := CropSourceRect(model.SlotCropConfig{ObjectFit: model.FitCover, OffsetX: off.X}, imgW, imgH, 1, 1)
	assert.InDelta(t, imgW/2, r.X+r.W/2, 1e-6)
}

func TestInitialSlotCrop(t *testing.T) {
	slot := model.LayoutSlot{Width: 50, Height: 100} // 8:9 on a 16:9 canvas
	wide := model.Photo{Width: 1600, Height: 900, FaceCenter: &model.Point{X: 1, Y: 0}}

	crop := InitialSlotCrop(wide, slot, 16.0/9)
	assert.Equal(t, model.FitCover, crop.ObjectFit)
	assert.InDelta(t, 1, crop.OffsetX, 1e-9)
	assert.Zero(t, crop.OffsetY)

	wide.FaceCenter = nil
	assert.Equal(t, model.DefaultSlotCrop, InitialSlotCrop(wide, slot, 16.0/9))
}

func TestSlotAspect(t *testing.T) {
	assert.InDelta(t, 16.0/9, SlotAspect(model.LayoutSlot{Width: 100, Height: 100}, 16.0/9), 1e-9)
	assert.InDelta(t, 8.0/9, SlotAspect(model.LayoutSlot{Width: 50, Height: 100}, 16.0/9), 1e-9)
}

func TestSlotPixelRectTilesWithoutGaps(t *testing.T) {
	slots := []model.LayoutSlot{
		{X: 0, Y: 0, Width: 33.33, Height: 100},
		{X: 33.33, Y: 0, Width: 33.33, Height: 100},
		{X: 66.67, Y: 0, Width: 33.33, Height: 100},
	}
	var rects []image.Rectangle
	for _, s := range slots {
		rects = append(rects, SlotPixelRect(s, 1280, 720))
	}
	assert.Equal(t, 0, rects[0].Min.X)
	assert.Equal(t, rects[0].Max.X, rects[1].Min.X)
	assert.Equal(t, rects[1].Max.X, rects[2].Min.X)
	assert.Equal(t, 1280, rects[2].Max.X)
	assert.Equal(t, 720, rects[2].Max.Y)
}
