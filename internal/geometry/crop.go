package geometry

import (
	"image"
	"math"

	"collage-video/internal/model"
)

// Rect is a float rectangle in image or surface pixels.
type Rect struct {
	X, Y, W, H float64
}

// Offset is a pan position on both axes, each in [-1,1].
type Offset struct {
	X, Y float64
}

// ClampOffset limits v to [-1,1]. NaN is treated as centered.
func ClampOffset(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// CropSourceRect returns the region of the source image to sample.
// For contain it is the whole image. For cover it is the largest window at
// the target aspect, centered on the axis without slack and panned by
// offset*halfSlack on the axis with slack. A positive offset moves the
// window toward the right or bottom edge.
func CropSourceRect(crop model.SlotCropConfig, imgW, imgH, targetW, targetH float64) Rect {
	full := Rect{0, 0, imgW, imgH}
	if crop.ObjectFit == model.FitContain || imgW <= 0 || imgH <= 0 || targetW <= 0 || targetH <= 0 {
		return full
	}

	imgAspect := imgW / imgH
	targetAspect := targetW / targetH

	if imgAspect > targetAspect {
		sw := imgH * targetAspect
		half := (imgW - sw) / 2
		sx := half + ClampOffset(crop.OffsetX)*half
		return Rect{X: clampRange(sx, 0, imgW-sw), Y: 0, W: sw, H: imgH}
	}
	sh := imgW / targetAspect
	half := (imgH - sh) / 2
	sy := half + ClampOffset(crop.OffsetY)*half
	return Rect{X: 0, Y: clampRange(sy, 0, imgH-sh), W: imgW, H: sh}
}

// ContainDestRect fits the image inside the target box, centered, keeping
// aspect. The result is relative to the target's origin.
func ContainDestRect(imgW, imgH, targetW, targetH float64) Rect {
	if imgW <= 0 || imgH <= 0 {
		return Rect{}
	}
	scale := math.Min(targetW/imgW, targetH/imgH)
	w := imgW * scale
	h := imgH * scale
	return Rect{X: (targetW - w) / 2, Y: (targetH - h) / 2, W: w, H: h}
}

// FaceCropOffset maps a normalized face position to a pan offset. Only the
// axis with slack gets a non-zero value.
func FaceCropOffset(face model.Point, photoAspect, slotAspect float64) Offset {
	switch {
	case photoAspect > slotAspect:
		return Offset{X: ClampOffset((face.X - 0.5) * 2)}
	case photoAspect < slotAspect:
		return Offset{Y: ClampOffset((face.Y - 0.5) * 2)}
	}
	return Offset{}
}

// SlotAspect converts a slot's percentage size into a real aspect ratio on
// a canvas of the given aspect.
func SlotAspect(slot model.LayoutSlot, canvasAspect float64) float64 {
	if slot.Height <= 0 {
		return canvasAspect
	}
	return slot.Width / slot.Height * canvasAspect
}

// InitialSlotCrop is the default crop for a photo dropped into a slot:
// cover, panned toward the detected face when there is one.
func InitialSlotCrop(p model.Photo, slot model.LayoutSlot, canvasAspect float64) model.SlotCropConfig {
	crop := model.DefaultSlotCrop
	if p.FaceCenter == nil {
		return crop
	}
	off := FaceCropOffset(*p.FaceCenter, p.Aspect(), SlotAspect(slot, canvasAspect))
	crop.OffsetX, crop.OffsetY = off.X, off.Y
	return crop
}

// SlotPixelRect converts percentage slot coordinates into pixels. Edges are
// rounded independently so neighbouring slots share a boundary exactly.
func SlotPixelRect(slot model.LayoutSlot, w, h int) image.Rectangle {
	x0 := pct(slot.X, w)
	y0 := pct(slot.Y, h)
	x1 := pct(slot.X+slot.Width, w)
	y1 := pct(slot.Y+slot.Height, h)
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, w, h))
}

func pct(v float64, size int) int {
	return int(math.Round(v * float64(size) / 100))
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
