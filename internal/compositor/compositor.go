package compositor

import (
	"image"
	"log/slog"
	"sort"

	"collage-video/internal/geometry"
	"collage-video/internal/layout"
	"collage-video/internal/model"
	"collage-video/internal/photo"
	"collage-video/internal/raster"

	"golang.org/x/image/draw"
)

// Renderer draws slides at a fixed canvas size. It never performs I/O:
// every photo must already be decoded into Images.
type Renderer struct {
	Width   int
	Height  int
	Images  photo.Resolver
	Layouts layout.Catalog
	Logger  *slog.Logger
}

// Render draws slide onto dst, which must be Width×Height.
func (r *Renderer) Render(dst *image.RGBA, slide model.Slide) {
	if !RenderSlide(dst, slide, r.Images, r.Layouts) && r.Logger != nil {
		r.Logger.Debug("layout not found; rendering black frame", "slide_id", slide.ID, "layout_id", slide.LayoutID)
	}
}

// RenderDetached renders slide onto a freshly allocated surface.
func (r *Renderer) RenderDetached(slide model.Slide) *image.RGBA {
	s := raster.NewSurface(r.Width, r.Height)
	r.Render(s, slide)
	return s
}

// RenderSlide clears dst to black and draws each filled slot of the slide's
// layout. It reports false when the layout is unknown; the frame is then
// left solid black.
func RenderSlide(dst *image.RGBA, slide model.Slide, images photo.Resolver, layouts layout.Catalog) bool {
	raster.Clear(dst, raster.Black)

	if layouts == nil {
		return false
	}
	lay, ok := layouts.Find(slide.LayoutID)
	if !ok {
		return false
	}

	b := dst.Bounds()
	for _, i := range drawOrder(lay.Slots) {
		id := slide.PhotoID(i)
		if id == "" || images == nil {
			continue
		}
		img, ok := images.Image(id)
		if !ok {
			continue
		}
		rect := geometry.SlotPixelRect(lay.Slots[i], b.Dx(), b.Dy()).Add(b.Min)
		if rect.Empty() {
			continue
		}
		drawSlot(dst, rect, img, slide.SlotCrop(i))
	}
	return true
}

// drawSlot draws img into rect, clipped to rect.
func drawSlot(dst *image.RGBA, rect image.Rectangle, img *image.RGBA, crop model.SlotCropConfig) {
	ib := img.Bounds()
	iw, ih := float64(ib.Dx()), float64(ib.Dy())
	sw, sh := float64(rect.Dx()), float64(rect.Dy())
	if iw == 0 || ih == 0 {
		return
	}

	sub := dst.SubImage(rect).(*image.RGBA)
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)

	src := geometry.CropSourceRect(crop, iw, ih, sw, sh)
	dr := geometry.Rect{X: x0, Y: y0, W: sw, H: sh}
	if crop.ObjectFit == model.FitContain {
		c := geometry.ContainDestRect(iw, ih, sw, sh)
		dr = geometry.Rect{X: x0 + c.X, Y: y0 + c.Y, W: c.W, H: c.H}
	}
	if dr.W <= 0 || dr.H <= 0 || src.W <= 0 || src.H <= 0 {
		return
	}

	m := raster.RectAff3(
		src.X+float64(ib.Min.X), src.Y+float64(ib.Min.Y), src.W, src.H,
		dr.X, dr.Y, dr.W, dr.H,
	)
	draw.BiLinear.Transform(sub, m, img, ib, draw.Over, nil)
}

// drawOrder returns slot indices sorted by z-index; slots without one
// keep layout order at z 0.
func drawOrder(slots []model.LayoutSlot) []int {
	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return zOf(slots[order[a]]) < zOf(slots[order[b]])
	})
	return order
}

func zOf(s model.LayoutSlot) int {
	if s.ZIndex == nil {
		return 0
	}
	return *s.ZIndex
}
