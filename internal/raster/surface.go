package raster

import (
	"image"
	"image/color"
)

// Black is the background of every frame.
var Black = color.RGBA{0, 0, 0, 255}

// NewSurface allocates an opaque black w×h surface with a tight stride.
func NewSurface(w, h int) *image.RGBA {
	s := image.NewRGBA(image.Rect(0, 0, w, h))
	Clear(s, Black)
	return s
}

// NewTransparent allocates a fully transparent surface, used as scratch space.
func NewTransparent(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear fills the whole surface (or sub-image) with c.
func Clear(s *image.RGBA, c color.RGBA) {
	b := s.Bounds()
	if b.Empty() {
		return
	}
	// Fill the first row, then replicate it.
	row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y):]
	n := b.Dx() * 4
	for i := 0; i < n; i += 4 {
		row[i] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
	}
	for y := b.Min.Y + 1; y < b.Max.Y; y++ {
		off := s.PixOffset(b.Min.X, y)
		copy(s.Pix[off:off+n], row[:n])
	}
}

// SameSize reports whether a and b have identical dimensions.
func SameSize(a, b *image.RGBA) bool {
	return a.Bounds().Size() == b.Bounds().Size()
}

// CopyInto overwrites dst with src. Surfaces of different size copy the overlap.
func CopyInto(dst, src *image.RGBA) {
	if dst.Rect == src.Rect && dst.Stride == src.Stride && len(dst.Pix) == len(src.Pix) {
		copy(dst.Pix, src.Pix)
		return
	}
	CopyRect(dst, src, src.Bounds())
}

// CopyRect copies the pixels of src inside r into the same location of dst.
func CopyRect(dst, src *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X, y)
		copy(dst.Pix[di:di+n], src.Pix[si:si+n])
	}
}

// Clone returns a detached copy of s.
func Clone(s *image.RGBA) *image.RGBA {
	c := image.NewRGBA(s.Bounds())
	copy(c.Pix, s.Pix)
	return c
}

// Equal reports pixel identity of two surfaces.
func Equal(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	r := a.Bounds()
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ai := a.PixOffset(r.Min.X, y)
		bi := b.PixOffset(r.Min.X, y)
		if string(a.Pix[ai:ai+n]) != string(b.Pix[bi:bi+n]) {
			return false
		}
	}
	return true
}
