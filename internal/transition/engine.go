package transition

import (
	"image"
	"math"

	"collage-video/internal/raster"
)

const (
	zoomAmount     = 0.2
	kenBurnsAmount = 0.05
	rotateMax      = math.Pi / 4
	blurMaxSigma   = 20.0
)

// Engine blends two rendered slides into one frame. It keeps a scratch
// surface between calls, so one Engine must not be shared across goroutines.
type Engine struct {
	// BlurEnabled selects the real blur transition; when false Blur
	// degrades to Fade.
	BlurEnabled bool

	scratch *image.RGBA
}

// NewEngine returns an engine with blur enabled.
func NewEngine() *Engine {
	return &Engine{BlurEnabled: true}
}

// Render writes the frame at progress (clamped to [0,1]) of transition t
// from outgoing to incoming into dst. All three surfaces share one size.
// Progress 0 reproduces outgoing exactly and progress 1 reproduces incoming.
func (e *Engine) Render(t Type, dst, outgoing, incoming *image.RGBA, progress float64) {
	p := clampProgress(progress)

	switch t {
	case Fade:
		e.fade(dst, outgoing, incoming, p)
	case Slide:
		e.slide(dst, outgoing, incoming, p)
	case Zoom:
		e.scaled(dst, outgoing, incoming, p, 1+zoomAmount*p, 1-zoomAmount+zoomAmount*p)
	case Rotate:
		e.rotate(dst, outgoing, incoming, p)
	case Blur:
		if !e.BlurEnabled {
			e.fade(dst, outgoing, incoming, p)
			return
		}
		e.blur(dst, outgoing, incoming, p)
	case KenBurns:
		e.scaled(dst, outgoing, incoming, p, 1+kenBurnsAmount*p, 1-kenBurnsAmount+kenBurnsAmount*p)
	default:
		e.none(dst, outgoing, incoming, p)
	}
}

// none is a hard cut: the incoming slide from the first frame after 0.
func (e *Engine) none(dst, outgoing, incoming *image.RGBA, p float64) {
	if p <= 0 {
		raster.CopyInto(dst, outgoing)
		return
	}
	raster.CopyInto(dst, incoming)
}

func (e *Engine) fade(dst, outgoing, incoming *image.RGBA, p float64) {
	raster.CopyInto(dst, outgoing)
	raster.BlendOver(dst, incoming, p)
}

func (e *Engine) slide(dst, outgoing, incoming *image.RGBA, p float64) {
	w := float64(dst.Bounds().Dx())
	raster.Clear(dst, raster.Black)
	raster.BlitOffset(dst, outgoing, -int(math.Round(w*p)), 0)
	raster.BlitOffset(dst, incoming, int(math.Round(w*(1-p))), 0)
}

// scaled cross-fades outgoing at outScale into incoming at inScale.
func (e *Engine) scaled(dst, outgoing, incoming *image.RGBA, p, outScale, inScale float64) {
	raster.Clear(dst, raster.Black)
	raster.DrawTransformed(dst, outgoing, outScale, 0, 1-p, e.scratchFor(dst))
	raster.DrawTransformed(dst, incoming, inScale, 0, p, e.scratchFor(dst))
}

func (e *Engine) rotate(dst, outgoing, incoming *image.RGBA, p float64) {
	raster.Clear(dst, raster.Black)
	raster.DrawTransformed(dst, outgoing, 1, -p*rotateMax, 1-p, e.scratchFor(dst))
	raster.DrawTransformed(dst, incoming, 1, (1-p)*rotateMax, p, e.scratchFor(dst))
}

func (e *Engine) blur(dst, outgoing, incoming *image.RGBA, p float64) {
	raster.Clear(dst, raster.Black)
	if raster.AlphaByte(1-p) > 0 {
		raster.BlendOver(dst, raster.Blur(outgoing, p*blurMaxSigma), 1-p)
	}
	if raster.AlphaByte(p) > 0 {
		raster.BlendOver(dst, raster.Blur(incoming, (1-p)*blurMaxSigma), p)
	}
}

func (e *Engine) scratchFor(dst *image.RGBA) *image.RGBA {
	if e.scratch == nil || e.scratch.Bounds() != dst.Bounds() {
		e.scratch = image.NewRGBA(dst.Bounds())
	}
	return e.scratch
}

func clampProgress(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
