package export

import (
	"image"

	"collage-video/internal/compositor"
	"collage-video/internal/model"
	"collage-video/internal/transition"
)

// timeline produces every output frame of a slide sequence into one
// canonical surface.
type timeline struct {
	renderer *compositor.Renderer
	engine   *transition.Engine
	frame    *image.RGBA
}

// run renders frames in order and hands each to emit. Content frames are
// drawn straight onto the canonical surface. Each transition frame renders
// both slides onto fresh detached surfaces, blends them, and drops them.
func (t *timeline) run(slides []model.Slide, fps int, emit func(*image.RGBA) error) error {
	for _, plan := range Plan(slides, fps) {
		slide := slides[plan.Index]
		for f := 0; f < plan.Content; f++ {
			t.renderer.Render(t.frame, slide)
			if err := emit(t.frame); err != nil {
				return err
			}
		}
		if plan.Transition == 0 {
			continue
		}

		next := slides[plan.Index+1]
		kind := transition.Parse(slide.Transition.Type)
		for f := 0; f < plan.Transition; f++ {
			outgoing := t.renderer.RenderDetached(slide)
			incoming := t.renderer.RenderDetached(next)
			t.engine.Render(kind, t.frame, outgoing, incoming, TransitionProgress(f, plan.Transition))
			if err := emit(t.frame); err != nil {
				return err
			}
		}
	}
	return nil
}
