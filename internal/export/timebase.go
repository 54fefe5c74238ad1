package export

import (
	"math"

	"collage-video/internal/model"
)

// FPSRatio converts authoring ticks into output frames.
func FPSRatio(fps int) float64 {
	return float64(fps) / model.TicksPerSecond
}

// FrameCount is the number of output frames for a tick duration.
func FrameCount(ticks, fps int) int {
	if ticks <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(float64(ticks) * FPSRatio(fps)))
}

// TotalFrames is the frame count of the whole timeline.
func TotalFrames(slides []model.Slide, fps int) int {
	total := 0
	for _, s := range slides {
		total += FrameCount(s.DurationTicks, fps)
	}
	return total
}

// SlidePlan splits one slide's frames into a static hold followed by the
// transition into the next slide.
type SlidePlan struct {
	Index      int
	Content    int
	Transition int
}

// Frames is the slide's total frame budget.
func (p SlidePlan) Frames() int { return p.Content + p.Transition }

// Plan lays out the timeline. The last slide never transitions, and a
// transition never takes more frames than its slide has, so the plan
// always sums to TotalFrames.
func Plan(slides []model.Slide, fps int) []SlidePlan {
	plans := make([]SlidePlan, len(slides))
	for i, s := range slides {
		frames := FrameCount(s.DurationTicks, fps)
		trans := 0
		if i < len(slides)-1 {
			trans = min(FrameCount(s.Transition.DurationTicks, fps), frames)
		}
		plans[i] = SlidePlan{Index: i, Content: frames - trans, Transition: trans}
	}
	return plans
}

// TransitionProgress is the blend position of transition frame f out of n.
// It runs from 0 on the first frame toward 1 on the frame after the last,
// so the next slide's first content frame completes the sequence.
func TransitionProgress(f, n int) float64 {
	if n <= 0 {
		return 1
	}
	return float64(f) / float64(n)
}
