package export

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"collage-video/internal/compositor"
	"collage-video/internal/layout"
	"collage-video/internal/model"
	"collage-video/internal/photo"
	"collage-video/internal/raster"
	"collage-video/internal/transition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver records every photo lookup made while rendering.
type countingResolver struct {
	photo.Resolver

	mu    sync.Mutex
	calls map[string]int
}

func (c *countingResolver) Image(id string) (*image.RGBA, bool) {
	c.mu.Lock()
	c.calls[id]++
	c.mu.Unlock()
	return c.Resolver.Image(id)
}

func newTimeline(images photo.Resolver, w, h int) *timeline {
	return &timeline{
		renderer: &compositor.Renderer{Width: w, Height: h, Images: images, Layouts: layout.Builtin()},
		engine:   transition.NewEngine(),
		frame:    raster.NewSurface(w, h),
	}
}

func twoSlides() []model.Slide {
	return []model.Slide{
		{ID: "a", LayoutID: "single", PhotoIDs: []string{"a"}, DurationTicks: 30,
			Transition: model.TransitionConfig{Type: "fade", DurationTicks: 15}},
		{ID: "b", LayoutID: "single", PhotoIDs: []string{"b"}, DurationTicks: 30},
	}
}

func solidPhoto(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 18))
	raster.Clear(img, c)
	return img
}

func TestTimelineRendersEveryFrame(t *testing.T) {
	cache := photo.NewCache()
	cache.Put("a", solidPhoto(color.RGBA{255, 0, 0, 255}))
	cache.Put("b", solidPhoto(color.RGBA{0, 0, 255, 255}))
	images := &countingResolver{Resolver: cache, calls: map[string]int{}}

	frames := 0
	err := newTimeline(images, 64, 36).run(twoSlides(), 30, func(*image.RGBA) error {
		frames++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 60, frames)
	// a: 15 content frames plus the outgoing side of 15 transition frames.
	assert.Equal(t, 30, images.calls["a"])
	// b: the incoming side of 15 transition frames plus 30 content frames.
	assert.Equal(t, 45, images.calls["b"])
}

func TestTimelineFadeProgress(t *testing.T) {
	cache := photo.NewCache()
	cache.Put("a", solidPhoto(color.RGBA{255, 0, 0, 255}))
	cache.Put("b", solidPhoto(color.RGBA{0, 0, 255, 255}))

	var reds []uint8
	err := newTimeline(cache, 64, 36).run(twoSlides(), 30, func(f *image.RGBA) error {
		reds = append(reds, f.RGBAAt(32, 18).R)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, reds, 60)

	assert.Equal(t, uint8(255), reds[14])
	assert.Equal(t, uint8(255), reds[15], "first transition frame is the outgoing slide")
	for i := 16; i < 30; i++ {
		assert.Less(t, reds[i], reds[i-1])
	}
	assert.Equal(t, uint8(0), reds[30])
}

func TestTimelineStopsOnEmitError(t *testing.T) {
	cache := photo.NewCache()
	boom := errors.New("boom")

	n := 0
	err := newTimeline(cache, 16, 9).run(twoSlides(), 30, func(*image.RGBA) error {
		n++
		if n == 20 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 20, n)
}
