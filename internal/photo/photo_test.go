package photo

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"collage-video/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(model.BytesSource(encodePNG(t, 6, 4, color.RGBA{10, 20, 30, 255})))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(5, 3))
}

func TestDecodeJPEG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := Decode(model.BytesSource(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).A)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Decode(model.BytesSource("not an image"))
	assert.Error(t, err)

	_, err = Decode(model.FileSource("/nonexistent/photo.jpg"))
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	c.Put("a", a)
	c.Put("a", b)
	c.Put("nil", nil)

	got, ok := c.Image("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = c.Image("nil")
	assert.False(t, ok)
	_, ok = c.Image("")
	assert.False(t, ok)

	assert.Equal(t, []string{"a"}, c.IDs())
	c.Release()
	assert.Zero(t, c.Len())
}

func TestPreloadAbsorbsFailures(t *testing.T) {
	photos := map[string]model.Photo{
		"good":   {ID: "good", Source: model.BytesSource(encodePNG(t, 40, 20, color.RGBA{255, 0, 0, 255}))},
		"broken": {ID: "broken", Source: model.BytesSource("garbage")},
		"nosrc":  {ID: "nosrc"},
	}
	cache, stats, err := Preload(context.Background(), photos, []string{"good", "broken", "nosrc", "unknown"}, Options{
		Workers:  3,
		MaxWidth: 10,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, Stats{Requested: 4, Loaded: 1, Failed: 3}, stats)
	img, ok := cache.Image("good")
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 10, 5), img.Bounds(), "downsampled to bound")
	_, ok = cache.Image("broken")
	assert.False(t, ok)
}

func TestPreloadEmpty(t *testing.T) {
	cache, stats, err := Preload(context.Background(), nil, nil, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Zero(t, cache.Len())
	assert.Zero(t, stats.Requested)
}

func TestPreloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	photos := map[string]model.Photo{"a": {ID: "a", Source: model.BytesSource(encodePNG(t, 2, 2, color.RGBA{A: 255}))}}
	_, _, err := Preload(ctx, photos, []string{"a"}, Options{Logger: quietLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}
