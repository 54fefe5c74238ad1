package photo

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"collage-video/internal/model"
	"collage-video/internal/raster"
)

// Options controls a preload run.
type Options struct {
	Workers   int
	MaxWidth  int // 0 = unbounded
	MaxHeight int // 0 = unbounded
	Logger    *slog.Logger
}

// Stats summarizes a preload run.
type Stats struct {
	Requested int
	Loaded    int
	Failed    int
}

// Preload decodes every photo in ids into a new cache using a worker pool.
// A photo that is missing or fails to decode is logged and left out; it
// renders as an empty slot. Only cancellation of ctx is reported as an error.
func Preload(ctx context.Context, photos map[string]model.Photo, ids []string, opts Options) (*Cache, Stats, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(1, len(ids)))

	cache := NewCache()
	var loaded, failed atomic.Int64

	idChan := make(chan string, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				if ctx.Err() != nil {
					continue
				}
				img, err := load(photos, id, opts)
				if err != nil {
					failed.Add(1)
					log.Warn("photo decode failed; slot will render empty", "photo_id", id, "error", err)
					continue
				}
				cache.Put(id, img)
				loaded.Add(1)
			}
		}()
	}

send:
	for _, id := range ids {
		select {
		case <-ctx.Done():
			break send
		case idChan <- id:
		}
	}
	close(idChan)
	wg.Wait()

	stats := Stats{Requested: len(ids), Loaded: int(loaded.Load()), Failed: int(failed.Load())}
	if err := ctx.Err(); err != nil {
		return cache, stats, err
	}
	log.Debug("photos preloaded", "requested", stats.Requested, "loaded", stats.Loaded, "failed", stats.Failed)
	return cache, stats, nil
}

func load(photos map[string]model.Photo, id string, opts Options) (*image.RGBA, error) {
	p, ok := photos[id]
	if !ok {
		return nil, ErrNoSource
	}
	img, err := DecodePhoto(p)
	if err != nil {
		return nil, err
	}
	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		img = raster.Downsample(img, opts.MaxWidth, opts.MaxHeight)
	}
	return img, nil
}
