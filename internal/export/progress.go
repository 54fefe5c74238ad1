package export

import (
	"time"

	"collage-video/internal/model"
)

// ProgressFunc receives progress snapshots on the export goroutine, in order.
type ProgressFunc func(model.ExportProgress)

type progressReporter struct {
	fn    ProgressFunc
	total int
	last  model.ExportProgress
}

func (r *progressReporter) emit(p model.ExportProgress) {
	p.TotalFrames = r.total
	r.last = p
	if r.fn != nil {
		r.fn(p)
	}
}

func (r *progressReporter) status(s model.Status) {
	r.emit(model.ExportProgress{Status: s})
}

// frame reports rendering progress after done frames, with an ETA from the
// average rate since start.
func (r *progressReporter) frame(done int, elapsed time.Duration) {
	r.emit(model.ExportProgress{
		Status:                    model.StatusRendering,
		CurrentFrame:              done,
		Percentage:                percentage(done, r.total),
		EstimatedSecondsRemaining: estimate(done, r.total, elapsed),
	})
}

func percentage(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// estimate returns nil until at least one frame is done.
func estimate(done, total int, elapsed time.Duration) *float64 {
	if done <= 0 {
		return nil
	}
	remaining := float64(total - done)
	var eta float64
	if secs := elapsed.Seconds(); secs > 0 {
		eta = remaining / (float64(done) / secs)
	}
	return &eta
}

func zero() *float64 {
	var z float64
	return &z
}
