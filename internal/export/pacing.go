package export

import (
	"context"
	"time"
)

// Clock abstracts wall time so pacing can be tested without real timers.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is done, whichever is first.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer decides how long to wait after a frame has been produced.
type Pacer interface {
	Delay(frame int, start, now time.Time) time.Duration
}

// NoPacer never waits. Offline encoders consume frames as fast as they come.
type NoPacer struct{}

func (NoPacer) Delay(int, time.Time, time.Time) time.Duration { return 0 }

// RealtimePacer holds frame n until start + (n+1)/fps, so frames leave at
// the output frame rate. Frames that are already late do not wait.
type RealtimePacer struct {
	FPS int
}

func (p RealtimePacer) Delay(frame int, start, now time.Time) time.Duration {
	if p.FPS <= 0 {
		return 0
	}
	deadline := start.Add(time.Duration(frame+1) * time.Second / time.Duration(p.FPS))
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}
