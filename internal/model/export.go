package model

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned by ExportOptions.Validate.
var ErrInvalidOptions = errors.New("invalid export options")

// Resolution names one of the supported output sizes.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution4K    Resolution = "4k"
)

// ResolutionConfig is the (width, height, bitrate) tuple behind a Resolution.
type ResolutionConfig struct {
	Width   int
	Height  int
	Bitrate int
	Label   string
}

var resolutions = map[Resolution]ResolutionConfig{
	Resolution720p:  {Width: 1280, Height: 720, Bitrate: 5_000_000, Label: "720p (HD)"},
	Resolution1080p: {Width: 1920, Height: 1080, Bitrate: 10_000_000, Label: "1080p (Full HD)"},
	Resolution4K:    {Width: 3840, Height: 2160, Bitrate: 35_000_000, Label: "4K (Ultra HD)"},
}

// Config returns the tuple for r.
func (r Resolution) Config() (ResolutionConfig, bool) {
	c, ok := resolutions[r]
	return c, ok
}

// ParseResolution accepts "720p", "1080p" and "4k" (case-insensitive variants of 4K too).
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "720p", "720":
		return Resolution720p, nil
	case "1080p", "1080":
		return Resolution1080p, nil
	case "4k", "4K", "2160p":
		return Resolution4K, nil
	}
	return "", fmt.Errorf("%w: unknown resolution %q (expected 720p|1080p|4k)", ErrInvalidOptions, s)
}

// SupportedFPS lists the frame rates an export may request.
var SupportedFPS = []int{24, 30, 60}

// ExportOptions selects output size and frame rate.
type ExportOptions struct {
	Resolution Resolution `json:"resolution" yaml:"resolution"`
	FPS        int        `json:"fps" yaml:"fps"`
}

// Validate checks the options against the supported sets.
func (o ExportOptions) Validate() error {
	if _, ok := o.Resolution.Config(); !ok {
		return fmt.Errorf("%w: unknown resolution %q", ErrInvalidOptions, o.Resolution)
	}
	for _, f := range SupportedFPS {
		if o.FPS == f {
			return nil
		}
	}
	return fmt.Errorf("%w: fps %d not in %v", ErrInvalidOptions, o.FPS, SupportedFPS)
}

// Status is the export state machine.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPreparing Status = "preparing"
	StatusRendering Status = "rendering"
	StatusEncoding  Status = "encoding"
	StatusComplete  Status = "complete"
	StatusCancelled Status = "cancelled"
	StatusError     Status = "error"
)

// Terminal reports whether no further transitions can follow s.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusCancelled || s == StatusError
}

// ExportProgress is a snapshot emitted during an export. Consumers must not mutate it.
type ExportProgress struct {
	Status                    Status   `json:"status"`
	CurrentFrame              int      `json:"currentFrame"`
	TotalFrames               int      `json:"totalFrames"`
	Percentage                float64  `json:"percentage"`
	EstimatedSecondsRemaining *float64 `json:"estimatedTimeRemaining"`
	Error                     string   `json:"error,omitempty"`
}
