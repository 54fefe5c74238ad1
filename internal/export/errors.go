package export

import (
	"errors"

	"collage-video/internal/encoder"
	"collage-video/internal/model"
)

var (
	// ErrCancelled is returned when a run is cancelled. No output is produced.
	ErrCancelled = errors.New("export: cancelled")
	// ErrBusy is returned by Start while another run is in flight.
	ErrBusy = errors.New("export: another export is running")
	// ErrNoSlides is returned for an empty timeline.
	ErrNoSlides = errors.New("export: timeline has no frames")

	ErrUnsupportedFormat = encoder.ErrUnsupportedFormat
	ErrInvalidOptions    = model.ErrInvalidOptions
)
