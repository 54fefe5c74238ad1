package encoder

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Encoder consumes frames one at a time and produces a single video.
// Calls are not safe for concurrent use.
type Encoder interface {
	Start(ctx context.Context) error
	WriteFrame(frame *image.RGBA) error
	// Finish flushes the stream and returns the finished video.
	Finish(ctx context.Context) (Result, error)
	// Abort stops encoding and discards all output. Safe to call at any
	// point, including after Finish or more than once.
	Abort()
}

// Result is a finished video.
type Result struct {
	Data      []byte
	MIMEType  string
	Extension string
	Frames    int
}

// Config describes the stream an encoder is built for.
type Config struct {
	Width       int
	Height      int
	FPS         int
	Bitrate     int
	FFmpegPath  string
	TempDir     string
	JPEGQuality int
	Logger      *slog.Logger
}

// New builds the encoder backend for f.
func New(f Format, cfg Config) (Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("encoder: invalid stream %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch f.Backend {
	case BackendFFmpeg:
		if cfg.FFmpegPath == "" {
			return nil, fmt.Errorf("%w: %s needs ffmpeg", ErrUnsupportedFormat, f.MIMEType)
		}
		return NewFFmpegEncoder(f, cfg), nil
	case BackendMJPEG:
		return NewMJPEGEncoder(cfg), nil
	}
	return nil, fmt.Errorf("%w: backend %q", ErrUnsupportedFormat, f.Backend)
}

func checkFrame(frame *image.RGBA, cfg Config) error {
	if frame == nil {
		return fmt.Errorf("nil frame")
	}
	if s := frame.Bounds().Size(); s.X != cfg.Width || s.Y != cfg.Height {
		return fmt.Errorf("frame is %dx%d, stream is %dx%d", s.X, s.Y, cfg.Width, cfg.Height)
	}
	return nil
}
