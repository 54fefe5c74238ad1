package encoder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"

	"github.com/icza/mjpeg"
)

const defaultJPEGQuality = 90

// MJPEGEncoder writes each frame as a JPEG into an AVI container. It needs
// no external tools.
type MJPEGEncoder struct {
	cfg     Config
	writer  mjpeg.AviWriter
	outPath string
	buf     bytes.Buffer
	frames  int
	closed  bool
}

// NewMJPEGEncoder returns an unstarted Motion JPEG encoder.
func NewMJPEGEncoder(cfg Config) *MJPEGEncoder {
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = defaultJPEGQuality
	}
	return &MJPEGEncoder{cfg: cfg}
}

func (e *MJPEGEncoder) fail(op string, err error) error {
	return &EncoderError{Op: op, Format: MotionJPEG.MIMEType, Err: err}
}

func (e *MJPEGEncoder) Start(ctx context.Context) error {
	if e.writer != nil {
		return e.fail("start", errors.New("already started"))
	}
	if err := ctx.Err(); err != nil {
		return e.fail("start", err)
	}
	tmp, err := os.CreateTemp(e.cfg.TempDir, "collage-video-*.avi")
	if err != nil {
		return e.fail("start", err)
	}
	e.outPath = tmp.Name()
	tmp.Close()

	w, err := mjpeg.New(e.outPath, int32(e.cfg.Width), int32(e.cfg.Height), int32(e.cfg.FPS))
	if err != nil {
		os.Remove(e.outPath)
		return e.fail("start", err)
	}
	e.writer = w
	return nil
}

func (e *MJPEGEncoder) WriteFrame(frame *image.RGBA) error {
	if e.writer == nil || e.closed {
		return e.fail("write", errors.New("encoder not running"))
	}
	if err := checkFrame(frame, e.cfg); err != nil {
		return e.fail("write", err)
	}
	e.buf.Reset()
	if err := jpeg.Encode(&e.buf, frame, &jpeg.Options{Quality: e.cfg.JPEGQuality}); err != nil {
		return e.fail("write", err)
	}
	if err := e.writer.AddFrame(e.buf.Bytes()); err != nil {
		return e.fail("write", err)
	}
	e.frames++
	return nil
}

func (e *MJPEGEncoder) Finish(ctx context.Context) (Result, error) {
	if e.writer == nil || e.closed {
		return Result{}, e.fail("finish", errors.New("encoder not running"))
	}
	defer os.Remove(e.outPath)
	e.closed = true
	if err := e.writer.Close(); err != nil {
		return Result{}, e.fail("finish", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, e.fail("finish", err)
	}
	data, err := os.ReadFile(e.outPath)
	if err != nil {
		return Result{}, e.fail("finish", err)
	}
	return Result{
		Data:      data,
		MIMEType:  MotionJPEG.MIMEType,
		Extension: MotionJPEG.Extension,
		Frames:    e.frames,
	}, nil
}

func (e *MJPEGEncoder) Abort() {
	if e.writer == nil {
		return
	}
	if !e.closed {
		e.closed = true
		e.writer.Close()
	}
	os.Remove(e.outPath)
}
