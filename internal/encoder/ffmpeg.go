package encoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const stderrTail = 4096

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process that writes
// the container to a temp file.
type FFmpegEncoder struct {
	format Format
	cfg    Config

	cmd     *exec.Cmd
	cancel  context.CancelFunc
	stdin   io.WriteCloser
	stderr  *tailBuffer
	outPath string
	frames  int
	waited  bool
	waitErr error
}

// NewFFmpegEncoder returns an unstarted encoder for f.
func NewFFmpegEncoder(f Format, cfg Config) *FFmpegEncoder {
	return &FFmpegEncoder{format: f, cfg: cfg, stderr: newTailBuffer(stderrTail)}
}

// Args returns the ffmpeg command line (without the binary) for writing to out.
func (e *FFmpegEncoder) Args(out string) []string {
	in := ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", e.cfg.Width, e.cfg.Height),
		"r":       e.cfg.FPS,
	}
	kw := ffmpeg.KwArgs{
		"f":       e.format.Container,
		"pix_fmt": "yuv420p",
	}
	if e.format.Codec != "" {
		kw["c:v"] = e.format.Codec
	}
	if e.cfg.Bitrate > 0 {
		kw["b:v"] = e.cfg.Bitrate
	}
	switch e.format.Codec {
	case "libx264":
		kw["preset"] = "medium"
		kw["movflags"] = "+faststart"
	case "mpeg4":
		kw["movflags"] = "+faststart"
	case "libvpx-vp9":
		kw["row-mt"] = 1
	}
	return ffmpeg.Input("pipe:", in).
		Output(out, kw).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

func (e *FFmpegEncoder) fail(op string, err error) error {
	return &EncoderError{Op: op, Format: e.format.MIMEType, Err: err, Stderr: e.stderr.String()}
}

// Start launches ffmpeg.
func (e *FFmpegEncoder) Start(ctx context.Context) error {
	if e.cmd != nil {
		return e.fail("start", errors.New("already started"))
	}
	tmp, err := os.CreateTemp(e.cfg.TempDir, "collage-video-*."+e.format.Extension)
	if err != nil {
		return e.fail("start", err)
	}
	e.outPath = tmp.Name()
	tmp.Close()

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, e.cfg.FFmpegPath, e.Args(e.outPath)...)
	cmd.Stderr = e.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		os.Remove(e.outPath)
		return e.fail("start", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		os.Remove(e.outPath)
		return e.fail("start", err)
	}
	e.cmd, e.cancel, e.stdin = cmd, cancel, stdin
	e.cfg.Logger.Debug("ffmpeg started", "path", e.cfg.FFmpegPath, "format", e.format.MIMEType, "output", e.outPath)
	return nil
}

// WriteFrame sends one frame to ffmpeg's stdin.
func (e *FFmpegEncoder) WriteFrame(frame *image.RGBA) error {
	if e.cmd == nil || e.waited {
		return e.fail("write", errors.New("encoder not running"))
	}
	if err := checkFrame(frame, e.cfg); err != nil {
		return e.fail("write", err)
	}
	if err := writeRGBA(e.stdin, frame); err != nil {
		// A broken pipe means ffmpeg exited; its stderr says why.
		e.stdin.Close()
		e.wait()
		return e.fail("write", err)
	}
	e.frames++
	return nil
}

func writeRGBA(w io.Writer, frame *image.RGBA) error {
	b := frame.Bounds()
	n := b.Dx() * 4
	if frame.Stride == n {
		off := frame.PixOffset(b.Min.X, b.Min.Y)
		_, err := w.Write(frame.Pix[off : off+n*b.Dy()])
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := frame.PixOffset(b.Min.X, y)
		if _, err := w.Write(frame.Pix[off : off+n]); err != nil {
			return err
		}
	}
	return nil
}

func (e *FFmpegEncoder) wait() error {
	if !e.waited {
		e.waitErr = e.cmd.Wait()
		e.waited = true
		e.cancel()
	}
	return e.waitErr
}

// Finish closes stdin, waits for ffmpeg to exit and reads back the file.
func (e *FFmpegEncoder) Finish(ctx context.Context) (Result, error) {
	if e.cmd == nil {
		return Result{}, e.fail("finish", errors.New("encoder not started"))
	}
	defer os.Remove(e.outPath)

	e.stdin.Close()
	done := make(chan error, 1)
	go func() { done <- e.wait() }()

	select {
	case err := <-done:
		if err != nil {
			return Result{}, e.fail("finish", err)
		}
	case <-ctx.Done():
		e.cancel()
		<-done
		return Result{}, e.fail("finish", ctx.Err())
	}

	data, err := os.ReadFile(e.outPath)
	if err != nil {
		return Result{}, e.fail("finish", err)
	}
	if len(data) == 0 {
		return Result{}, e.fail("finish", errors.New("ffmpeg produced no output"))
	}
	return Result{
		Data:      data,
		MIMEType:  e.format.MIMEType,
		Extension: e.format.Extension,
		Frames:    e.frames,
	}, nil
}

// Abort kills ffmpeg and deletes its partial output.
func (e *FFmpegEncoder) Abort() {
	if e.cmd == nil {
		return
	}
	if !e.waited {
		e.cancel()
		e.stdin.Close()
		e.wait()
	}
	os.Remove(e.outPath)
}
