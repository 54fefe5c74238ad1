package export

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"collage-video/internal/compositor"
	"collage-video/internal/encoder"
	"collage-video/internal/logging"
	"collage-video/internal/model"
	"collage-video/internal/photo"
	"collage-video/internal/raster"
	"collage-video/internal/transition"

	"github.com/google/uuid"
)

// EncoderFactory builds the encoder for a selected format.
type EncoderFactory func(encoder.Format, encoder.Config) (encoder.Encoder, error)

// Options configures a Pipeline. The zero value renders offline with the
// default format preferences and no ffmpeg.
type Options struct {
	Logger *slog.Logger

	Prober      encoder.Prober
	Preferences []encoder.Format
	AllowMJPEG  bool
	FFmpegPath  string
	TempDir     string
	JPEGQuality int
	NewEncoder  EncoderFactory

	// Realtime paces frames to the output rate.
	Realtime bool
	Clock    Clock

	Workers int
	// MaxPhotoDim bounds decoded photos; 0 means twice the longer output
	// edge, negative keeps full resolution.
	MaxPhotoDim int

	BlurEnabled bool
	Poster      bool
}

// Pipeline runs exports, one at a time.
type Pipeline struct {
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	active *Job
}

// New returns a pipeline.
func New(opts Options) *Pipeline {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.NewEncoder == nil {
		opts.NewEncoder = encoder.New
	}
	return &Pipeline{
		opts: opts,
		log:  logging.WithComponent(logging.OrDefault(opts.Logger), "export"),
	}
}

// Export runs a whole export and blocks until it finishes.
func (p *Pipeline) Export(ctx context.Context, snap model.Snapshot, opts model.ExportOptions, onProgress ProgressFunc) (Result, error) {
	job, err := p.Start(ctx, snap, opts, onProgress)
	if err != nil {
		return Result{}, err
	}
	return job.Wait()
}

// Start begins an export in the background. Progress is reported on the
// export goroutine. It fails with ErrBusy while another run is active.
func (p *Pipeline) Start(ctx context.Context, snap model.Snapshot, opts model.ExportOptions, onProgress ProgressFunc) (*Job, error) {
	rep := &progressReporter{fn: onProgress, total: TotalFrames(snap.Slides, opts.FPS)}
	if err := opts.Validate(); err != nil {
		rep.emit(model.ExportProgress{Status: model.StatusError, Error: err.Error()})
		return nil, err
	}
	if rep.total == 0 {
		rep.emit(model.ExportProgress{Status: model.StatusError, Error: ErrNoSlides.Error()})
		return nil, ErrNoSlides
	}

	p.mu.Lock()
	if p.active != nil {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	job := &Job{ID: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	p.active = job
	p.mu.Unlock()

	go func() {
		defer cancel()
		job.result, job.err = p.run(runCtx, job.ID, snap, opts, rep)
		job.result.JobID = job.ID

		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
		close(job.done)
	}()
	return job, nil
}

// Cancel stops the active run, if any.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	job := p.active
	p.mu.Unlock()
	if job != nil {
		job.Cancel()
	}
}

// busy reports whether a run is in flight.
func (p *Pipeline) busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

type run struct {
	ctx      context.Context
	rep      *progressReporter
	enc      encoder.Encoder
	pacer    Pacer
	clock    Clock
	start    time.Time
	produced int
}

// emit hands the canonical frame to the encoder, reports progress, then
// honours cancellation and pacing.
func (r *run) emit(frame *image.RGBA) error {
	if err := r.enc.WriteFrame(frame); err != nil {
		if r.ctx.Err() != nil {
			return ErrCancelled
		}
		return err
	}
	now := r.clock.Now()
	delay := r.pacer.Delay(r.produced, r.start, now)
	r.produced++
	r.rep.frame(r.produced, now.Sub(r.start))

	if r.ctx.Err() != nil {
		return ErrCancelled
	}
	if delay > 0 {
		if err := r.clock.Sleep(r.ctx, delay); err != nil {
			return ErrCancelled
		}
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, jobID string, snap model.Snapshot, opts model.ExportOptions, rep *progressReporter) (res Result, err error) {
	log := logging.WithJobID(p.log, jobID)
	resCfg, _ := opts.Resolution.Config()
	w, h := resCfg.Width, resCfg.Height

	var enc encoder.Encoder
	finished := false
	defer func() {
		if enc != nil && !finished {
			enc.Abort()
		}
		switch {
		case err == nil:
		case errors.Is(err, ErrCancelled):
			log.Info("export cancelled", "frames_done", rep.last.CurrentFrame)
			rep.emit(model.ExportProgress{
				Status:       model.StatusCancelled,
				CurrentFrame: rep.last.CurrentFrame,
				Percentage:   percentage(rep.last.CurrentFrame, rep.total),
			})
		default:
			var encErr *encoder.EncoderError
			if errors.As(err, &encErr) {
				log.Error("encoder failed", "op", encErr.Op, "format", encErr.Format, "error", encErr.Err, "stderr", encErr.Stderr)
			} else {
				log.Error("export failed", "error", err)
			}
			rep.emit(model.ExportProgress{
				Status:       model.StatusError,
				CurrentFrame: rep.last.CurrentFrame,
				Percentage:   percentage(rep.last.CurrentFrame, rep.total),
				Error:        err.Error(),
			})
		}
	}()

	rep.status(model.StatusPreparing)

	maxDim := p.opts.MaxPhotoDim
	if maxDim == 0 {
		maxDim = 2 * max(w, h)
	} else if maxDim < 0 {
		maxDim = 0
	}
	images, stats, err := photo.Preload(ctx, snap.Photos, snap.ReferencedPhotoIDs(), photo.Options{
		Workers:   p.opts.Workers,
		MaxWidth:  maxDim,
		MaxHeight: maxDim,
		Logger:    log,
	})
	if err != nil {
		return Result{}, ErrCancelled
	}
	defer images.Release()

	format, err := encoder.Select(p.opts.Preferences, p.opts.Prober, p.opts.AllowMJPEG)
	if err != nil {
		return Result{}, err
	}
	enc, err = p.opts.NewEncoder(format, encoder.Config{
		Width:       w,
		Height:      h,
		FPS:         opts.FPS,
		Bitrate:     resCfg.Bitrate,
		FFmpegPath:  p.opts.FFmpegPath,
		TempDir:     p.opts.TempDir,
		JPEGQuality: p.opts.JPEGQuality,
		Logger:      log,
	})
	if err != nil {
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{}, ErrCancelled
	}
	if err := enc.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return Result{}, ErrCancelled
		}
		return Result{}, err
	}

	log.Info("export started",
		"slides", len(snap.Slides),
		"frames", rep.total,
		"resolution", string(opts.Resolution),
		"fps", opts.FPS,
		"format", format.MIMEType,
		"photos_loaded", stats.Loaded,
		"photos_failed", stats.Failed,
	)

	r := &run{
		ctx:   ctx,
		rep:   rep,
		enc:   enc,
		pacer: Pacer(NoPacer{}),
		clock: p.opts.Clock,
	}
	if p.opts.Realtime {
		r.pacer = RealtimePacer{FPS: opts.FPS}
	}

	tl := &timeline{
		renderer: &compositor.Renderer{Width: w, Height: h, Images: images, Layouts: snap.Layouts, Logger: log},
		engine:   &transition.Engine{BlurEnabled: p.opts.BlurEnabled},
		frame:    raster.NewSurface(w, h),
	}

	rep.emit(model.ExportProgress{Status: model.StatusRendering})
	r.start = r.clock.Now()

	var poster []byte
	err = tl.run(snap.Slides, opts.FPS, func(frame *image.RGBA) error {
		if p.opts.Poster && poster == nil {
			var perr error
			if poster, perr = encoder.Poster(frame); perr != nil {
				log.Warn("poster encode failed", "error", perr)
				poster = []byte{}
			}
		}
		return r.emit(frame)
	})
	if err != nil {
		return Result{}, err
	}

	rep.emit(model.ExportProgress{
		Status:                    model.StatusEncoding,
		CurrentFrame:              r.produced,
		Percentage:                100,
		EstimatedSecondsRemaining: zero(),
	})

	out, err := enc.Finish(ctx)
	finished = true
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ErrCancelled
		}
		return Result{}, err
	}
	if ctx.Err() != nil {
		return Result{}, ErrCancelled
	}

	res = Result{
		Video:     out.Data,
		MIMEType:  out.MIMEType,
		Extension: out.Extension,
		Frames:    r.produced,
		Duration:  time.Duration(r.produced) * time.Second / time.Duration(opts.FPS),
		Poster:    nonEmpty(poster),
	}
	rep.emit(model.ExportProgress{
		Status:       model.StatusComplete,
		CurrentFrame: r.produced,
		Percentage:   100,
	})
	log.Info("export complete", "bytes", len(res.Video), "frames", res.Frames, "duration", res.Duration.String(), "elapsed", r.clock.Now().Sub(r.start).String())
	return res, nil
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
