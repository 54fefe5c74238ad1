package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"collage-video/internal/export"
	"collage-video/internal/layout"
	"collage-video/internal/logging"
	"collage-video/internal/model"
	"collage-video/internal/project"
)

// Exporter runs one export to completion.
type Exporter interface {
	Export(ctx context.Context, snap model.Snapshot, opts model.ExportOptions, onProgress export.ProgressFunc) (export.Result, error)
}

// Config holds the shared settings for a batch of project exports.
type Config struct {
	Exporter  Exporter
	Options   model.ExportOptions
	Layouts   layout.Catalog
	OutputDir string
	Prefix    string // output file prefix; empty uses the project name
	FaceCrops bool
	Logger    *slog.Logger

	// Progress receives every snapshot of the project being exported.
	Progress func(name string, p model.ExportProgress)
	Now      func() time.Time
}

// Result holds the outcome of exporting one project.
type Result struct {
	Name     string
	Project  string
	Video    string
	Poster   string
	MIMEType string
	Frames   int
	Duration time.Duration
	JobID    string
	Missing  []string
	Success  bool
	Error    string
	Err      error
}

func (r *Result) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// Run exports projects one after another. The pipeline renders a single
// export at a time, so there is no worker pool here. Once ctx is cancelled
// the remaining projects are reported as cancelled without being opened.
func Run(ctx context.Context, cfg Config, projects []string) []Result {
	log := logging.WithComponent(logging.OrDefault(cfg.Logger), "batch")
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	results := make([]Result, len(projects))

	start := cfg.Now()
	for i, path := range projects {
		if ctx.Err() != nil {
			results[i] = Result{Name: projectName(path), Project: path}
			results[i].fail(export.ErrCancelled)
			continue
		}
		results[i] = processProject(ctx, cfg, log, path)
		log.Info("project done", "project", path, "index", i+1, "total", len(projects), "success", results[i].Success)
	}
	log.Debug("batch finished", "projects", len(projects), "elapsed", cfg.Now().Sub(start).String())
	return results
}

func processProject(ctx context.Context, cfg Config, log *slog.Logger, path string) Result {
	name := projectName(path)
	res := Result{Name: name, Project: path}

	proj, err := project.Load(path, log)
	if err != nil {
		res.fail(err)
		return res
	}
	defer proj.Close()
	res.Missing = proj.Missing

	if cfg.FaceCrops {
		project.ApplyFaceCrops(proj.File.Slides, proj.Photos, cfg.Layouts)
	}

	var onProgress export.ProgressFunc
	if cfg.Progress != nil {
		onProgress = func(p model.ExportProgress) { cfg.Progress(name, p) }
	}
	out, err := cfg.Exporter.Export(ctx, proj.Snapshot(cfg.Layouts), cfg.Options, onProgress)
	if err != nil {
		res.fail(err)
		return res
	}
	res.MIMEType = out.MIMEType
	res.Frames = out.Frames
	res.Duration = out.Duration
	res.JobID = out.JobID

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.fail(fmt.Errorf("mkdir: %w", err))
		return res
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = name
	}
	videoName := project.OutputName(prefix, out.Extension, cfg.Now())
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, videoName), out.Video, 0644); err != nil {
		res.fail(fmt.Errorf("write video: %w", err))
		return res
	}
	res.Video = videoName

	if out.Poster != nil {
		posterName := strings.TrimSuffix(videoName, filepath.Ext(videoName)) + ".webp"
		if err := os.WriteFile(filepath.Join(cfg.OutputDir, posterName), out.Poster, 0644); err != nil {
			log.Warn("poster write failed", "project", path, "error", err)
		} else {
			res.Poster = posterName
		}
	}

	res.Success = true
	return res
}

// projectName derives a file-name-safe label from a project path.
func projectName(path string) string {
	if path == project.Stdin {
		return "gallery-video"
	}
	base := filepath.Base(filepath.Clean(path))
	if base == "project.json" || base == "project.yaml" {
		base = filepath.Base(filepath.Dir(filepath.Clean(path)))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "gallery-video"
	}
	return base
}

// Failed returns the unsuccessful results.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Cancelled reports whether r stopped because its export was cancelled.
func Cancelled(r Result) bool {
	return !r.Success && errors.Is(r.Err, export.ErrCancelled)
}
