package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"collage-video/internal/batch"
	"collage-video/internal/config"
	"collage-video/internal/encoder"
	"collage-video/internal/export"
	"collage-video/internal/layout"
	"collage-video/internal/logging"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (YAML or JSON)")
	envFile := flag.String("env", ".env", "Optional .env file with COLLAGE_* overrides")
	resolution := flag.String("resolution", "", "Output resolution: 720p, 1080p or 4k (default: 1080p)")
	fps := flag.Int("fps", 0, "Frame rate: 24, 30 or 60 (default: 30)")
	outputDir := flag.String("output", "", "Output directory (default: exports)")
	ffmpegPath := flag.String("ffmpeg", "", "Path to ffmpeg (default: auto-detect)")
	formats := flag.String("formats", "", "Comma separated MIME preference list")
	workers := flag.Int("workers", 0, "Photo decode workers (default: NumCPU)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	realtime := flag.Bool("realtime", false, "Pace rendering to the output frame rate")
	noBlur := flag.Bool("no-blur", false, "Render blur transitions as fades")
	poster := flag.Bool("poster", false, "Also write a WebP poster of the first frame")
	mjpeg := flag.Bool("mjpeg", false, "Fall back to built-in Motion JPEG when ffmpeg cannot encode")
	faceCrops := flag.Bool("face-crops", true, "Pan unset slot crops toward detected faces")
	prefix := flag.String("prefix", "", "Output file name prefix (default: project name)")
	listFormats := flag.Bool("list-formats", false, "Print encodable formats and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] project.zip|project-dir|project.json ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file and environment
	cfg.Resolve(config.Flags{
		Resolution: *resolution,
		FPS:        *fps,
		OutputDir:  *outputDir,
		FFmpeg:     *ffmpegPath,
		Formats:    *formats,
		Workers:    *workers,
		LogLevel:   *logLevel,
		Realtime:   *realtime,
		NoBlur:     *noBlur,
		Poster:     *poster,
		MJPEG:      *mjpeg,
	})

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	opts, err := cfg.ExportOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	prefs, err := encoder.ParsePreferences(cfg.Formats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ffmpeg, found := encoder.LocateFFmpeg(cfg.FFmpegPath)
	if !found {
		log.Warn("ffmpeg not found", "configured", cfg.FFmpegPath)
	}
	prober := encoder.NewFFmpegProber(ffmpeg)

	if *listFormats {
		printFormats(os.Stdout, prober, prefs, cfg.MJPEG)
		return
	}

	projects := flag.Args()
	if len(projects) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	layouts := layout.Builtin()
	if cfg.LayoutsFile != "" {
		extra, err := layout.Load(cfg.LayoutsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading layouts: %v\n", err)
			os.Exit(1)
		}
		layouts = layout.Merge(layouts, extra)
	}

	pipeline := export.New(export.Options{
		Logger:      log,
		Prober:      prober,
		Preferences: prefs,
		AllowMJPEG:  cfg.MJPEG,
		FFmpegPath:  ffmpeg,
		TempDir:     cfg.TempDir,
		JPEGQuality: cfg.JPEGQuality,
		Realtime:    cfg.Realtime,
		Workers:     cfg.Workers,
		MaxPhotoDim: cfg.MaxPhotoDim,
		BlurEnabled: cfg.BlurEnabled(),
		Poster:      cfg.Poster,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc, _ := opts.Resolution.Config()
	fmt.Println(titleStyle.Render("Collage Video Export"))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Projects: %d, Output: %s, %s @ %d fps", len(projects), cfg.OutputDir, rc.Label, opts.FPS)))
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	printer := newProgressPrinter(os.Stdout)
	results := batch.Run(ctx, batch.Config{
		Exporter:  pipeline,
		Options:   opts,
		Layouts:   layouts,
		OutputDir: cfg.OutputDir,
		Prefix:    *prefix,
		FaceCrops: *faceCrops,
		Logger:    log,
		Progress:  printer.update,
	}, projects)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := batch.Failed(results)
	fmt.Printf("Exported: %d/%d\n", len(results)-len(failed), len(results))
	for _, r := range results {
		if r.Success {
			fmt.Printf("  %s -> %s\n", r.Name, statusStyle.Render(filepath.Join(cfg.OutputDir, r.Video)))
		}
	}
	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed {
			fmt.Printf("  %s: %s\n", r.Name, errorStyle.Render(r.Error))
		}
	}

	// Write manifest
	if err := os.MkdirAll(cfg.OutputDir, 0755); err == nil {
		manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
		if err := batch.WriteManifest(manifestPath, opts, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
	}

	if ctx.Err() != nil {
		os.Exit(130)
	}
	if len(failed) > 0 {
		os.Exit(1)
	}
}

func printFormats(w io.Writer, prober encoder.Prober, prefs []encoder.Format, allowMJPEG bool) {
	if !prober.FFmpegAvailable() {
		fmt.Fprintln(w, errorStyle.Render("ffmpeg: not available"))
	}
	listed := slices.Clone(prefs)
	if !slices.Contains(listed, encoder.GenericWebM) {
		listed = append(listed, encoder.GenericWebM)
	}
	for _, f := range listed {
		if f.Backend != encoder.BackendFFmpeg {
			continue
		}
		ok := prober.FFmpegAvailable() && (f.Codec == "" || prober.HasEncoder(f.Codec))
		mark := errorStyle.Render("no ")
		if ok {
			mark = statusStyle.Render("yes")
		}
		fmt.Fprintf(w, "  %s %s\n", mark, f.MIMEType)
	}
	if allowMJPEG {
		fmt.Fprintf(w, "  %s %s (built-in)\n", statusStyle.Render("yes"), encoder.MotionJPEG.MIMEType)
	}
	if f, err := encoder.Select(prefs, prober, allowMJPEG); err == nil {
		fmt.Fprintf(w, "Selected: %s\n", titleStyle.Render(f.MIMEType))
	} else {
		fmt.Fprintf(w, "Selected: %s\n", errorStyle.Render(err.Error()))
	}
}
