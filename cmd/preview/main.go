package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"collage-video/internal/compositor"
	"collage-video/internal/encoder"
	"collage-video/internal/layout"
	"collage-video/internal/logging"
	"collage-video/internal/model"
	"collage-video/internal/photo"
	"collage-video/internal/project"
	"collage-video/internal/transition"
)

func main() {
	resolution := flag.String("resolution", "720p", "Output resolution: 720p, 1080p or 4k")
	slideIdx := flag.Int("slide", 0, "Slide index to render")
	progress := flag.Float64("progress", -1, "Render the transition into the next slide at this progress (0-1)")
	kind := flag.String("transition", "", "Override the slide's transition type")
	noBlur := flag.Bool("no-blur", false, "Render blur transitions as fades")
	layoutsFile := flag.String("layouts", "", "Extra layout catalog (YAML)")
	out := flag.String("out", "preview.webp", "Output file (.webp or .png)")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] project\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	log := logging.New(*logLevel, "text", os.Stderr)

	res, err := model.ParseResolution(*resolution)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	rc, _ := res.Config()

	proj, err := project.Load(flag.Arg(0), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer proj.Close()

	slides := proj.File.Slides
	if *slideIdx < 0 || *slideIdx >= len(slides) {
		fmt.Fprintf(os.Stderr, "Error: slide %d out of range (project has %d)\n", *slideIdx, len(slides))
		os.Exit(2)
	}

	layouts := layout.Builtin()
	if *layoutsFile != "" {
		extra, err := layout.Load(*layoutsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading layouts: %v\n", err)
			os.Exit(1)
		}
		layouts = layout.Merge(layouts, extra)
	}
	project.ApplyFaceCrops(slides, proj.Photos, layouts)

	current := slides[*slideIdx]
	wanted := model.Snapshot{Slides: []model.Slide{current}}
	var next *model.Slide
	if *progress >= 0 {
		if *slideIdx+1 >= len(slides) {
			fmt.Fprintln(os.Stderr, "Error: last slide has no transition")
			os.Exit(2)
		}
		next = &slides[*slideIdx+1]
		wanted.Slides = append(wanted.Slides, *next)
	}

	maxDim := 2 * max(rc.Width, rc.Height)
	images, stats, err := photo.Preload(context.Background(), proj.Photos, wanted.ReferencedPhotoIDs(), photo.Options{
		MaxWidth:  maxDim,
		MaxHeight: maxDim,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer images.Release()

	r := &compositor.Renderer{Width: rc.Width, Height: rc.Height, Images: images, Layouts: layouts, Logger: log}
	frame := r.RenderDetached(current)
	label := fmt.Sprintf("slide %d", *slideIdx)

	if next != nil {
		t := current.Transition.Type
		if *kind != "" {
			t = *kind
		}
		incoming := r.RenderDetached(*next)
		outgoing := frame
		frame = image.NewRGBA(outgoing.Rect)
		engine := transition.NewEngine()
		engine.BlurEnabled = !*noBlur
		typ := transition.Parse(t)
		engine.Render(typ, frame, outgoing, incoming, *progress)
		label = fmt.Sprintf("%s -> %d, %s at %.2f", label, *slideIdx+1, typ, *progress)
	}

	if err := write(*out, frame); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK  %s (%dx%d, %d photos, %d failed) -> %s\n", label, rc.Width, rc.Height, stats.Loaded, stats.Failed, *out)
}

func write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(f, img)
	} else {
		err = encoder.WriteWebP(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
