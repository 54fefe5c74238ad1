package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"collage-video/internal/layout"
	"collage-video/internal/logging"
	"collage-video/internal/project"
)

func main() {
	out := flag.String("out", "", "Output archive (default: <project>.zip, - for stdout)")
	faceCrops := flag.Bool("face-crops", false, "Store face-centered crops for slots without one")
	layoutsFile := flag.String("layouts", "", "Extra layout catalog (YAML)")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] project-dir|project.json|project.zip\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	log := logging.New(*logLevel, "text", os.Stderr)

	src := flag.Arg(0)
	proj, err := project.Load(src, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer proj.Close()

	if *faceCrops {
		layouts := layout.Builtin()
		if *layoutsFile != "" {
			extra, err := layout.Load(*layoutsFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading layouts: %v\n", err)
				os.Exit(1)
			}
			layouts = layout.Merge(layouts, extra)
		}
		project.ApplyFaceCrops(proj.File.Slides, proj.Photos, layouts)
	}

	dst := *out
	if dst == "" {
		dst = archiveName(src)
	}
	if err := write(dst, proj); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(proj.Missing) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d photos had no image and were stored without one\n", len(proj.Missing))
	}
	if dst != project.Stdin {
		fmt.Printf("OK  %d slides, %d photos -> %s\n", len(proj.File.Slides), len(proj.Photos), dst)
	}
}

// archiveName puts the archive next to a project directory or document.
func archiveName(src string) string {
	if src == project.Stdin {
		return "gallery.zip"
	}
	clean := filepath.Clean(src)
	base := filepath.Base(clean)
	switch base {
	case "project.json", "project.yaml":
		clean = filepath.Dir(clean)
	}
	return clean + ".zip"
}

func write(path string, proj *project.Project) error {
	if path == project.Stdin {
		w := bufio.NewWriter(os.Stdout)
		if err := project.WriteArchive(w, proj.File.Slides, proj.Photos, time.Now()); err != nil {
			return err
		}
		return w.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = project.WriteArchive(f, proj.File.Slides, proj.Photos, time.Now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
