package project

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"collage-video/internal/geometry"
	"collage-video/internal/layout"
	"collage-video/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	documentJSON = "project.json"
	documentYAML = "project.yaml"
	photoDir     = "photos"
)

// Project is a loaded slideshow: its document plus a source for every photo
// whose image was found.
type Project struct {
	File    File
	Photos  map[string]model.Photo
	Missing []string // photo ids without an image payload

	closer io.Closer
}

// Close releases the archive backing the project, if any.
func (p *Project) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Snapshot returns the export input for this project.
func (p *Project) Snapshot(layouts layout.Catalog) model.Snapshot {
	return model.Snapshot{Slides: p.File.Slides, Photos: p.Photos, Layouts: layouts}
}

// Stdin is the path Load reads as an archive piped on standard input.
const Stdin = "-"

var stdin io.Reader = os.Stdin

// Load opens a project from a .zip archive, a directory, or a bare
// project.json / project.yaml document. Stdin reads a zip archive from
// standard input.
func Load(path string, log *slog.Logger) (*Project, error) {
	if log == nil {
		log = slog.Default()
	}
	var fi os.FileInfo
	if path != Stdin {
		var err error
		if fi, err = os.Stat(path); err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
	}

	var p *Project
	var err error
	switch {
	case path == Stdin:
		p, err = loadStdin()
	case fi.IsDir():
		p, err = loadDir(path)
	case strings.EqualFold(filepath.Ext(path), ".zip"):
		p, err = loadArchive(path)
	default:
		p, err = loadDocument(path)
	}
	if err != nil {
		return nil, err
	}
	for _, id := range p.Missing {
		log.Warn("photo file missing from project; slot will render empty", "photo_id", id)
	}
	return p, nil
}

// Decode parses a project document. YAML is a superset of JSON, but JSON
// goes through encoding/json so its field semantics match the writer.
func Decode(data []byte, yamlDoc bool) (File, error) {
	var f File
	var err error
	if yamlDoc {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	f.normalize()
	return f, nil
}

func loadDir(dir string) (*Project, error) {
	for _, name := range []string{documentJSON, documentYAML} {
		doc := filepath.Join(dir, name)
		if _, err := os.Stat(doc); err == nil {
			return loadDocument(doc)
		}
	}
	return nil, fmt.Errorf("%w: %s has no %s", ErrInvalid, dir, documentJSON)
}

// loadDocument reads a document and resolves photos against photos/ next
// to it, falling back to each photo's fileName.
func loadDocument(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	f, err := Decode(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	entries, _ := os.ReadDir(filepath.Join(base, photoDir))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	p := &Project{File: f, Photos: make(map[string]model.Photo, len(f.Photos))}
	for _, sp := range f.Photos {
		var src model.ImageSource
		if name, ok := findPayload(names, sp.ID); ok {
			src = model.FileSource(filepath.Join(base, photoDir, name))
		} else if sp.FileName != "" && isFile(filepath.Join(base, sp.FileName)) {
			src = model.FileSource(filepath.Join(base, sp.FileName))
		}
		if src == nil {
			p.Missing = append(p.Missing, sp.ID)
		}
		p.Photos[sp.ID] = sp.photo(src)
	}
	return p, nil
}

// findPayload picks "<id>.<ext>" from names, ignoring thumbnails.
func findPayload(names []string, id string) (string, bool) {
	sort.Strings(names)
	for _, n := range names {
		if strings.HasPrefix(n, id+".") && !strings.HasSuffix(n, ".thumb") {
			return n, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// ApplyFaceCrops gives every filled slot that has no explicit crop a
// cover crop panned toward the photo's detected face.
func ApplyFaceCrops(slides []model.Slide, photos map[string]model.Photo, layouts layout.Catalog) {
	for i := range slides {
		s := &slides[i]
		lay, ok := layouts.Find(s.LayoutID)
		if !ok {
			continue
		}
		for slot := range lay.Slots {
			if slot < len(s.SlotCrops) {
				continue
			}
			p, ok := photos[s.PhotoID(slot)]
			if !ok || p.FaceCenter == nil {
				continue
			}
			for len(s.SlotCrops) < slot {
				s.SlotCrops = append(s.SlotCrops, model.DefaultSlotCrop)
			}
			s.SlotCrops = append(s.SlotCrops, geometry.InitialSlotCrop(p, lay.Slots[slot], lay.AspectRatio))
		}
	}
}
