package project

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"collage-video/internal/model"
)

// zipSource reads a photo straight out of an open archive.
type zipSource struct {
	f *zip.File
}

func (z zipSource) Open() (io.ReadCloser, error) {
	return z.f.Open()
}

func loadArchive(p string) (*Project, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", p, err)
	}
	proj, err := readArchive(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	proj.closer = zr
	return proj, nil
}

func loadStdin() (*Project, error) {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("project: read stdin: %w", err)
	}
	return ReadArchive(bytes.NewReader(data), int64(len(data)))
}

// ReadArchive loads a project from an in-memory zip.
func ReadArchive(r io.ReaderAt, size int64) (*Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return readArchive(zr)
}

func readArchive(zr *zip.Reader) (*Project, error) {
	files := make(map[string]*zip.File, len(zr.File))
	var photoNames []string
	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, "./")
		files[name] = f
		if dir, base := path.Split(name); dir == photoDir+"/" && base != "" {
			photoNames = append(photoNames, base)
		}
	}

	docFile, yamlDoc := files[documentJSON], false
	if docFile == nil {
		docFile, yamlDoc = files[documentYAML], true
	}
	if docFile == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalid, documentJSON)
	}
	data, err := readAll(docFile)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data, yamlDoc)
	if err != nil {
		return nil, err
	}

	p := &Project{File: f, Photos: make(map[string]model.Photo, len(f.Photos))}
	for _, sp := range f.Photos {
		var src model.ImageSource
		if name, ok := findPayload(photoNames, sp.ID); ok {
			src = zipSource{files[photoDir+"/"+name]}
		} else {
			p.Missing = append(p.Missing, sp.ID)
		}
		p.Photos[sp.ID] = sp.photo(src)
	}
	return p, nil
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("project: open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", f.Name, err)
	}
	return data, nil
}

// WriteArchive saves slides and photos as a project archive: an indented
// project.json plus each photo stored uncompressed under photos/.
func WriteArchive(w io.Writer, slides []model.Slide, photos map[string]model.Photo, now time.Time) error {
	ids := make([]string, 0, len(photos))
	for id := range photos {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stamp := now.UTC().Format(time.RFC3339Nano)
	doc := File{
		Version:   Version,
		CreatedAt: stamp,
		UpdatedAt: stamp,
		Photos:    make([]SerializedPhoto, 0, len(ids)),
		Slides:    slides,
	}
	if doc.Slides == nil {
		doc.Slides = []model.Slide{}
	}
	for _, id := range ids {
		doc.Photos = append(doc.Photos, serialize(photos[id]))
	}

	zw := zip.NewWriter(w)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("project: encode: %w", err)
	}
	jw, err := zw.Create(documentJSON)
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if _, err := jw.Write(data); err != nil {
		return fmt.Errorf("project: %w", err)
	}

	for _, sp := range doc.Photos {
		src := photos[sp.ID].Source
		if src == nil {
			continue
		}
		if err := copyPhoto(zw, sp, src); err != nil {
			return err
		}
	}
	return zw.Close()
}

func copyPhoto(zw *zip.Writer, sp SerializedPhoto, src model.ImageSource) error {
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("project: photo %s: %w", sp.ID, err)
	}
	defer rc.Close()

	pw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   photoDir + "/" + sp.ID + extension(sp.MIMEType),
		Method: zip.Store,
	})
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if _, err := io.Copy(pw, rc); err != nil {
		return fmt.Errorf("project: photo %s: %w", sp.ID, err)
	}
	return nil
}

// OutputName is the default file name for an export finished at now.
func OutputName(prefix, ext string, now time.Time) string {
	if prefix == "" {
		prefix = "gallery-video"
	}
	return fmt.Sprintf("%s-%d.%s", prefix, now.UnixMilli(), strings.TrimPrefix(ext, "."))
}
