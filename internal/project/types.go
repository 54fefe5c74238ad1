package project

import (
	"errors"
	"fmt"

	"collage-video/internal/model"
)

// Version is the only project file version understood.
const Version = 1

const (
	DefaultSlideTicks      = 90
	DefaultTransitionTicks = 15
	DefaultTransitionType  = "fade"
)

// ErrInvalid is returned for documents that fail validation.
var ErrInvalid = errors.New("project: invalid project file")

// File is the project.json document.
type File struct {
	Version   int               `json:"version" yaml:"version"`
	CreatedAt string            `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string            `json:"updatedAt" yaml:"updatedAt"`
	Photos    []SerializedPhoto `json:"photos" yaml:"photos"`
	Slides    []model.Slide     `json:"slides" yaml:"slides"`
}

// SerializedPhoto is a photo's metadata as stored in the document. The
// image itself lives at photos/<id>.<ext>.
type SerializedPhoto struct {
	ID          string       `json:"id" yaml:"id"`
	AspectRatio float64      `json:"aspectRatio" yaml:"aspectRatio"`
	FaceCenter  *model.Point `json:"faceCenter,omitempty" yaml:"faceCenter,omitempty"`
	FileName    string       `json:"fileName" yaml:"fileName"`
	MIMEType    string       `json:"mimeType" yaml:"mimeType"`
	Width       int          `json:"width" yaml:"width"`
	Height      int          `json:"height" yaml:"height"`
}

// Validate checks the version and that the photo and slide lists exist.
func (f File) Validate() error {
	if f.Version != Version {
		return fmt.Errorf("%w: version %d (want %d)", ErrInvalid, f.Version, Version)
	}
	if f.Photos == nil {
		return fmt.Errorf("%w: missing photos", ErrInvalid)
	}
	if f.Slides == nil {
		return fmt.Errorf("%w: missing slides", ErrInvalid)
	}
	seen := make(map[string]bool, len(f.Photos))
	for i, p := range f.Photos {
		if p.ID == "" {
			return fmt.Errorf("%w: photo %d has no id", ErrInvalid, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate photo id %q", ErrInvalid, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// normalize fills authoring defaults for slides saved without them.
func (f *File) normalize() {
	for i := range f.Slides {
		s := &f.Slides[i]
		if s.DurationTicks <= 0 {
			s.DurationTicks = DefaultSlideTicks
		}
		if s.Transition.Type == "" && s.Transition.DurationTicks == 0 {
			s.Transition = model.TransitionConfig{Type: DefaultTransitionType, DurationTicks: DefaultTransitionTicks}
		}
	}
}

func (sp SerializedPhoto) photo(src model.ImageSource) model.Photo {
	return model.Photo{
		ID:          sp.ID,
		Width:       sp.Width,
		Height:      sp.Height,
		AspectRatio: sp.AspectRatio,
		FaceCenter:  sp.FaceCenter,
		FileName:    sp.FileName,
		MIMEType:    sp.MIMEType,
		Source:      src,
	}
}

func serialize(p model.Photo) SerializedPhoto {
	mime := p.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	name := p.FileName
	if name == "" {
		name = p.ID + ".jpg"
	}
	return SerializedPhoto{
		ID:          p.ID,
		AspectRatio: p.Aspect(),
		FaceCenter:  p.FaceCenter,
		FileName:    name,
		MIMEType:    mime,
		Width:       p.Width,
		Height:      p.Height,
	}
}

// extension maps an image MIME type to the file suffix used inside archives.
func extension(mime string) string {
	switch mime {
	case "image/gif":
		return ".gif"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}
