package model

import (
	"bytes"
	"io"
	"os"
)

// TicksPerSecond is the authoring timebase for slide and transition durations.
const TicksPerSecond = 30

// Point is a normalized position, both axes in [0,1].
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ImageSource is an opaque, loadable reference to encoded image bytes.
// The renderer opens it once during preload and never again.
type ImageSource interface {
	Open() (io.ReadCloser, error)
}

// FileSource loads an image from disk.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// BytesSource serves an image already held in memory (e.g. read from an archive).
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Photo is owned by the photo collection; the renderer only reads it.
type Photo struct {
	ID          string      `json:"id" yaml:"id"`
	Width       int         `json:"width" yaml:"width"`
	Height      int         `json:"height" yaml:"height"`
	AspectRatio float64     `json:"aspectRatio" yaml:"aspectRatio"`
	FaceCenter  *Point      `json:"faceCenter,omitempty" yaml:"faceCenter,omitempty"`
	FileName    string      `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	MIMEType    string      `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Source      ImageSource `json:"-" yaml:"-"`
}

// Aspect returns width/height, preferring the measured dimensions.
func (p Photo) Aspect() float64 {
	if p.Width > 0 && p.Height > 0 {
		return float64(p.Width) / float64(p.Height)
	}
	return p.AspectRatio
}

// LayoutSlot is a rectangle in percent (0-100) of the canvas.
type LayoutSlot struct {
	ID     string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	ZIndex *int    `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
}

// CollageLayout is a named arrangement of slots. len(Slots) == PhotoCount.
type CollageLayout struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	PhotoCount  int          `json:"photoCount" yaml:"photoCount"`
	Slots       []LayoutSlot `json:"slots" yaml:"slots"`
	AspectRatio float64      `json:"aspectRatio" yaml:"aspectRatio"`
}

// ObjectFit selects how a photo fills its slot.
type ObjectFit string

const (
	FitCover   ObjectFit = "cover"
	FitContain ObjectFit = "contain"
)

// SlotCropConfig positions a photo inside its slot. Offsets are in [-1,1], 0 = centered.
type SlotCropConfig struct {
	ObjectFit ObjectFit `json:"objectFit" yaml:"objectFit"`
	OffsetX   float64   `json:"offsetX" yaml:"offsetX"`
	OffsetY   float64   `json:"offsetY" yaml:"offsetY"`
}

// DefaultSlotCrop is used for any slot without an explicit crop.
var DefaultSlotCrop = SlotCropConfig{ObjectFit: FitCover}

// TransitionConfig describes the blend into the following slide.
type TransitionConfig struct {
	Type          string `json:"type" yaml:"type"`
	DurationTicks int    `json:"duration" yaml:"duration"`
}

// Slide is one timeline entry. PhotoIDs is parallel to the layout's slots;
// an empty string marks an unfilled slot.
type Slide struct {
	ID            string           `json:"id" yaml:"id"`
	LayoutID      string           `json:"layoutId" yaml:"layoutId"`
	PhotoIDs      []string         `json:"photoIds" yaml:"photoIds"`
	SlotCrops     []SlotCropConfig `json:"slotCrops,omitempty" yaml:"slotCrops,omitempty"`
	DurationTicks int              `json:"duration" yaml:"duration"`
	Transition    TransitionConfig `json:"transition" yaml:"transition"`
}

// PhotoID returns the photo assigned to slot i, or "" when the slot is empty
// or the index is out of range.
func (s Slide) PhotoID(i int) string {
	if i < 0 || i >= len(s.PhotoIDs) {
		return ""
	}
	return s.PhotoIDs[i]
}

// SlotCrop returns the crop for slot i, falling back to DefaultSlotCrop.
func (s Slide) SlotCrop(i int) SlotCropConfig {
	if i < 0 || i >= len(s.SlotCrops) {
		return DefaultSlotCrop
	}
	c := s.SlotCrops[i]
	if c.ObjectFit == "" {
		c.ObjectFit = FitCover
	}
	return c
}
