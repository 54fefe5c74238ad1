package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"collage-video/internal/model"
	"collage-video/internal/raster"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrNoSource is returned for a photo that has nothing to load from.
var ErrNoSource = errors.New("photo: no image source")

// The tga package registers itself with an empty signature, which makes
// image.Decode hand every input to it. Formats are matched here instead.
type format struct {
	name   string
	magic  string // '?' matches any byte
	decode func(io.Reader) (image.Image, error)
}

var formats = []format{
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"gif", "GIF8?a", gif.Decode},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
	{"tiff", "II*\x00", tiff.Decode},
	{"tiff", "MM\x00*", tiff.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

func match(magic string, b []byte) bool {
	if len(magic) > len(b) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != b[i] {
			return false
		}
	}
	return true
}

// sniff picks the decoder for data. TGA has no signature, so anything
// unrecognised goes to the TGA decoder.
func sniff(data []byte) format {
	for _, f := range formats {
		if match(f.magic, data) {
			return f
		}
	}
	return format{"tga", "", tga.Decode}
}

// Decode opens src and decodes it into a zero-origin RGBA, applying EXIF
// orientation for JPEG and TIFF.
func Decode(src model.ImageSource) (*image.RGBA, error) {
	return decode(src, false)
}

// DecodePhoto decodes p's source. A TGA MIME type or file extension skips
// signature matching.
func DecodePhoto(p model.Photo) (*image.RGBA, error) {
	return decode(p.Source, isTGA(p))
}

func isTGA(p model.Photo) bool {
	switch strings.ToLower(p.MIMEType) {
	case "image/tga", "image/x-tga", "image/x-targa":
		return true
	}
	return strings.EqualFold(filepath.Ext(p.FileName), ".tga")
}

func decode(src model.ImageSource, forceTGA bool) (*image.RGBA, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("photo: open: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("photo: read: %w", err)
	}

	f := sniff(data)
	if forceTGA {
		f = format{"tga", "", tga.Decode}
	}
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("photo: decode %s: %w", f.name, err)
	}
	if f.name == "jpeg" || f.name == "tiff" {
		img = orient(img, readOrientation(data))
	}
	return raster.ToRGBA(img), nil
}
