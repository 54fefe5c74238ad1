package encoder

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// WriteWebP encodes img as a lossless WebP still.
func WriteWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("encoder: webp: %w", err)
	}
	return nil
}

// Poster encodes a single frame as a WebP image.
func Poster(frame image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteWebP(&buf, frame); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
