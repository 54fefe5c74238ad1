package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"collage-video/internal/logging"
	"collage-video/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveName(t *testing.T) {
	tests := map[string]string{
		"albums/holiday":              filepath.Join("albums", "holiday.zip"),
		"albums/holiday/":             filepath.Join("albums", "holiday.zip"),
		"albums/holiday/project.json": filepath.Join("albums", "holiday.zip"),
		"-":                           "gallery.zip",
	}
	for in, want := range tests {
		assert.Equal(t, want, archiveName(in), in)
	}
}

func TestWritePacksDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "album")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "photos"), 0o755))

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photos", "p1.png"), img.Bytes(), 0o644))
	doc := `{"version":1,"createdAt":"","updatedAt":"",
		"photos":[{"id":"p1","width":4,"height":3,"mimeType":"image/png"}],
		"slides":[{"id":"s1","layoutId":"single","photoIds":["p1"],"duration":60,
			"transition":{"type":"fade","duration":10}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.json"), []byte(doc), 0o644))

	proj, err := project.Load(dir, logging.Discard())
	require.NoError(t, err)
	defer proj.Close()

	dst := archiveName(dir)
	require.NoError(t, write(dst, proj))

	packed, err := project.Load(dst, logging.Discard())
	require.NoError(t, err)
	defer packed.Close()
	assert.Equal(t, proj.File.Slides, packed.File.Slides)
	assert.Empty(t, packed.Missing)
	require.NotNil(t, packed.Photos["p1"].Source)
}
