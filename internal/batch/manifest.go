package batch

import (
	"encoding/json"
	"os"

	"collage-video/internal/model"
)

// ManifestEntry represents one exported project in the output manifest.
type ManifestEntry struct {
	Name            string   `json:"name"`
	Project         string   `json:"project"`
	Video           string   `json:"video,omitempty"`
	Poster          string   `json:"poster,omitempty"`
	MIMEType        string   `json:"mime_type,omitempty"`
	Resolution      string   `json:"resolution"`
	FPS             int      `json:"fps"`
	Frames          int      `json:"frames"`
	DurationSeconds float64  `json:"duration_seconds"`
	JobID           string   `json:"job_id,omitempty"`
	MissingPhotos   []string `json:"missing_photos,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing a batch run.
func WriteManifest(path string, opts model.ExportOptions, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:            r.Name,
			Project:         r.Project,
			Video:           r.Video,
			Poster:          r.Poster,
			MIMEType:        r.MIMEType,
			Resolution:      string(opts.Resolution),
			FPS:             opts.FPS,
			Frames:          r.Frames,
			DurationSeconds: r.Duration.Seconds(),
			JobID:           r.JobID,
			MissingPhotos:   r.Missing,
			Error:           r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
