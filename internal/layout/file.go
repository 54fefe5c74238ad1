package layout

import (
	"fmt"
	"os"

	"collage-video/internal/model"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Layouts []model.CollageLayout `yaml:"layouts"`
}

// Load reads extra layouts from a YAML (or JSON) file of the form
// {layouts: [...]}. Missing photoCount and aspectRatio are derived.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (List, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("layout: parse: %w", err)
	}
	out := make(List, 0, len(f.Layouts))
	for _, c := range f.Layouts {
		if c.PhotoCount == 0 {
			c.PhotoCount = len(c.Slots)
		}
		if c.AspectRatio == 0 {
			c.AspectRatio = AspectRatio
		}
		for i := range c.Slots {
			if c.Slots[i].ID == "" {
				c.Slots[i].ID = fmt.Sprint(i + 1)
			}
		}
		if err := Validate(c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
