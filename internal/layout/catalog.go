package layout

import (
	"fmt"
	"strconv"

	"collage-video/internal/model"
)

// AspectRatio is the canvas aspect every built-in layout is authored for.
const AspectRatio = 16.0 / 9.0

// Catalog resolves a layout id.
type Catalog interface {
	Find(id string) (model.CollageLayout, bool)
}

// List is an ordered catalog. Later entries win on duplicate ids.
type List []model.CollageLayout

// Find returns the last layout with the given id.
func (l List) Find(id string) (model.CollageLayout, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].ID == id {
			return l[i], true
		}
	}
	return model.CollageLayout{}, false
}

// IDs returns the distinct ids in catalog order.
func (l List) IDs() []string {
	seen := make(map[string]bool, len(l))
	ids := make([]string, 0, len(l))
	for _, c := range l {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}
	return ids
}

// Merge returns base with extra appended; entries in extra override base by id.
func Merge(base, extra List) List {
	out := make(List, 0, len(base)+len(extra))
	override := make(map[string]bool, len(extra))
	for _, c := range extra {
		override[c.ID] = true
	}
	for _, c := range base {
		if !override[c.ID] {
			out = append(out, c)
		}
	}
	return append(out, extra...)
}

// Validate checks slot count and geometry.
func Validate(c model.CollageLayout) error {
	if c.ID == "" {
		return fmt.Errorf("layout: missing id")
	}
	if len(c.Slots) != c.PhotoCount {
		return fmt.Errorf("layout %s: %d slots but photoCount %d", c.ID, len(c.Slots), c.PhotoCount)
	}
	const eps = 0.01
	for i, s := range c.Slots {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("layout %s: slot %d has empty size", c.ID, i)
		}
		if s.X < -eps || s.Y < -eps || s.X+s.Width > 100+eps || s.Y+s.Height > 100+eps {
			return fmt.Errorf("layout %s: slot %d outside canvas", c.ID, i)
		}
	}
	return nil
}

type cell struct{ x, y, w, h float64 }

func build(id, name string, cells ...cell) model.CollageLayout {
	slots := make([]model.LayoutSlot, len(cells))
	for i, c := range cells {
		slots[i] = model.LayoutSlot{
			ID:     strconv.Itoa(i + 1),
			X:      c.x,
			Y:      c.y,
			Width:  c.w,
			Height: c.h,
		}
	}
	return model.CollageLayout{
		ID:          id,
		Name:        name,
		PhotoCount:  len(slots),
		Slots:       slots,
		AspectRatio: AspectRatio,
	}
}

// grid lays out rows x cols equal cells, row-major.
func grid(rows, cols int, w, h float64) []cell {
	var cells []cell
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, cell{float64(c) * w, float64(r) * h, w, h})
		}
	}
	return cells
}

const (
	third     = 33.33
	twoThirds = 66.67
)

// Builtin returns the stock layout catalog.
func Builtin() List {
	return List{
		build("single", "Single Photo", cell{0, 0, 100, 100}),
		build("split-horizontal", "Split Horizontal",
			cell{0, 0, 50, 100}, cell{50, 0, 50, 100}),
		build("split-vertical", "Split Vertical",
			cell{0, 0, 100, 50}, cell{0, 50, 100, 50}),
		build("side-by-side-large-left", "Side by Side (Large Left)",
			cell{0, 0, twoThirds, 100}, cell{twoThirds, 0, third, 100}),
		build("side-by-side-large-right", "Side by Side (Large Right)",
			cell{0, 0, third, 100}, cell{third, 0, twoThirds, 100}),
		build("grid-3-left", "Grid 3 (Large Left)",
			cell{0, 0, twoThirds, 100}, cell{twoThirds, 0, third, 50}, cell{twoThirds, 50, third, 50}),
		build("grid-3-right", "Grid 3 (Large Right)",
			cell{0, 0, third, 50}, cell{0, 50, third, 50}, cell{third, 0, twoThirds, 100}),
		build("grid-3-horizontal", "Grid 3 (Horizontal)",
			cell{0, 0, third, 100}, cell{third, 0, third, 100}, cell{twoThirds, 0, third, 100}),
		build("grid-4", "Grid 2x2", grid(2, 2, 50, 50)...),
		build("grid-4-horizontal", "Grid 4 (Horizontal)", grid(1, 4, 25, 100)...),
		build("grid-5", "Grid 5",
			cell{0, 0, twoThirds, 50}, cell{twoThirds, 0, third, 50},
			cell{0, 50, third, 50}, cell{third, 50, third, 50}, cell{twoThirds, 50, third, 50}),
		build("grid-6", "Grid 2x3", thirds(2, 50)...),
		build("grid-8", "Grid 2x4", grid(2, 4, 25, 50)...),
		build("grid-9", "Grid 3x3", thirdsSquare()...),
		build("grid-12", "Grid 3x4", quarterRows()...),
	}
}

// thirds lays out rows of three columns at 0, 33.33, 66.67.
func thirds(rows int, h float64) []cell {
	var cells []cell
	for r := 0; r < rows; r++ {
		for _, x := range []float64{0, third, twoThirds} {
			cells = append(cells, cell{x, float64(r) * h, third, h})
		}
	}
	return cells
}

func thirdsSquare() []cell {
	var cells []cell
	for _, y := range []float64{0, third, twoThirds} {
		for _, x := range []float64{0, third, twoThirds} {
			cells = append(cells, cell{x, y, third, third})
		}
	}
	return cells
}

func quarterRows() []cell {
	var cells []cell
	for _, y := range []float64{0, third, twoThirds} {
		for c := 0; c < 4; c++ {
			cells = append(cells, cell{float64(c) * 25, y, 25, third})
		}
	}
	return cells
}
