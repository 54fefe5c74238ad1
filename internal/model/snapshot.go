package model

// LayoutFinder resolves a layout id against a catalog.
type LayoutFinder interface {
	Find(id string) (CollageLayout, bool)
}

// Snapshot is the point-in-time input of one export run.
type Snapshot struct {
	Slides  []Slide
	Photos  map[string]Photo
	Layouts LayoutFinder
}

// ReferencedPhotoIDs returns every non-empty photo id used by any slide,
// in first-use order, without duplicates.
func (s Snapshot) ReferencedPhotoIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, sl := range s.Slides {
		for _, id := range sl.PhotoIDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
