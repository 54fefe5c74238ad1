package transition

import "strings"

// Type is the closed set of transitions between two slides.
type Type int

const (
	None Type = iota
	Fade
	Slide
	Zoom
	Rotate
	Blur
	KenBurns
)

var names = [...]string{
	None:     "none",
	Fade:     "fade",
	Slide:    "slide",
	Zoom:     "zoom",
	Rotate:   "rotate",
	Blur:     "blur",
	KenBurns: "kenBurns",
}

// All lists every transition in declaration order.
func All() []Type {
	return []Type{None, Fade, Slide, Zoom, Rotate, Blur, KenBurns}
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(names) {
		return names[None]
	}
	return names[t]
}

// Parse maps a transition name to its Type. Unknown names become None so
// a project written by a newer editor still renders.
func Parse(s string) Type {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return Type(i)
		}
	}
	return None
}
