package curve

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Stop is one colour key of a Gradient.
type Stop struct {
	T     float64
	Color colorful.Color
}

// Gradient blends between colour stops over 0..1.
type Gradient struct {
	Stops []Stop
}

// NewGradient copies and sorts stops by T.
func NewGradient(stops ...Stop) Gradient {
	s := append([]Stop(nil), stops...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].T < s[j].T })
	return Gradient{Stops: s}
}

// ParseGradient builds a gradient from positions and "#rrggbb" strings.
func ParseGradient(ts []float64, hexes []string) (Gradient, error) {
	if len(ts) != len(hexes) {
		return Gradient{}, fmt.Errorf("gradient: %d positions for %d colors", len(ts), len(hexes))
	}
	stops := make([]Stop, 0, len(ts))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Gradient{}, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		stops = append(stops, Stop{T: ts[i], Color: c})
	}
	return NewGradient(stops...), nil
}

// Empty reports whether the gradient has no stops.
func (g Gradient) Empty() bool { return len(g.Stops) == 0 }

// First returns the colour of the earliest stop (black when empty).
func (g Gradient) First() colorful.Color {
	if len(g.Stops) == 0 {
		return colorful.Color{}
	}
	return g.Stops[0].Color
}

// Eval returns the blended colour at x, holding end colours outside the range.
func (g Gradient) Eval(x float64) colorful.Color {
	n := len(g.Stops)
	if n == 0 {
		return colorful.Color{}
	}
	if n == 1 || x <= g.Stops[0].T {
		return g.Stops[0].Color
	}
	if x >= g.Stops[n-1].T {
		return g.Stops[n-1].Color
	}
	i := sort.Search(n, func(i int) bool { return g.Stops[i].T > x })
	a, b := g.Stops[i-1], g.Stops[i]
	den := b.T - a.T
	if den <= 0 {
		return b.Color
	}
	return a.Color.BlendRgb(b.Color, clamp01((x-a.T)/den))
}
