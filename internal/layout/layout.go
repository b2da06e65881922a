// Package layout maps cube coordinates to LED strip indices.
package layout

import "fmt"

type Dim struct{ X, Y, Z int }

// Serpentine describes how the strip doubles back. Rows run along X and
// panels stack along Z.
type Serpentine struct {
	XFlipEveryRow   bool
	YFlipEveryPanel bool
}

type Layout struct {
	Dim        Dim
	Order      Serpentine
	PanelGapMM float64
	PitchMM    float64
}

// Validate rejects empty or negative dimensions.
func (l Layout) Validate() error {
	if l.Dim.X <= 0 || l.Dim.Y <= 0 || l.Dim.Z <= 0 {
		return fmt.Errorf("layout: invalid dimensions %dx%dx%d", l.Dim.X, l.Dim.Y, l.Dim.Z)
	}
	return nil
}

// Index maps x,y,z -> linear LED index (0..N-1)
func (l Layout) Index(x, y, z int) int {
	yy := y
	if l.Order.YFlipEveryPanel && z%2 == 1 {
		yy = l.Dim.Y - 1 - y
	}
	xx := x
	// the row flip follows the wire, so it uses the flipped row number
	if l.Order.XFlipEveryRow && yy%2 == 1 {
		xx = l.Dim.X - 1 - x
	}
	return z*l.Dim.X*l.Dim.Y + yy*l.Dim.X + xx
}

// Coords is the inverse of Index.
func (l Layout) Coords(i int) (x, y, z int) {
	perPanel := l.Dim.X * l.Dim.Y
	z = i / perPanel
	rem := i % perPanel
	yy, xx := rem/l.Dim.X, rem%l.Dim.X

	x = xx
	if l.Order.XFlipEveryRow && yy%2 == 1 {
		x = l.Dim.X - 1 - xx
	}
	y = yy
	if l.Order.YFlipEveryPanel && z%2 == 1 {
		y = l.Dim.Y - 1 - yy
	}
	return x, y, z
}

func (l Layout) Count() int {
	return l.Dim.X * l.Dim.Y * l.Dim.Z
}

// PositionMM returns the physical position of a voxel. Panels are spaced by
// the pitch plus the panel gap.
func (l Layout) PositionMM(x, y, z int) (float64, float64, float64) {
	return float64(x) * l.PitchMM, float64(y) * l.PitchMM, float64(z) * (l.PitchMM + l.PanelGapMM)
}
