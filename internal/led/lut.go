package led

import (
	"github.com/coreman2200/funtimes-spellcast/internal/layout"
	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// BuildLUT returns the normalized position [0,1]^3 of every strip index.
// Axes are normalized independently; a flat axis sits at 0.
func BuildLUT(l layout.Layout) []render.Vec3 {
	if l.PitchMM <= 0 {
		l.PitchMM = 1
	}
	ex, ey, ez := l.PositionMM(l.Dim.X-1, l.Dim.Y-1, l.Dim.Z-1)

	out := make([]render.Vec3, l.Count())
	for i := range out {
		x, y, z := l.Coords(i)
		px, py, pz := l.PositionMM(x, y, z)
		out[i] = render.Vec3{X: norm(px, ex), Y: norm(py, ey), Z: norm(pz, ez)}
	}
	return out
}

// Dimensions converts a layout size to render dimensions.
func Dimensions(l layout.Layout) render.Dimensions {
	return render.Dimensions{X: l.Dim.X, Y: l.Dim.Y, Z: l.Dim.Z}
}

func norm(v, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	return v / extent
}
