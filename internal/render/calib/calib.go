// Package calib renders LED calibration patterns used to check strip wiring
// against the layout.
package calib

import (
	"fmt"
	"math"

	"github.com/coreman2200/funtimes-spellcast/internal/layout"
	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

type Kind string

const (
	// IndexSweep lights one LED at a time in strip order.
	IndexSweep Kind = "index_sweep"
	// RGBChannels shows full red, then green, then blue.
	RGBChannels Kind = "rgb_channels"
	// PlaneZ lights one panel at a time in cyan.
	PlaneZ Kind = "plane_z"
	// PanelSweep colours panels red/green/blue, darkening left to right and
	// blending to white towards the top row.
	PanelSweep Kind = "panel_sweep"
)

var Kinds = []Kind{IndexSweep, RGBChannels, PlaneZ, PanelSweep}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown test pattern %q", s)
}

// Pattern is a render.Renderer that steps through one calibration pattern,
// holding each step for a number of frames.
type Pattern struct {
	kind   Kind
	layout layout.Layout
	hold   int

	step  int
	frame int
}

// New returns a pattern over l. hold < 1 advances every frame.
func New(kind Kind, l layout.Layout, hold int) *Pattern {
	if hold < 1 {
		hold = 1
	}
	return &Pattern{kind: kind, layout: l, hold: hold}
}

func (p *Pattern) Name() string { return "calib:" + string(p.kind) }

func (p *Pattern) Kind() Kind { return p.kind }

// Steps is the number of distinct frames in the pattern.
func (p *Pattern) Steps() int {
	switch p.kind {
	case IndexSweep:
		return p.layout.Count()
	case RGBChannels:
		return 3
	case PlaneZ:
		return p.layout.Dim.Z
	default:
		return 1
	}
}

// Done reports whether every step has been held for its frames.
func (p *Pattern) Done() bool { return p.step >= p.Steps() }

func (p *Pattern) Render(dst []render.Color, _ []render.Vec3, _ render.Dimensions, _ float64) {
	for i := range dst {
		dst[i] = render.Color{}
	}
	if p.Done() {
		return
	}

	switch p.kind {
	case IndexSweep:
		if p.step < len(dst) {
			dst[p.step] = render.Color{R: 1, G: 1, B: 1}
		}
	case RGBChannels:
		c := render.Color{}
		switch p.step {
		case 0:
			c.R = 1
		case 1:
			c.G = 1
		case 2:
			c.B = 1
		}
		for i := range dst {
			dst[i] = c
		}
	case PlaneZ:
		for i := range dst {
			if _, _, z := p.layout.Coords(i); z == p.step {
				dst[i] = render.Color{G: 1, B: 1}
			}
		}
	case PanelSweep:
		p.panelSweep(dst)
	}

	p.frame++
	if p.frame >= p.hold {
		p.frame = 0
		p.step++
	}
}

const (
	lrPow  = 1.2 // left to right darkening, >1 is steeper at the right edge
	topPow = 0.6 // bottom to top blend, <1 reaches white sooner
)

func (p *Pattern) panelSweep(dst []render.Color) {
	d := p.layout.Dim
	for i := range dst {
		x, y, z := p.layout.Coords(i)

		var c [3]float64
		c[z%3] = 1

		lr := 1 - math.Pow(norm(x, d.X), lrPow)
		bt := math.Pow(norm(y, d.Y), topPow)
		if y == d.Y-1 {
			bt = 1
		}
		for k := range c {
			c[k] *= lr
			c[k] += (1 - c[k]) * bt
		}
		dst[i] = render.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
	}
}

func norm(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
