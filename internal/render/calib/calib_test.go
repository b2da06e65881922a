package calib

import (
	"testing"

	"github.com/coreman2200/funtimes-spellcast/internal/layout"
	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

var testLayout = layout.Layout{
	Dim:   layout.Dim{X: 5, Y: 5, Z: 3},
	Order: layout.Serpentine{XFlipEveryRow: true, YFlipEveryPanel: true},
}

func colorAt(buf []render.Color, l layout.Layout, x, y, z int) render.Color {
	return buf[l.Index(x, y, z)]
}

func frame(p *Pattern) []render.Color {
	dst := make([]render.Color, testLayout.Count())
	p.Render(dst, nil, render.Dimensions{X: 5, Y: 5, Z: 3}, 0)
	return dst
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("strobe"); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestIndexSweepFollowsStripOrder(t *testing.T) {
	p := New(IndexSweep, testLayout, 1)
	for i := 0; i < testLayout.Count(); i++ {
		dst := frame(p)
		for j, c := range dst {
			lit := c.R > 0
			if lit != (i == j) {
				t.Fatalf("step %d: led %d lit=%v", i, j, lit)
			}
		}
	}
	if !p.Done() {
		t.Fatal("sweep should be done after Count steps")
	}
	for _, c := range frame(p) {
		if c != (render.Color{}) {
			t.Fatal("finished pattern should render black")
		}
	}
}

func TestHoldRepeatsSteps(t *testing.T) {
	p := New(RGBChannels, testLayout, 2)
	want := []render.Color{{R: 1}, {R: 1}, {G: 1}, {G: 1}, {B: 1}, {B: 1}}
	for i, w := range want {
		if got := frame(p)[0]; got != w {
			t.Fatalf("frame %d: got %+v want %+v", i, got, w)
		}
	}
	if !p.Done() {
		t.Fatal("expected done")
	}
}

func TestPlaneZUsesLayout(t *testing.T) {
	p := New(PlaneZ, testLayout, 1)
	frame(p)
	dst := frame(p) // panel 1
	if c := colorAt(dst, testLayout, 4, 0, 1); c.B != 1 || c.R != 0 {
		t.Fatalf("expected cyan on panel 1, got %+v", c)
	}
	if c := colorAt(dst, testLayout, 4, 0, 0); c != (render.Color{}) {
		t.Fatalf("expected panel 0 dark, got %+v", c)
	}
}

func TestPanelSweepScene(t *testing.T) {
	dst := frame(New(PanelSweep, testLayout, 1))

	bottomRed := colorAt(dst, testLayout, 0, 0, 0)
	bottomGreen := colorAt(dst, testLayout, 0, 0, 1)
	bottomBlue := colorAt(dst, testLayout, 0, 0, 2)
	t.Logf("bottom front panel (red): %+v", bottomRed)

	if bottomRed.R < 0.3 {
		t.Fatalf("expected visible red at (0,0,0); got %+v", bottomRed)
	}
	if bottomGreen.G < 0.3 {
		t.Fatalf("expected visible green at (0,0,1); got %+v", bottomGreen)
	}
	if bottomBlue.B < 0.3 {
		t.Fatalf("expected visible blue at (0,0,2); got %+v", bottomBlue)
	}

	prev := float32(2)
	for x := 0; x < testLayout.Dim.X; x++ {
		c := colorAt(dst, testLayout, x, 0, 0)
		if c.R > prev+1e-4 {
			t.Fatalf("bottom row not monotonic at x=%d: %.4f -> %.4f", x, prev, c.R)
		}
		prev = c.R
	}

	top := colorAt(dst, testLayout, 4, 4, 0)
	if top.R < 0.99 || top.G < 0.99 || top.B < 0.99 {
		t.Fatalf("expected white on the top row, got %+v", top)
	}
	if br := colorAt(dst, testLayout, 4, 0, 0); br.R > 0.05 {
		t.Fatalf("expected near-black at bottom-right, got %+v", br)
	}
}
