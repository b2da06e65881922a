package led

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes a frame to the output. len(frame) must match the LED count.
	Write(frame []render.Color) error
	// Close releases resources.
	Close() error
}

// Order is a wire colour order as indexes into R,G,B.
type Order [3]int

var (
	RGB = Order{0, 1, 2}
	GRB = Order{1, 0, 2}
)

// ParseOrder parses strings like "GRB". Empty means GRB.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return GRB, nil
	}
	s = strings.ToUpper(s)
	if len(s) != 3 {
		return Order{}, fmt.Errorf("led: bad color order %q", s)
	}
	var o Order
	seen := [3]bool{}
	for i, ch := range s {
		idx := strings.IndexRune("RGB", ch)
		if idx < 0 || seen[idx] {
			return Order{}, fmt.Errorf("led: bad color order %q", s)
		}
		seen[idx] = true
		o[i] = idx
	}
	return o, nil
}

// Quantize converts a linear 0..1 frame into 8-bit RGB triplets.
func Quantize(dst []byte, frame []render.Color) []byte {
	dst = dst[:0]
	for _, c := range frame {
		dst = append(dst, to8(c.R), to8(c.G), to8(c.B))
	}
	return dst
}

// Swizzle reorders RGB triplets in place into wire order o.
func Swizzle(rgb []byte, o Order) {
	if o == RGB {
		return
	}
	for i := 0; i+2 < len(rgb); i += 3 {
		px := [3]byte{rgb[i], rgb[i+1], rgb[i+2]}
		rgb[i], rgb[i+1], rgb[i+2] = px[o[0]], px[o[1]], px[o[2]]
	}
}

func to8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
