package led

import (
	"fmt"
	"image"
	"io"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// NRZOpts configures a WS2812-style strip.
type NRZOpts struct {
	// Port is the SPI port name; empty picks the first one registered.
	Port       string
	Count      int
	ColorOrder string
	// Freq is the NRZ bit rate. Zero uses 800kHz.
	Freq physic.Frequency
}

// NRZ drives a strip through a periph display.Drawer: an nrzled device on
// SPI, or a console drawer when no SPI port is available.
type NRZ struct {
	mu       sync.Mutex
	drawer   display.Drawer
	closer   io.Closer
	count    int
	pre      Order
	rgb      []byte
	img      *image.NRGBA
	hardware bool
}

// OpenNRZ initializes the periph host and opens the strip.
func OpenNRZ(o NRZOpts) (*NRZ, error) {
	if o.Count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.Count)
	}
	order, err := ParseOrder(o.ColorOrder)
	if err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(o.Port)
	if err != nil {
		return NewNRZ(screen1d.New(&screen1d.Opts{X: o.Count}), o.Count, order), nil
	}
	freq := o.Freq
	if freq == 0 {
		freq = 800 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(port, &nrzled.Opts{NumPixels: o.Count, Channels: 3, Freq: freq})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	n := NewNRZ(d, o.Count, order)
	n.closer = port
	n.hardware = true
	return n, nil
}

// NewNRZ wraps an existing drawer. order is the strip's wire order.
func NewNRZ(d display.Drawer, count int, order Order) *NRZ {
	return &NRZ{
		drawer: d,
		count:  count,
		// nrzled sends G,R,B of what it is given
		pre: Order{order[1], order[0], order[2]},
		img: image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
}

// Hardware reports whether frames reach a real SPI port.
func (n *NRZ) Hardware() bool { return n.hardware }

func (n *NRZ) Write(frame []render.Color) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.drawer == nil {
		return fmt.Errorf("nrz closed")
	}
	if len(frame) != n.count {
		return fmt.Errorf("frame length %d does not match count %d", len(frame), n.count)
	}
	n.rgb = Quantize(n.rgb, frame)
	Swizzle(n.rgb, n.pre)
	for i := 0; i < n.count; i++ {
		p := n.img.Pix[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = n.rgb[i*3], n.rgb[i*3+1], n.rgb[i*3+2], 0xFF
	}
	return n.drawer.Draw(n.drawer.Bounds(), n.img, image.Point{})
}

func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.drawer == nil {
		return nil
	}
	err := n.drawer.Halt()
	n.drawer = nil
	if n.closer != nil {
		if cerr := n.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
