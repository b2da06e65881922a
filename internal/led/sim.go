package led

import (
	"sync"

	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// Sim keeps the last frame in memory. It backs headless runs and the
// frame websocket when no hardware is attached.
type Sim struct {
	mu     sync.Mutex
	frames uint64
	last   []byte
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) Write(frame []render.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Quantize(s.last, frame)
	s.frames++
	return nil
}

func (s *Sim) Close() error { return nil }

// Frames is the number of frames written.
func (s *Sim) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Last returns a copy of the last frame as RGB bytes.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}
