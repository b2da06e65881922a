package cast

import "fmt"

// Sequencer drives one cast through Anticipation, Action and Recuperation.
// It owns the clock and timing; channel dispatch is injected per tick.
type Sequencer struct {
	timing     PhaseTiming
	clock      Clock
	clipLength float64

	phase  Phase
	active bool
}

// NewSequencer constructs an idle Sequencer.
func NewSequencer(t PhaseTiming, acc Acceleration, clipLength float64) *Sequencer {
	t.Recompute()
	return &Sequencer{
		timing:     t,
		clock:      NewClock(acc),
		clipLength: clipLength,
	}
}

// Start enters Anticipation with a fresh clock.
func (s *Sequencer) Start() error {
	if s.active {
		return ErrCastActive
	}
	s.active = true
	s.phase = Anticipation
	s.clock.Reset()
	s.assert()
	return nil
}

// Tick advances the clock by dt, hands the resulting frame to visit, then
// applies the boundary rule: the phase is kept while its elapsed time is
// strictly less than its length. It returns the phase before and after.
func (s *Sequencer) Tick(dt float64, visit func(Frame)) (from, to Phase) {
	if !s.active {
		return Idle, Idle
	}
	if dt < 0 {
		dt = 0
	}
	from = s.phase
	s.clock.Advance(s.phase, dt)

	f := s.frame(dt)
	if visit != nil {
		visit(f)
	}

	if !(f.Elapsed < s.timing.Length(s.phase)) {
		s.phase = s.phase.next()
		if s.phase == Idle {
			s.End()
		}
	}
	s.assert()
	return from, s.phase
}

// End returns to Idle and resets the clock. It reports whether a cast was
// running.
func (s *Sequencer) End() bool {
	was := s.active
	s.active = false
	s.phase = Idle
	s.clock.Reset()
	s.assert()
	return was
}

// SetTiming replaces the timing. It is rejected while a cast runs.
func (s *Sequencer) SetTiming(t PhaseTiming) error {
	if s.active {
		return ErrCastActive
	}
	t.Recompute()
	s.timing = t
	return nil
}

// PlaybackSpeed is the animation speed that fits the source clip into the
// cast duration. Without a clip length the animation plays at normal speed.
func (s *Sequencer) PlaybackSpeed() float64 {
	if s.clipLength <= 0 {
		return 1
	}
	return s.clipLength / ClampDuration(s.timing.Duration)
}

// Frame returns the values a channel would see for the current state.
func (s *Sequencer) Frame() Frame { return s.frame(0) }

func (s *Sequencer) Active() bool        { return s.active }
func (s *Sequencer) Phase() Phase        { return s.phase }
func (s *Sequencer) Timing() PhaseTiming { return s.timing }
func (s *Sequencer) Clock() Clock        { return s.clock }

func (s *Sequencer) frame(dt float64) Frame {
	elapsed := s.clock.Elapsed(s.phase)
	return Frame{
		Phase:      s.phase,
		Progress:   ratio(elapsed, s.timing.Length(s.phase)),
		HalfAction: ratio(s.clock.Global(), s.timing.BoundaryActionMid),
		Elapsed:    elapsed,
		Global:     s.clock.Global(),
		Delta:      dt,
		Multiplier: s.clock.Multiplier(),
		Timing:     s.timing,
	}
}

// ratio divides, treating an empty span as already complete.
func ratio(n, d float64) float64 {
	if d <= 0 {
		return 1
	}
	return n / d
}

// assert enforces that the active flag and the phase agree. A mismatch would
// leave channels without a guaranteed baseline reset.
func (s *Sequencer) assert() {
	if s.active == (s.phase == Idle) {
		panic(fmt.Sprintf("cast: sequencer invariant violated: active=%v phase=%s", s.active, s.phase))
	}
}
