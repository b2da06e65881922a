package cast

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionConfig is the static description of one castable spell.
type SessionConfig struct {
	Name         string
	Trigger      string  // animation trigger fired on every cast
	ClipLength   float64 // seconds of the source animation at speed 1
	Duration     float64
	Fractions    Fractions
	Acceleration Acceleration
	Channels     []Channel // invoked in this order every tick
}

// Session ties one Sequencer to an ordered list of borrowed channels.
type Session struct {
	name     string
	trigger  string
	seq      *Sequencer
	channels []Channel
	anim     Animator

	generation uint64
	last       Frame

	log zerolog.Logger
	obs Observer
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger. The global logger is used otherwise.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// WithObserver registers an observer for phase changes and channel failures.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewSession builds an idle session and captures every channel's baseline.
func NewSession(cfg SessionConfig, anim Animator, opts ...Option) (*Session, error) {
	s := &Session{
		name:     cfg.Name,
		trigger:  cfg.Trigger,
		seq:      NewSequencer(NewPhaseTiming(cfg.Fractions, cfg.Duration), cfg.Acceleration, cfg.ClipLength),
		channels: append([]Channel(nil), cfg.Channels...),
		anim:     anim,
		log:      log.Logger,
		obs:      nopObserver{},
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("spell", s.name).Logger()

	if err := cfg.Fractions.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("phase fractions will be used as given")
	}
	if cfg.Duration <= 0 {
		s.log.Warn().Float64("duration", cfg.Duration).Float64("clamped", MinDuration).Msg("non-positive duration clamped")
	}
	for _, ch := range s.channels {
		if err := ch.CaptureBaseline(); err != nil {
			return nil, fmt.Errorf("spell %s: capture baseline of %s: %w", s.name, ch.Name(), err)
		}
	}
	return s, nil
}

// ExecuteSpell starts a cast. An active cast is force-ended first so every
// channel shows its baseline before the new run's first tick.
func (s *Session) ExecuteSpell() {
	if s.seq.Active() {
		s.log.Debug().Uint64("generation", s.generation).Stringer("phase", s.seq.Phase()).Msg("preempting active cast")
		s.End()
	}
	s.generation++
	if err := s.seq.Start(); err != nil {
		// End above guarantees an idle sequencer.
		panic(fmt.Sprintf("cast: start after end: %v", err))
	}
	s.last = s.seq.Frame()

	if s.anim != nil {
		s.anim.SetTrigger(s.trigger)
		s.anim.SetSpeed(s.seq.PlaybackSpeed())
	}
	timing := s.seq.Timing()
	for _, ch := range s.channels {
		ch := ch
		s.call(ch, "start", func() error { return ch.OnSessionStart(timing) })
	}
	s.log.Debug().Uint64("generation", s.generation).Float64("speed", s.seq.PlaybackSpeed()).Msg("cast started")
	s.obs.PhaseChanged(s.name, s.generation, Idle, Anticipation)
}

// Tick advances an active cast by dt seconds. It is a no-op while idle.
func (s *Session) Tick(dt float64) {
	if !s.seq.Active() {
		return
	}
	from, to := s.seq.Tick(dt, s.dispatch)
	if from == to {
		return
	}
	s.log.Debug().Uint64("generation", s.generation).Stringer("from", from).Stringer("to", to).Msg("phase changed")
	s.obs.PhaseChanged(s.name, s.generation, from, to)
	if to == Idle {
		s.reset()
	}
}

// End stops the cast, if any, and restores every channel's baseline.
// Calling it repeatedly leaves the same state as calling it once.
func (s *Session) End() {
	from := s.seq.Phase()
	if s.seq.End() {
		s.obs.PhaseChanged(s.name, s.generation, from, Idle)
	}
	s.reset()
}

// TickFunc is a tick callback bound to one cast generation.
type TickFunc func(dt float64) error

// Bind returns a tick callback for the current generation. Once the session
// is cast again the callback does nothing and returns ErrStaleGeneration.
func (s *Session) Bind() TickFunc {
	gen := s.generation
	return func(dt float64) error {
		if gen != s.generation {
			return ErrStaleGeneration
		}
		s.Tick(dt)
		return nil
	}
}

// SetDuration changes the total duration. Rejected while a cast runs.
func (s *Session) SetDuration(d float64) error {
	t := s.seq.Timing()
	t.Duration = d
	return s.seq.SetTiming(t)
}

// SetFractions changes the phase split. Rejected while a cast runs.
func (s *Session) SetFractions(f Fractions) error {
	t := s.seq.Timing()
	t.Fractions = f
	if err := s.seq.SetTiming(t); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("phase fractions will be used as given")
	}
	return nil
}

func (s *Session) Name() string        { return s.name }
func (s *Session) Active() bool        { return s.seq.Active() }
func (s *Session) Phase() Phase        { return s.seq.Phase() }
func (s *Session) Generation() uint64  { return s.generation }
func (s *Session) Timing() PhaseTiming { return s.seq.Timing() }
func (s *Session) Clock() Clock        { return s.seq.Clock() }

// LastFrame returns the frame most recently handed to the channels.
func (s *Session) LastFrame() Frame { return s.last }

// Channels returns the channel names in dispatch order.
func (s *Session) Channels() []string {
	out := make([]string, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch.Name())
	}
	return out
}

func (s *Session) dispatch(f Frame) {
	s.last = f
	for _, ch := range s.channels {
		ch := ch
		s.call(ch, "tick", func() error { return ch.OnTick(f) })
	}
}

// reset is the shared end-of-cast path.
func (s *Session) reset() {
	s.last = s.seq.Frame()
	if s.anim != nil {
		s.anim.SetSpeed(1)
	}
	for _, ch := range s.channels {
		ch := ch
		s.call(ch, "end", ch.OnSessionEnd)
	}
}

// call runs one channel operation. Errors and panics are logged and
// reported; the channel is skipped for this call only.
func (s *Session) call(ch Channel, op string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrChannelPanic, r)
			}
		}()
		return fn()
	}()
	if err == nil {
		return
	}
	s.log.Error().Err(err).Str("channel", ch.Name()).Str("op", op).
		Uint64("generation", s.generation).Stringer("phase", s.seq.Phase()).
		Msg("channel failed")
	s.obs.ChannelFailed(s.name, ch.Name(), err)
}
