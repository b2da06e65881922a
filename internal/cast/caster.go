package cast

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Status is a read-only view of one session, used for telemetry.
type Status struct {
	Spell      string  `json:"spell"`
	Active     bool    `json:"active"`
	Phase      Phase   `json:"phase"`
	Generation uint64  `json:"generation"`
	Global     float64 `json:"global"`
	Progress   float64 `json:"progress"`
	Multiplier float64 `json:"multiplier"`
}

// Caster groups the sessions of one character. Only one of them may run at a
// time; recasting the running spell restarts it.
type Caster struct {
	anim     Animator
	sessions map[string]*Session
	order    []string
	log      zerolog.Logger
}

// NewCaster returns an empty Caster. anim receives one-shot triggers.
func NewCaster(anim Animator, log zerolog.Logger) *Caster {
	return &Caster{anim: anim, sessions: map[string]*Session{}, log: log}
}

// Add registers a session under its name.
func (c *Caster) Add(s *Session) error {
	if _, ok := c.sessions[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSpell, s.Name())
	}
	c.sessions[s.Name()] = s
	c.order = append(c.order, s.Name())
	return nil
}

// Cast starts the named spell unless a different spell is running.
func (c *Caster) Cast(name string) error {
	s, ok := c.sessions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSpell, name)
	}
	if busy, ok := c.Busy(); ok && busy != name {
		c.log.Debug().Str("spell", name).Str("running", busy).Msg("cast refused")
		return fmt.Errorf("%w: %s", ErrBusy, busy)
	}
	s.ExecuteSpell()
	return nil
}

// Trigger plays a one-shot animation that has no phase choreography.
func (c *Caster) Trigger(name string) error {
	if c.anim == nil {
		return ErrNoAnimator
	}
	c.anim.SetTrigger(name)
	return nil
}

// Tick advances every session by dt.
func (c *Caster) Tick(dt float64) {
	for _, n := range c.order {
		c.sessions[n].Tick(dt)
	}
}

// EndAll force-ends every session.
func (c *Caster) EndAll() {
	for _, n := range c.order {
		c.sessions[n].End()
	}
}

// Busy returns the name of the running spell, if any.
func (c *Caster) Busy() (string, bool) {
	for _, n := range c.order {
		if c.sessions[n].Active() {
			return n, true
		}
	}
	return "", false
}

// Session looks up a session by name.
func (c *Caster) Session(name string) (*Session, bool) {
	s, ok := c.sessions[name]
	return s, ok
}

// Names lists spells in registration order.
func (c *Caster) Names() []string { return append([]string(nil), c.order...) }

// Snapshot returns the status of every session in registration order.
func (c *Caster) Snapshot() []Status {
	out := make([]Status, 0, len(c.order))
	for _, n := range c.order {
		s := c.sessions[n]
		f := s.LastFrame()
		out = append(out, Status{
			Spell:      n,
			Active:     s.Active(),
			Phase:      s.Phase(),
			Generation: s.Generation(),
			Global:     f.Global,
			Progress:   f.Progress,
			Multiplier: f.Multiplier,
		})
	}
	return out
}
