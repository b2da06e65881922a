package channel

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// SizeFade drives the emitter start size as Base + fade*Scale.
type SizeFade struct {
	Base  float64
	Scale float64
	Fade  curve.FadePair
}

// ParticleConfig configures a Particle channel.
type ParticleConfig struct {
	Name string
	// EnablePhase is the phase in which the emitter is switched on.
	// Idle means Action.
	EnablePhase cast.Phase
	// Speed scales the session multiplier during Action. Nil means 1.
	Speed curve.Curve
	// Colors tints the start colour; mirrored in Recuperation.
	Colors curve.Gradient
	Size   *SizeFade
}

type particleBaseline struct {
	enabled bool
	speed   float64
	color   colorful.Color
	size    float64
}

// Particle drives an Emitter.
type Particle struct {
	cfg  ParticleConfig
	em   Emitter
	base particleBaseline

	enabledByUs bool
}

// NewParticle returns a Particle channel over em.
func NewParticle(cfg ParticleConfig, em Emitter) *Particle {
	if cfg.EnablePhase == cast.Idle {
		cfg.EnablePhase = cast.Action
	}
	return &Particle{cfg: cfg, em: em}
}

func (c *Particle) Name() string { return c.cfg.Name }

func (c *Particle) CaptureBaseline() error {
	c.base = particleBaseline{
		enabled: c.em.Enabled(),
		speed:   c.em.Speed(),
		color:   c.em.StartColor(),
		size:    c.em.StartSize(),
	}
	return nil
}

func (c *Particle) OnSessionStart(cast.PhaseTiming) error { return nil }

func (c *Particle) OnTick(f cast.Frame) error {
	p := clamp01(f.Progress)

	if f.Phase == c.cfg.EnablePhase && !c.em.Enabled() {
		c.em.SetEnabled(true)
		c.enabledByUs = true
	}

	switch f.Phase {
	case cast.Anticipation:
		if !c.cfg.Colors.Empty() {
			c.em.SetStartColor(c.cfg.Colors.Eval(p))
		}
		if s := c.cfg.Size; s != nil {
			c.em.SetStartSize(s.Base + s.Fade.FadeIn(p)*s.Scale)
		}
	case cast.Action:
		speed := 1.0
		if c.cfg.Speed != nil {
			speed = c.cfg.Speed.Eval(p)
		}
		c.em.SetSpeed(speed * f.Multiplier)
	case cast.Recuperation:
		if !c.cfg.Colors.Empty() {
			c.em.SetStartColor(c.cfg.Colors.Eval(1 - p))
		}
		if s := c.cfg.Size; s != nil {
			c.em.SetStartSize(s.Base + s.Fade.FadeOut(p)*s.Scale)
		}
	}
	return nil
}

func (c *Particle) OnSessionEnd() error {
	c.em.SetSpeed(c.base.speed)
	c.em.SetStartColor(c.base.color)
	c.em.SetStartSize(c.base.size)
	if c.enabledByUs {
		c.em.SetEnabled(c.base.enabled)
		c.enabledByUs = false
	}
	return nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
