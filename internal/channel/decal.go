package channel

import (
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// DecalConfig configures a Decal channel.
type DecalConfig struct {
	Name     string
	MaxScale float64
	Fade     curve.FadePair
	// Spin is the peak rotation velocity in radians per second. Its rate
	// follows SpinFade: up with In through Anticipation and Action, down
	// with Out in Recuperation.
	Spin     float64
	SpinFade curve.FadePair
}

// DecalChannel grows a decal with half-action progress and shrinks it in
// Recuperation.
type DecalChannel struct {
	cfg DecalConfig
	d   Decal

	baseScale    float64
	baseRotation float64
	rotation     float64
}

func NewDecal(cfg DecalConfig, d Decal) *DecalChannel {
	return &DecalChannel{cfg: cfg, d: d}
}

func (c *DecalChannel) Name() string { return c.cfg.Name }

func (c *DecalChannel) CaptureBaseline() error {
	c.baseScale = c.d.Scale()
	c.baseRotation = c.d.Rotation()
	return nil
}

func (c *DecalChannel) OnSessionStart(cast.PhaseTiming) error {
	c.rotation = c.baseRotation
	return nil
}

func (c *DecalChannel) OnTick(f cast.Frame) error {
	var scale, spin float64
	switch f.Phase {
	case cast.Anticipation, cast.Action:
		h := clamp01(f.HalfAction)
		scale = c.cfg.Fade.FadeIn(h)
		spin = c.cfg.SpinFade.FadeIn(h)
	case cast.Recuperation:
		p := clamp01(f.Progress)
		scale = c.cfg.Fade.FadeOut(p)
		spin = c.cfg.SpinFade.FadeOut(p)
	default:
		return nil
	}
	c.d.SetScale(scale * c.cfg.MaxScale)
	if c.cfg.Spin != 0 {
		c.rotation += spin * c.cfg.Spin * f.Delta
		c.d.SetRotation(c.rotation)
	}
	return nil
}

func (c *DecalChannel) OnSessionEnd() error {
	c.d.SetScale(c.baseScale)
	c.d.SetRotation(c.baseRotation)
	c.rotation = c.baseRotation
	return nil
}
