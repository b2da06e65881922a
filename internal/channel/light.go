package channel

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// LightConfig configures a Light channel.
type LightConfig struct {
	Name string
	Peak float64
	Fade curve.FadePair
	// Colors, when set, tints the light and mirrors back in Recuperation.
	Colors curve.Gradient
}

// LightChannel fades a Light up, holds it through Action and fades it out.
type LightChannel struct {
	cfg LightConfig
	l   Light

	baseIntensity float64
	baseColor     colorful.Color
}

func NewLight(cfg LightConfig, l Light) *LightChannel {
	return &LightChannel{cfg: cfg, l: l}
}

func (c *LightChannel) Name() string { return c.cfg.Name }

func (c *LightChannel) CaptureBaseline() error {
	c.baseIntensity = c.l.Intensity()
	c.baseColor = c.l.Color()
	return nil
}

func (c *LightChannel) OnSessionStart(cast.PhaseTiming) error { return nil }

func (c *LightChannel) OnTick(f cast.Frame) error {
	p := clamp01(f.Progress)
	switch f.Phase {
	case cast.Anticipation:
		c.l.SetIntensity(c.cfg.Fade.FadeIn(p) * c.cfg.Peak)
		if !c.cfg.Colors.Empty() {
			c.l.SetColor(c.cfg.Colors.Eval(p))
		}
	case cast.Action:
		c.l.SetIntensity(c.cfg.Fade.FadeIn(1) * c.cfg.Peak)
	case cast.Recuperation:
		c.l.SetIntensity(c.cfg.Fade.FadeOut(p) * c.cfg.Peak)
		if !c.cfg.Colors.Empty() {
			c.l.SetColor(c.cfg.Colors.Eval(1 - p))
		}
	}
	return nil
}

func (c *LightChannel) OnSessionEnd() error {
	c.l.SetIntensity(c.baseIntensity)
	c.l.SetColor(c.baseColor)
	return nil
}
