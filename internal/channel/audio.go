package channel

import (
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// AudioConfig configures an Audio channel.
type AudioConfig struct {
	Name   string
	Volume float64
	Fade   curve.FadePair
	// SourceLength is the clip length in seconds. The voice pitch is set to
	// SourceLength/Duration so the clip fits the cast. Zero keeps pitch 1.
	SourceLength float64
}

// Audio fades a Voice in and out over the cast.
type Audio struct {
	cfg AudioConfig
	v   Voice

	baseGain  float64
	basePitch float64
	startedBy bool
}

func NewAudio(cfg AudioConfig, v Voice) *Audio {
	return &Audio{cfg: cfg, v: v}
}

func (c *Audio) Name() string { return c.cfg.Name }

func (c *Audio) CaptureBaseline() error {
	c.baseGain = c.v.Gain()
	c.basePitch = c.v.Pitch()
	return nil
}

func (c *Audio) OnSessionStart(t cast.PhaseTiming) error {
	if c.cfg.SourceLength > 0 {
		c.v.SetPitch(c.cfg.SourceLength / cast.ClampDuration(t.Duration))
	}
	return nil
}

func (c *Audio) OnTick(f cast.Frame) error {
	p := clamp01(f.Progress)
	switch f.Phase {
	case cast.Anticipation:
		if !c.v.Playing() {
			c.v.Play()
			c.startedBy = true
		}
		c.v.SetGain(c.cfg.Fade.FadeIn(p) * c.cfg.Volume)
	case cast.Action:
		c.v.SetGain(c.cfg.Fade.FadeIn(1) * c.cfg.Volume)
	case cast.Recuperation:
		c.v.SetGain(c.cfg.Fade.FadeOut(p) * c.cfg.Volume)
	}
	return nil
}

func (c *Audio) OnSessionEnd() error {
	if c.startedBy {
		c.v.Stop()
		c.startedBy = false
	}
	c.v.SetGain(c.baseGain)
	c.v.SetPitch(c.basePitch)
	return nil
}
