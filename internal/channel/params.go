package channel

import (
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

// Drive selects the progress a Track follows before Recuperation.
type Drive string

const (
	// DrivePhase follows phase progress in Anticipation and holds through
	// Action.
	DrivePhase Drive = "phase"
	// DriveHalfAction follows progress towards the middle of Action.
	DriveHalfAction Drive = "half_action"
)

// Track writes Base + fade*Range to one parameter.
type Track struct {
	Name  string
	Base  float64
	Range float64
	Fade  curve.FadePair
	Drive Drive
	// OutSpan is subtracted from the recuperation length so the fade-out
	// completes early. Seconds.
	OutSpan float64
}

type paramBaseline struct {
	v  float64
	ok bool
}

// Params drives a set of tracks on one ParamSink.
type Params struct {
	name   string
	sink   ParamSink
	tracks []Track
	base   []paramBaseline
}

// NewParams returns a generic parameter channel.
func NewParams(name string, sink ParamSink, tracks ...Track) *Params {
	return &Params{name: name, sink: sink, tracks: append([]Track(nil), tracks...)}
}

// NewPostProcess drives a post-process profile. Tracks default to phase drive.
func NewPostProcess(name string, sink ParamSink, tracks ...Track) *Params {
	for i := range tracks {
		if tracks[i].Drive == "" {
			tracks[i].Drive = DrivePhase
		}
	}
	return NewParams(name, sink, tracks...)
}

// NewMaterial drives material parameters. Tracks default to half-action drive.
func NewMaterial(name string, sink ParamSink, tracks ...Track) *Params {
	for i := range tracks {
		if tracks[i].Drive == "" {
			tracks[i].Drive = DriveHalfAction
		}
	}
	return NewParams(name, sink, tracks...)
}

func (c *Params) Name() string { return c.name }

func (c *Params) CaptureBaseline() error {
	c.base = make([]paramBaseline, len(c.tracks))
	for i, t := range c.tracks {
		v, ok := c.sink.Param(t.Name)
		c.base[i] = paramBaseline{v: v, ok: ok}
	}
	return nil
}

func (c *Params) OnSessionStart(cast.PhaseTiming) error { return nil }

func (c *Params) OnTick(f cast.Frame) error {
	for _, t := range c.tracks {
		var k float64
		switch f.Phase {
		case cast.Anticipation:
			if t.Drive == DriveHalfAction {
				k = t.Fade.FadeIn(clamp01(f.HalfAction))
			} else {
				k = t.Fade.FadeIn(clamp01(f.Progress))
			}
		case cast.Action:
			if t.Drive == DriveHalfAction {
				k = t.Fade.FadeIn(clamp01(f.HalfAction))
			} else {
				k = t.Fade.FadeIn(1)
			}
		case cast.Recuperation:
			k = t.Fade.FadeOut(clamp01(outProgress(f, t.OutSpan)))
		default:
			continue
		}
		c.sink.SetParam(t.Name, t.Base+k*t.Range)
	}
	return nil
}

// OnSessionEnd puts every parameter back as captured. A parameter that was
// unset before the cast is unset again.
func (c *Params) OnSessionEnd() error {
	for i, t := range c.tracks {
		if i < len(c.base) && c.base[i].ok {
			c.sink.SetParam(t.Name, c.base[i].v)
			continue
		}
		c.sink.DeleteParam(t.Name)
	}
	return nil
}

func outProgress(f cast.Frame, span float64) float64 {
	if span <= 0 {
		return f.Progress
	}
	d := f.Timing.RecuperationLength - span
	if d <= 0 {
		return 1
	}
	return f.Elapsed / d
}
