package channel

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
)

type fakeEmitter struct {
	enabled bool
	speed   float64
	color   colorful.Color
	size    float64
}

func (e *fakeEmitter) Enabled() bool                  { return e.enabled }
func (e *fakeEmitter) SetEnabled(on bool)             { e.enabled = on }
func (e *fakeEmitter) Speed() float64                 { return e.speed }
func (e *fakeEmitter) SetSpeed(v float64)             { e.speed = v }
func (e *fakeEmitter) StartColor() colorful.Color     { return e.color }
func (e *fakeEmitter) SetStartColor(c colorful.Color) { e.color = c }
func (e *fakeEmitter) StartSize() float64             { return e.size }
func (e *fakeEmitter) SetStartSize(v float64)         { e.size = v }

type fakeLight struct {
	intensity float64
	color     colorful.Color
}

func (l *fakeLight) Intensity() float64        { return l.intensity }
func (l *fakeLight) SetIntensity(v float64)    { l.intensity = v }
func (l *fakeLight) Color() colorful.Color     { return l.color }
func (l *fakeLight) SetColor(c colorful.Color) { l.color = c }

type fakeDecal struct {
	scale, rotation float64
}

func (d *fakeDecal) Scale() float64          { return d.scale }
func (d *fakeDecal) SetScale(v float64)      { d.scale = v }
func (d *fakeDecal) Rotation() float64       { return d.rotation }
func (d *fakeDecal) SetRotation(rad float64) { d.rotation = rad }

type fakeParams map[string]float64

func (p fakeParams) Param(name string) (float64, bool) { v, ok := p[name]; return v, ok }
func (p fakeParams) SetParam(name string, v float64)   { p[name] = v }
func (p fakeParams) DeleteParam(name string)           { delete(p, name) }

type fakeVoice struct {
	gain, pitch float64
	playing     bool
	plays       int
}

func (v *fakeVoice) Gain() float64          { return v.gain }
func (v *fakeVoice) SetGain(g float64)      { v.gain = g }
func (v *fakeVoice) Pitch() float64         { return v.pitch }
func (v *fakeVoice) SetPitch(ratio float64) { v.pitch = ratio }
func (v *fakeVoice) Playing() bool          { return v.playing }
func (v *fakeVoice) Play()                  { v.playing = true; v.plays++ }
func (v *fakeVoice) Stop()                  { v.playing = false }

type fakeBackends struct {
	emitters map[string]*fakeEmitter
	lights   map[string]*fakeLight
	decals   map[string]*fakeDecal
	params   map[string]fakeParams
	voices   map[string]*fakeVoice
}

func (b fakeBackends) Emitter(n string) (Emitter, bool) {
	e, ok := b.emitters[n]
	return e, ok
}

func (b fakeBackends) Light(n string) (Light, bool) {
	l, ok := b.lights[n]
	return l, ok
}

func (b fakeBackends) Decal(n string) (Decal, bool) {
	d, ok := b.decals[n]
	return d, ok
}

func (b fakeBackends) Params(n string) (ParamSink, bool) {
	p, ok := b.params[n]
	return p, ok
}

func (b fakeBackends) Voice(n string) (Voice, bool) {
	v, ok := b.voices[n]
	return v, ok
}

// timing is the stock 2.25 s cast.
var timing = cast.NewPhaseTiming(cast.DefaultFractions, 2.25)

func frame(p cast.Phase, progress float64) cast.Frame {
	return cast.Frame{Phase: p, Progress: progress, Timing: timing, Multiplier: 1}
}
