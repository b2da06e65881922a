// Package channel holds the stock cast channels. Each one drives a single
// backend from phase progress and restores the backend on session end.
package channel

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrNoBackend is returned by Build when the configured target does not exist.
var ErrNoBackend = errors.New("channel: backend not found")

// Emitter is a particle system.
type Emitter interface {
	Enabled() bool
	SetEnabled(on bool)
	Speed() float64
	SetSpeed(v float64)
	StartColor() colorful.Color
	SetStartColor(c colorful.Color)
	StartSize() float64
	SetStartSize(v float64)
}

// Light is a point light.
type Light interface {
	Intensity() float64
	SetIntensity(v float64)
	Color() colorful.Color
	SetColor(c colorful.Color)
}

// Decal is a projected ground pattern.
type Decal interface {
	Scale() float64
	SetScale(v float64)
	Rotation() float64
	SetRotation(rad float64)
}

// ParamSink is a named float parameter bag, such as a post-process profile
// or a material.
type ParamSink interface {
	Param(name string) (float64, bool)
	SetParam(name string, v float64)
	DeleteParam(name string)
}

// Voice is one audio source.
type Voice interface {
	Gain() float64
	SetGain(v float64)
	Pitch() float64
	SetPitch(ratio float64)
	Playing() bool
	Play()
	Stop()
}

// Backends resolves channel targets by name.
type Backends interface {
	Emitter(name string) (Emitter, bool)
	Light(name string) (Light, bool)
	Decal(name string) (Decal, bool)
	Params(name string) (ParamSink, bool)
	Voice(name string) (Voice, bool)
}
