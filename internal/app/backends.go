package app

import (
	"github.com/coreman2200/funtimes-spellcast/internal/audio"
	"github.com/coreman2200/funtimes-spellcast/internal/channel"
	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// backends resolves channel targets against the stage and the voices.
type backends struct {
	stage  *render.Stage
	voices map[string]*audio.Voice
}

func (b backends) Emitter(name string) (channel.Emitter, bool) {
	if e, ok := b.stage.Emitter(name); ok {
		return e, true
	}
	return nil, false
}

func (b backends) Light(name string) (channel.Light, bool) {
	if l, ok := b.stage.Light(name); ok {
		return l, true
	}
	return nil, false
}

func (b backends) Decal(name string) (channel.Decal, bool) {
	if d, ok := b.stage.Decal(name); ok {
		return d, true
	}
	return nil, false
}

func (b backends) Params(name string) (channel.ParamSink, bool) {
	if u, ok := b.stage.Params(name); ok {
		return u, true
	}
	return nil, false
}

func (b backends) Voice(name string) (channel.Voice, bool) {
	if v, ok := b.voices[name]; ok {
		return v, true
	}
	return nil, false
}
