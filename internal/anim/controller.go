// Package anim tracks the character animation state driven by casts.
package anim

import (
	"sync"

	"github.com/rs/zerolog"
)

// State is a snapshot of the controller for telemetry.
type State struct {
	Trigger string  `json:"trigger"`
	Speed   float64 `json:"speed"`
	Fired   uint64  `json:"fired"`
	// Clip is the length of the triggered clip in seconds, 0 if unknown.
	Clip float64 `json:"clip"`
}

// Controller records triggers and playback speed. It has no renderer of
// its own; the LED stage shows the spell effects.
type Controller struct {
	mu    sync.Mutex
	clips map[string]float64
	state State
	log   zerolog.Logger
}

// NewController returns a controller at speed 1. clips maps trigger names to
// clip lengths.
func NewController(clips map[string]float64, log zerolog.Logger) *Controller {
	c := &Controller{clips: map[string]float64{}, log: log, state: State{Speed: 1}}
	for k, v := range clips {
		c.clips[k] = v
	}
	return c
}

func (c *Controller) SetTrigger(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Trigger = name
	c.state.Clip = c.clips[name]
	c.state.Fired++
	c.log.Debug().Str("trigger", name).Float64("clip", c.state.Clip).Msg("animation triggered")
}

func (c *Controller) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if speed == c.state.Speed {
		return
	}
	c.state.Speed = speed
	c.log.Debug().Float64("speed", speed).Msg("animation speed")
}

// ClipLength returns the configured length of a clip.
func (c *Controller) ClipLength(name string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.clips[name]
	return v, ok
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
