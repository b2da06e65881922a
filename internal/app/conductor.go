package app

import (
	"context"
	"time"

	"github.com/coreman2200/funtimes-spellcast/internal/anim"
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	diag "github.com/coreman2200/funtimes-spellcast/internal/diagnostics"
	"github.com/coreman2200/funtimes-spellcast/internal/led"
	"github.com/coreman2200/funtimes-spellcast/internal/render/calib"
)

// State is the cast state published to telemetry.
type State struct {
	T      float64            `json:"t"`
	Spells []cast.Status      `json:"spells"`
	Anim   anim.State         `json:"anim"`
	Post   map[string]float64 `json:"post"`
}

// SetSink routes frames, state and diagnostics to s and replays the config
// warnings collected by New.
func (c *Core) SetSink(s Sink) {
	if s == nil {
		s = nopSink{}
	}
	c.mu.Lock()
	c.sink = s
	ds := append([]diag.Diagnostic(nil), c.diags...)
	c.mu.Unlock()
	for _, d := range ds {
		s.PushDiag(d)
	}
}

// Diagnostics returns the config warnings found by New.
func (c *Core) Diagnostics() []diag.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]diag.Diagnostic(nil), c.diags...)
}

// With runs f with exclusive access to the core.
func (c *Core) With(f func(c *Core)) {
	c.mu.Lock()
	defer c.unlock()
	f(c)
}

func (c *Core) Cast(spell string) error {
	c.mu.Lock()
	defer c.unlock()
	return c.Caster.Cast(spell)
}

func (c *Core) Trigger(name string) error {
	c.mu.Lock()
	defer c.unlock()
	return c.Caster.Trigger(name)
}

// unlock releases mu, then pushes the diagnostics queued while it was held.
func (c *Core) unlock() {
	pending, sink := c.pending, c.sink
	c.pending = nil
	c.mu.Unlock()
	for _, d := range pending {
		sink.PushDiag(d)
	}
}

func (c *Core) SetBrightness(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Eng.U.Brightness = v
	c.log.Info().Float64("brightness", v).Msg("brightness set")
}

// RunTest replaces the stage with a calibration pattern until the pattern
// finishes. Casts keep ticking meanwhile.
func (c *Core) RunTest(name string) error {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()

	kind, err := calib.ParseKind(name)
	if err != nil {
		sink.PushDiag(diag.Diagnostic{
			Severity: diag.Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
			Evidence: map[string]any{"name": name, "known": calib.Kinds},
		})
		return err
	}
	c.With(func(c *Core) { c.Eng.Scene = calib.New(kind, c.Layout, c.Cfg.FPS/4) })
	sink.PushDiag(diag.Diagnostic{Severity: diag.Info, Code: "TEST.RUNNING", Summary: "Running test", Detail: name})
	return nil
}

// Step advances every cast by dt seconds and renders one frame.
func (c *Core) Step(dt float64) error {
	c.mu.Lock()
	c.Caster.Tick(dt)
	c.t += dt
	err := c.Eng.RenderOnce(c.t)
	if p, ok := c.Eng.Scene.(*calib.Pattern); ok && p.Done() {
		c.Eng.Scene = c.Stage
		c.pending = append(c.pending, diag.Diagnostic{Severity: diag.Info, Code: "TEST.DONE", Summary: "Test complete", Detail: string(p.Kind())})
	}
	c.rgb = led.Quantize(c.rgb, c.Eng.Out)
	rgb := append([]byte(nil), c.rgb...)

	var st *State
	if _, busy := c.Caster.Busy(); busy || c.dirty {
		s := c.stateLocked()
		st = &s
		c.dirty = false
	}
	sink := c.sink
	c.unlock()

	sink.PublishFrame(rgb)
	if st != nil {
		sink.PublishState(st)
	}
	return err
}

// Snapshot returns the current cast state.
func (c *Core) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Core) stateLocked() State {
	return State{
		T:      c.t,
		Spells: c.Caster.Snapshot(),
		Anim:   c.Anim.State(),
		Post:   c.Stage.Post.Snapshot(),
	}
}

// Run steps the core at the configured frame rate until ctx is done, then
// ends every cast so the stage is back at its baseline.
func (c *Core) Run(ctx context.Context) error {
	fps := c.Cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	tick := time.NewTicker(dt)
	defer tick.Stop()

	var lastErr string
	for {
		select {
		case <-ctx.Done():
			c.With(func(c *Core) { c.Caster.EndAll() })
			return ctx.Err()
		case <-tick.C:
			err := c.Step(dt.Seconds())
			switch {
			case err != nil && err.Error() != lastErr:
				c.log.Warn().Err(err).Msg("frame write failed")
				lastErr = err.Error()
			case err == nil && lastErr != "":
				c.log.Info().Msg("frame writes recovered")
				lastErr = ""
			}
		}
	}
}

// observer forwards session events. Sessions call it with c.mu held, so
// failures are queued and pushed by unlock.
type observer struct{ c *Core }

func (o observer) PhaseChanged(spell string, gen uint64, from, to cast.Phase) {
	o.c.dirty = true
}

func (o observer) ChannelFailed(spell, channel string, err error) {
	o.c.pending = append(o.c.pending, diag.ChannelFailure(spell, channel, err))
}
