// Package app wires the stage, the voices, the animator and the cast sessions
// described by a config into one host loop.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-spellcast/internal/anim"
	"github.com/coreman2200/funtimes-spellcast/internal/audio"
	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/channel"
	"github.com/coreman2200/funtimes-spellcast/internal/config"
	diag "github.com/coreman2200/funtimes-spellcast/internal/diagnostics"
	"github.com/coreman2200/funtimes-spellcast/internal/layout"
	"github.com/coreman2200/funtimes-spellcast/internal/led"
	"github.com/coreman2200/funtimes-spellcast/internal/render"
	"github.com/coreman2200/funtimes-spellcast/internal/render/post"
)

// Sink receives what the loop produces. telemetry.Server implements it.
type Sink interface {
	PublishFrame(rgb []byte)
	PublishState(v any)
	PushDiag(d diag.Diagnostic)
}

type nopSink struct{}

func (nopSink) PublishFrame([]byte)      {}
func (nopSink) PublishState(any)         {}
func (nopSink) PushDiag(diag.Diagnostic) {}

// Options selects the outputs of a Core. Zero values give a simulated strip,
// no speaker and the global logger.
type Options struct {
	Driver     render.Driver
	DriverKind string
	Audio      *audio.Output
	Log        *zerolog.Logger
}

// Core owns everything a cast touches. Its methods are safe for concurrent
// use; With gives direct access under the same lock.
type Core struct {
	mu sync.Mutex

	Cfg    *config.Config
	Layout layout.Layout
	Stage  *render.Stage
	Eng    *render.Engine
	Anim   *anim.Controller
	Caster *cast.Caster
	Voices map[string]*audio.Voice

	log   zerolog.Logger
	sink  Sink
	diags []diag.Diagnostic
	rgb   []byte
	t     float64
	dirty bool

	// pending holds channel failures raised under mu until it is released.
	pending []diag.Diagnostic
}

// LayoutOf converts the config geometry into a layout.
func LayoutOf(cfg *config.Config) layout.Layout {
	return layout.Layout{
		Dim:        layout.Dim{X: cfg.Dim.X, Y: cfg.Dim.Y, Z: cfg.Dim.Z},
		Order:      layout.Serpentine{XFlipEveryRow: cfg.XFlipEveryRow, YFlipEveryPanel: cfg.YFlipEveryPanel},
		PanelGapMM: cfg.PanelGapMM,
		PitchMM:    cfg.PitchMM,
	}
}

// New validates cfg and builds a Core from it. Config warnings are kept and
// returned by Diagnostics; errors abort.
func New(cfg *config.Config, opts Options) (*Core, error) {
	ds := cfg.Validate()
	if config.HasErrors(ds) {
		return nil, invalid(ds)
	}

	l := LayoutOf(cfg)
	if err := l.Validate(); err != nil {
		return nil, err
	}

	c := &Core{
		Cfg:    cfg,
		Layout: l,
		Voices: map[string]*audio.Voice{},
		log:    log.Logger,
		sink:   nopSink{},
		diags:  ds,
	}
	if opts.Log != nil {
		c.log = *opts.Log
	}
	for _, d := range ds {
		c.log.Warn().Str("code", d.Code).Msg(d.Summary)
	}

	u := render.NewUniforms(cfg.Post)
	applyPostDefaults(u, cfg)
	if cfg.Brightness > 0 {
		u.Brightness = cfg.Brightness
	}

	var err error
	if c.Stage, err = buildStage(cfg.Stage, u); err != nil {
		return nil, err
	}
	if err := c.buildVoices(cfg, opts.Audio); err != nil {
		return nil, err
	}
	c.Anim = anim.NewController(cfg.Clips, c.log)
	if c.Caster, err = c.buildCaster(cfg.Spells); err != nil {
		return nil, err
	}

	drv := opts.Driver
	if drv == nil {
		drv = led.NewSim()
	}
	c.Eng, err = render.NewEngine(led.Dimensions(l), led.BuildLUT(l), drv, c.Stage, u)
	if err != nil {
		return nil, err
	}
	c.Eng.SetPost(post.ForDriver(opts.DriverKind))
	return c, nil
}

// applyPostDefaults fills the limiter params the config leaves unset.
func applyPostDefaults(u *render.Uniforms, cfg *config.Config) {
	defaults := map[string]float64{
		"Budget_mA":   3000,
		"LEDChan_mA":  20,
		"LimiterKnee": 0.9,
		"WhiteCap":    3,
		"ExposureEV":  0,
		"OutputGamma": 2.2,
	}
	if cfg.Power.LimitAmps > 0 {
		defaults["Budget_mA"] = cfg.Power.LimitAmps * 1000
	}
	// the config caps each LED as a fraction of full white
	if w := cfg.Power.WhiteCap; w > 0 && w <= 1 {
		defaults["WhiteCap"] = w * 3
	}
	for k, v := range defaults {
		if _, ok := u.Param(k); !ok {
			u.SetParam(k, v)
		}
	}
}

func buildStage(sc config.Stage, postU *render.Uniforms) (*render.Stage, error) {
	st := render.NewStage(postU)
	for name, params := range sc.Materials {
		st.AddMaterial(name, render.NewUniforms(params))
	}
	for _, l := range sc.Lights {
		col, err := hex(l.Color)
		if err != nil {
			return nil, fmt.Errorf("light %s: %w", l.Name, err)
		}
		st.AddLight(l.Name, render.NewLight(vec(l.Pos), col, l.Intensity, l.Radius))
	}
	for _, e := range sc.Emitters {
		col, err := hex(e.Color)
		if err != nil {
			return nil, fmt.Errorf("emitter %s: %w", e.Name, err)
		}
		em := render.NewEmitter(vec(e.Pos), col, e.Size, e.Speed, e.Radius)
		if e.Material != "" {
			m, ok := st.Params(e.Material)
			if !ok || e.Material == "post" {
				return nil, fmt.Errorf("emitter %s: unknown material %q", e.Name, e.Material)
			}
			em.Material = m
		}
		st.AddEmitter(e.Name, em)
	}
	for _, d := range sc.Decals {
		col, err := hex(d.Color)
		if err != nil {
			return nil, fmt.Errorf("decal %s: %w", d.Name, err)
		}
		st.AddDecal(d.Name, render.NewDecal(vec(d.Pos), col, d.Scale, d.Runes))
	}
	return st, nil
}

func (c *Core) buildVoices(cfg *config.Config, out *audio.Output) error {
	rate := audio.DefaultSampleRate
	if out != nil {
		rate = out.SampleRate()
	}
	for _, vc := range cfg.Stage.Voices {
		if _, ok := c.Voices[vc.Name]; ok {
			return fmt.Errorf("voice %s: duplicate name", vc.Name)
		}
		freq := vc.Tone
		if freq <= 0 {
			freq = 440
		}
		v := audio.NewVoice(audio.Tone(rate, freq))
		if out != nil {
			out.Add(v)
		}
		c.Voices[vc.Name] = v
	}
	return nil
}

func (c *Core) buildCaster(spells []config.Spell) (*cast.Caster, error) {
	cs := cast.NewCaster(c.Anim, c.log)
	b := backends{stage: c.Stage, voices: c.Voices}
	for _, sp := range spells {
		chans := make([]cast.Channel, 0, len(sp.Channels))
		for _, cc := range sp.Channels {
			ch, err := channel.Build(cc, b)
			if err != nil {
				return nil, fmt.Errorf("spell %s: %w", sp.Name, err)
			}
			chans = append(chans, ch)
		}
		s, err := cast.NewSession(cast.SessionConfig{
			Name:         sp.Name,
			Trigger:      sp.Trigger,
			ClipLength:   sp.ClipLength,
			Duration:     sp.Duration,
			Fractions:    sp.Fractions,
			Acceleration: sp.Acceleration(),
			Channels:     chans,
		}, c.Anim, cast.WithLogger(c.log), cast.WithObserver(observer{c}))
		if err != nil {
			return nil, err
		}
		if err := cs.Add(s); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

func hex(s string) (colorful.Color, error) {
	if s == "" {
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	}
	return colorful.Hex(s)
}

func vec(v config.Vec) render.Vec3 { return render.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func invalid(ds []diag.Diagnostic) error {
	var errs []error
	for _, d := range ds {
		if d.Severity == diag.Err {
			errs = append(errs, fmt.Errorf("%s: %s", d.Code, d.Summary))
		}
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}
