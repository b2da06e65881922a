package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps" json:"limit_amps,omitempty"`
	WhiteCap  float64 `yaml:"white_cap" json:"white_cap,omitempty"`
}

type Dim struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	Z int `yaml:"z" json:"z"`
}

type SPI struct {
	Dev     string `yaml:"dev" json:"dev,omitempty"`           // e.g. /dev/spidev0.0, empty picks the first port
	SpeedHz int    `yaml:"speed_hz" json:"speed_hz,omitempty"` // e.g. 2400000
}

type Audio struct {
	Enabled    bool `yaml:"enabled" json:"enabled,omitempty"`
	SampleRate int  `yaml:"sample_rate" json:"sample_rate,omitempty" jsonschema:"minimum=8000"`
}

type HTTP struct {
	Addr string `yaml:"addr" json:"addr,omitempty"`
}

// Config is the daemon configuration file.
type Config struct {
	Driver     string  `yaml:"driver" json:"driver,omitempty" jsonschema:"enum=sim,enum=nrz"`
	ColorOrder string  `yaml:"color_order" json:"color_order,omitempty"`
	Brightness float64 `yaml:"brightness" json:"brightness,omitempty" jsonschema:"minimum=0,maximum=1"`
	FPS        int     `yaml:"fps" json:"fps,omitempty" jsonschema:"minimum=1"`

	Dim             Dim     `yaml:"dim" json:"dim"`
	PitchMM         float64 `yaml:"pitch_mm" json:"pitch_mm,omitempty"`
	PanelGapMM      float64 `yaml:"panel_gap_mm" json:"panel_gap_mm,omitempty"`
	XFlipEveryRow   bool    `yaml:"x_flip_every_row" json:"x_flip_every_row,omitempty"`
	YFlipEveryPanel bool    `yaml:"y_flip_every_panel" json:"y_flip_every_panel,omitempty"`

	Power PowerCfg `yaml:"power" json:"power,omitempty"`
	SPI   SPI      `yaml:"spi,omitempty" json:"spi,omitempty"`
	Audio Audio    `yaml:"audio,omitempty" json:"audio,omitempty"`
	HTTP  HTTP     `yaml:"http,omitempty" json:"http,omitempty"`

	// Post seeds the post-process profile (ExposureEV, MotionBlur, ...).
	Post  map[string]float64 `yaml:"post,omitempty" json:"post,omitempty"`
	Stage Stage              `yaml:"stage" json:"stage"`
	// Clips maps animation trigger names to clip lengths in seconds.
	Clips  map[string]float64 `yaml:"clips,omitempty" json:"clips,omitempty"`
	Spells []Spell            `yaml:"spells" json:"spells"`
}

// Stage lists the scene fixtures channels can target.
type Stage struct {
	Lights    []Light                       `yaml:"lights,omitempty" json:"lights,omitempty"`
	Emitters  []Emitter                     `yaml:"emitters,omitempty" json:"emitters,omitempty"`
	Decals    []Decal                       `yaml:"decals,omitempty" json:"decals,omitempty"`
	Materials map[string]map[string]float64 `yaml:"materials,omitempty" json:"materials,omitempty"`
	Voices    []Voice                       `yaml:"voices,omitempty" json:"voices,omitempty"`
}

// Vec is a position in normalized cube space (0..1 on each axis).
type Vec struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

type Light struct {
	Name      string  `yaml:"name" json:"name" jsonschema:"required"`
	Pos       Vec     `yaml:"pos" json:"pos"`
	Color     string  `yaml:"color" json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Intensity float64 `yaml:"intensity" json:"intensity,omitempty"`
	Radius    float64 `yaml:"radius" json:"radius,omitempty"`
}

type Emitter struct {
	Name   string  `yaml:"name" json:"name" jsonschema:"required"`
	Pos    Vec     `yaml:"pos" json:"pos"`
	Color  string  `yaml:"color" json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Size   float64 `yaml:"size" json:"size,omitempty"`
	Speed  float64 `yaml:"speed" json:"speed,omitempty"`
	Radius float64 `yaml:"radius" json:"radius,omitempty"`
	// Material names a stage material whose Emission param scales output.
	Material string `yaml:"material,omitempty" json:"material,omitempty"`
}

type Decal struct {
	Name  string  `yaml:"name" json:"name" jsonschema:"required"`
	Pos   Vec     `yaml:"pos" json:"pos"`
	Color string  `yaml:"color" json:"color,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$"`
	Scale float64 `yaml:"scale" json:"scale,omitempty"`
	Runes int     `yaml:"runes" json:"runes,omitempty"`
}

type Voice struct {
	Name string  `yaml:"name" json:"name" jsonschema:"required"`
	Tone float64 `yaml:"tone_hz" json:"tone_hz,omitempty"`
}

// Spell describes one castable session.
type Spell struct {
	Name       string         `yaml:"name" json:"name" jsonschema:"required"`
	Trigger    string         `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	ClipLength float64        `yaml:"clip_length" json:"clip_length,omitempty"`
	Duration   float64        `yaml:"duration" json:"duration"`
	Fractions  cast.Fractions `yaml:"fractions" json:"fractions"`
	// Speed and Accel are scaled by clip_length/duration into the session
	// multiplier.
	Speed    float64   `yaml:"speed" json:"speed,omitempty"`
	Accel    float64   `yaml:"accel" json:"accel,omitempty"`
	Channels []Channel `yaml:"channels" json:"channels"`
}

// Acceleration returns the session multiplier settings for s.
func (s Spell) Acceleration() cast.Acceleration {
	if s.ClipLength <= 0 {
		return cast.Acceleration{Initial: s.Speed, Step: s.Accel}
	}
	return cast.ScaledAcceleration(s.Speed, s.Accel, s.ClipLength, s.Duration)
}

// Channel kinds.
const (
	KindParticle = "particle"
	KindLight    = "light"
	KindDecal    = "decal"
	KindPost     = "post"
	KindMaterial = "material"
	KindAudio    = "audio"
)

var Kinds = []string{KindParticle, KindLight, KindDecal, KindPost, KindMaterial, KindAudio}

// Channel configures one cast channel. Fields apply per kind.
type Channel struct {
	Kind   string `yaml:"kind" json:"kind" jsonschema:"required,enum=particle,enum=light,enum=decal,enum=post,enum=material,enum=audio"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Target string `yaml:"target" json:"target" jsonschema:"required"`

	Fade     Fade      `yaml:"fade,omitempty" json:"fade,omitempty"`
	Gradient *Gradient `yaml:"gradient,omitempty" json:"gradient,omitempty"`
	// Peak is the light intensity, decal scale or audio volume at full fade.
	Peak float64 `yaml:"peak,omitempty" json:"peak,omitempty"`

	EnablePhase string           `yaml:"enable_phase,omitempty" json:"enable_phase,omitempty" jsonschema:"enum=anticipation,enum=action,enum=recuperation"`
	Speed       []curve.Keyframe `yaml:"speed,omitempty" json:"speed,omitempty"`
	Size        *Size            `yaml:"size,omitempty" json:"size,omitempty"`

	Spin     float64 `yaml:"spin,omitempty" json:"spin,omitempty"`
	SpinFade Fade    `yaml:"spin_fade,omitempty" json:"spin_fade,omitempty"`

	SourceLength float64 `yaml:"source_length,omitempty" json:"source_length,omitempty"`

	Tracks []Track `yaml:"tracks,omitempty" json:"tracks,omitempty"`
}

// Label is the channel name used in logs and telemetry.
func (c Channel) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Kind + ":" + c.Target
}

// Fade is a serialized curve.FadePair.
type Fade struct {
	Mode curve.FadeMode   `yaml:"mode,omitempty" json:"mode,omitempty" jsonschema:"enum=mirror,enum=separate"`
	In   []curve.Keyframe `yaml:"in,omitempty" json:"in,omitempty"`
	Out  []curve.Keyframe `yaml:"out,omitempty" json:"out,omitempty"`
}

// Pair builds the curve pair. A missing In curve is a linear ramp.
func (f Fade) Pair() curve.FadePair {
	p := curve.FadePair{Mode: f.Mode, In: curve.Linear()}
	if p.Mode == "" {
		p.Mode = curve.FadeMirror
	}
	if len(f.In) > 0 {
		p.In = curve.NewEnvelope(f.In...)
	}
	if len(f.Out) > 0 {
		p.Out = curve.NewEnvelope(f.Out...)
	}
	return p
}

type Gradient struct {
	Times  []float64 `yaml:"times" json:"times"`
	Colors []string  `yaml:"colors" json:"colors"`
}

// Build parses the hex stops. A nil gradient is empty.
func (g *Gradient) Build() (curve.Gradient, error) {
	if g == nil {
		return curve.Gradient{}, nil
	}
	return curve.ParseGradient(g.Times, g.Colors)
}

type Size struct {
	Base  float64 `yaml:"base" json:"base"`
	Scale float64 `yaml:"scale" json:"scale"`
	Fade  Fade    `yaml:"fade,omitempty" json:"fade,omitempty"`
}

type Track struct {
	Name    string  `yaml:"name" json:"name" jsonschema:"required"`
	Base    float64 `yaml:"base" json:"base"`
	Range   float64 `yaml:"range" json:"range"`
	Fade    Fade    `yaml:"fade,omitempty" json:"fade,omitempty"`
	Drive   string  `yaml:"drive,omitempty" json:"drive,omitempty" jsonschema:"enum=phase,enum=half_action"`
	OutSpan float64 `yaml:"out_span,omitempty" json:"out_span,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes YAML config bytes.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
