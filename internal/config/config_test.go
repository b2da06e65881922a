package config

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
	"github.com/coreman2200/funtimes-spellcast/internal/curve"
)

const sample = `
driver: sim
fps: 30
dim: { x: 2, y: 3, z: 4 }
stage:
  lights:
    - { name: hand, color: "#ff0000", intensity: 0 }
spells:
  - name: spell1
    clip_length: 2.267
    duration: 2.25
    fractions: { anticipation: 0.2, action: 0.25, recuperation: 0.55 }
    speed: 1
    accel: 0.5
    channels:
      - kind: light
        target: hand
        peak: 2
        fade:
          mode: separate
          in: [{ t: 0, v: 0 }, { t: 1, v: 1 }]
          out: [{ t: 0, v: 1 }, { t: 1, v: 0 }]
        gradient: { times: [0, 1], colors: ["#ff0000", "#0000ff"] }
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, Dim{X: 2, Y: 3, Z: 4}, c.Dim)
	require.Len(t, c.Spells, 1)
	s := c.Spells[0]
	assert.Equal(t, cast.Fractions{Anticipation: 0.2, Action: 0.25, Recuperation: 0.55}, s.Fractions)
	require.Len(t, s.Channels, 1)
	ch := s.Channels[0]
	assert.Equal(t, "light:hand", ch.Label())
	assert.Equal(t, curve.FadeSeparate, ch.Fade.Mode)
	assert.Len(t, ch.Fade.Out, 2)
	assert.Empty(t, c.Validate())
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("spells: {"))
	assert.Error(t, err)
}

func TestSpellAcceleration(t *testing.T) {
	s := Spell{ClipLength: 2.267, Duration: 2.25, Speed: 1, Accel: 0.5}
	acc := s.Acceleration()
	assert.InDelta(t, 2.267/2.25, acc.Initial, 1e-12)
	assert.InDelta(t, 0.5*2.267/2.25, acc.Step, 1e-12)

	s.ClipLength = 0
	assert.Equal(t, cast.Acceleration{Initial: 1, Step: 0.5}, s.Acceleration())
}

func TestFadePairDefaults(t *testing.T) {
	p := Fade{}.Pair()
	assert.Equal(t, curve.FadeMirror, p.Mode)
	assert.InDelta(t, 0.25, p.FadeIn(0.25), 1e-12)
	assert.InDelta(t, 0.75, p.FadeOut(0.25), 1e-12)

	p = Fade{Mode: curve.FadeSeparate, Out: []curve.Keyframe{{T: 0, V: 0.5}, {T: 1, V: 0.5}}}.Pair()
	assert.InDelta(t, 0.5, p.FadeOut(0.9), 1e-12)
}

func TestValidate(t *testing.T) {
	c := &Config{Spells: []Spell{
		{Name: "a", Duration: 1, Fractions: cast.Fractions{Anticipation: 0.5, Action: 0.5, Recuperation: 0.5}},
		{Name: "a", Duration: 0, Fractions: cast.DefaultFractions},
		{Duration: 1},
		{Name: "b", Duration: 1, Fractions: cast.DefaultFractions, Channels: []Channel{
			{Kind: "hologram", Target: "x"},
			{Kind: KindLight},
			{Kind: KindLight, Target: "l", Gradient: &Gradient{Times: []float64{0}, Colors: []string{"nope"}}},
			{Kind: KindParticle, Target: "p", EnablePhase: "idle"},
			{Kind: KindDecal, Target: "d", Fade: Fade{Mode: curve.FadeSeparate}},
		}},
	}}

	codes := map[string]int{}
	for _, d := range c.Validate() {
		codes[d.Code]++
	}
	assert.Equal(t, map[string]int{
		"FRACTION_SUM":     1,
		"SPELL_DUPLICATE":  1,
		"DURATION_CLAMPED": 1,
		"SPELL_NO_NAME":    1,
		"CHANNEL_KIND":     1,
		"CHANNEL_TARGET":   1,
		"GRADIENT":         1,
		"ENABLE_PHASE":     1,
		"FADE_NO_OUT":      1,
	}, codes)
	assert.True(t, HasErrors(c.Validate()))
}

func TestSaveLoad(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, c))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Spells[0].Channels[0].Peak, got.Spells[0].Channels[0].Peak)
	assert.Equal(t, c.Spells[0].Fractions, got.Spells[0].Fractions)
}

func TestLoadExampleConfig(t *testing.T) {
	c, err := Load("../../configs/spellcast.yaml")
	require.NoError(t, err)
	assert.Empty(t, c.Validate())
	assert.Len(t, c.Spells, 2)
}

func TestSchema(t *testing.T) {
	b, err := SchemaJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "spellcast config", doc["title"])
	assert.Contains(t, string(b), `"fractions"`)
	assert.Contains(t, string(b), `"half_action"`)
}
