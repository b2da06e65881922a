package curve

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEval(t *testing.T) {
	env := NewEnvelope(
		Keyframe{T: 1, V: 10, Ease: "linear"},
		Keyframe{T: 0, V: 0, Ease: "linear"},
	)
	cases := []struct {
		x, want float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.1, 10},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, env.Eval(c.x), 1e-12, "x=%v", c.x)
	}
}

func TestEnvelopeDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Envelope{}.Eval(0.3))
	assert.Equal(t, 4.0, NewEnvelope(Keyframe{T: 0.2, V: 4}).Eval(0.9))
}

func TestEnvelopeEasing(t *testing.T) {
	smooth := NewEnvelope(Keyframe{T: 0, V: 0, Ease: "smooth"}, Keyframe{T: 1, V: 1})
	cubic := NewEnvelope(Keyframe{T: 0, V: 0, Ease: "cubic"}, Keyframe{T: 1, V: 1})

	assert.InDelta(t, 0.5, smooth.Eval(0.5), 1e-12)
	assert.InDelta(t, 0.5, cubic.Eval(0.5), 1e-12)
	assert.Less(t, smooth.Eval(0.25), 0.25)
	assert.Less(t, cubic.Eval(0.25), smooth.Eval(0.25))
}

func TestFadePairConventions(t *testing.T) {
	in := NewEnvelope(Keyframe{T: 0, V: 0}, Keyframe{T: 1, V: 1})
	out := NewEnvelope(Keyframe{T: 0, V: 0.5}, Keyframe{T: 1, V: 0})

	mirror := FadePair{In: in, Mode: FadeMirror}
	assert.InDelta(t, 0.25, mirror.FadeIn(0.25), 1e-12)
	assert.InDelta(t, 0.75, mirror.FadeOut(0.25), 1e-12)

	separate := FadePair{In: in, Out: out, Mode: FadeSeparate}
	assert.InDelta(t, 0.375, separate.FadeOut(0.25), 1e-12)

	// separate without an out curve mirrors
	fallback := FadePair{In: in, Mode: FadeSeparate}
	assert.InDelta(t, 0.75, fallback.FadeOut(0.25), 1e-12)

	assert.Equal(t, 0.0, FadePair{}.FadeOut(0.5))
}

func TestGradient(t *testing.T) {
	g, err := ParseGradient([]float64{1, 0}, []string{"#0000ff", "#ff0000"})
	require.NoError(t, err)

	assertColor(t, colorful.Color{R: 1}, g.First())
	assertColor(t, colorful.Color{R: 1}, g.Eval(-1))
	assertColor(t, colorful.Color{B: 1}, g.Eval(2))

	mid := g.Eval(0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.InDelta(t, 0.5, mid.B, 1e-9)

	_, err = ParseGradient([]float64{0}, []string{"nope"})
	assert.Error(t, err)
	_, err = ParseGradient([]float64{0, 1}, []string{"#000000"})
	assert.Error(t, err)
}

func assertColor(t *testing.T, want, got colorful.Color) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1e-9)
	assert.InDelta(t, want.G, got.G, 1e-9)
	assert.InDelta(t, want.B, got.B, 1e-9)
}
