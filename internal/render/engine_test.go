package render

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solid writes a constant color for testing.
type solid struct {
	c Color
}

func (s *solid) Name() string { return "solid" }
func (s *solid) Render(dst []Color, lut []Vec3, dim Dimensions, t float64) {
	for i := range dst {
		dst[i] = s.c
	}
}

// fakeDriver captures the last frame written.
type fakeDriver struct {
	last   []Color
	writes int
}

func (d *fakeDriver) Write(buf []Color) error {
	d.last = append(d.last[:0], buf...)
	d.writes++
	return nil
}

func TestMixAlpha(t *testing.T) {
	n := 10
	a := make([]Color, n)
	b := make([]Color, n)
	dst := make([]Color, n)
	for i := 0; i < n; i++ {
		a[i] = Color{1, 0, 0} // red
		b[i] = Color{0, 0, 1} // blue
	}
	Mix(dst, a, b, 0.5)
	assert.InDelta(t, 0.5, dst[0].R, 0.01)
	assert.InDelta(t, 0.5, dst[0].B, 0.01)

	// in place into b
	Mix(b, a, b, 0.25)
	assert.InDelta(t, 0.75, b[3].R, 1e-6)
	assert.InDelta(t, 0.25, b[3].B, 1e-6)
}

func TestEngineMotionBlur(t *testing.T) {
	dim := Dimensions{X: 1, Y: 1, Z: 1}
	lut := []Vec3{{0.5, 0.5, 0.5}}
	drv := &fakeDriver{}
	scene := &solid{c: Color{1, 0, 0}}

	e, err := NewEngine(dim, lut, drv, scene, NewUniforms(map[string]float64{"MotionBlur": 0.5}))
	require.NoError(t, err)
	// Disable tone mapping for deterministic tests.
	e.SetPost(PostPipeline{})

	require.NoError(t, e.RenderOnce(0))
	assert.InDelta(t, 1, drv.last[0].R, 1e-6, "first frame is never blended")

	scene.c = Color{0, 0, 1}
	require.NoError(t, e.RenderOnce(0.1))
	assert.InDelta(t, 0.5, drv.last[0].R, 1e-6)
	assert.InDelta(t, 0.5, drv.last[0].B, 1e-6)

	e.U.SetParam("MotionBlur", 0)
	require.NoError(t, e.RenderOnce(0.2))
	assert.InDelta(t, 0, drv.last[0].R, 1e-6)
	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, 3, drv.writes)
}

func TestEngineRejectsBadGeometry(t *testing.T) {
	_, err := NewEngine(Dimensions{}, nil, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewEngine(Dimensions{X: 2, Y: 1, Z: 1}, []Vec3{{}}, nil, nil, nil)
	assert.Error(t, err)
}

func TestEngineBrightness(t *testing.T) {
	drv := &fakeDriver{}
	e, err := NewEngine(Dimensions{X: 1, Y: 1, Z: 1}, []Vec3{{}}, drv, &solid{c: Color{1, 1, 1}}, nil)
	require.NoError(t, err)
	e.SetPost(PostPipeline{})
	e.U.Brightness = 0.25
	require.NoError(t, e.RenderOnce(0))
	assert.InDelta(t, 0.25, drv.last[0].G, 1e-6)
}

func TestStageRendersFixtures(t *testing.T) {
	dim := Dimensions{X: 3, Y: 1, Z: 1}
	lut := []Vec3{{0, 0, 0}, {0.5, 0.5, 0.5}, {1, 1, 1}}
	s := NewStage(nil)

	l := NewLight(Vec3{0.5, 0.5, 0.5}, colorful.Color{R: 1}, 0, 0.4)
	s.AddLight("glow", l)
	dst := make([]Color, 3)

	s.Render(dst, lut, dim, 0)
	assert.Equal(t, Color{}, dst[1], "zero intensity light is dark")

	l.SetIntensity(2)
	s.Render(dst, lut, dim, 0.1)
	assert.InDelta(t, 2, dst[1].R, 1e-6)
	assert.Equal(t, Color{}, dst[0], "outside radius")

	em := NewEmitter(Vec3{0.5, 0.5, 0.5}, colorful.Color{G: 1}, 1, 1, 0.3)
	s.AddEmitter("sparks", em)
	s.Render(dst, lut, dim, 0.2)
	assert.Equal(t, float32(0), dst[1].G, "disabled emitter")

	em.SetEnabled(true)
	s.Render(dst, lut, dim, 0.3)
	s.Render(dst, lut, dim, 0.4)
	assert.InDelta(t, 0.2, em.clock, 1e-9)
}

func TestStageParams(t *testing.T) {
	post := NewUniforms(map[string]float64{"Vignette": 0.2})
	s := NewStage(post)
	s.AddMaterial("skin", NewUniforms(nil))

	p, ok := s.Params("post")
	require.True(t, ok)
	assert.Same(t, post, p)
	_, ok = s.Params("skin")
	assert.True(t, ok)
	_, ok = s.Params("cloak")
	assert.False(t, ok)
}

func TestDecalRingOnFloor(t *testing.T) {
	d := NewDecal(Vec3{0.5, 0, 0.5}, colorful.Color{B: 1}, 1, 4)
	lut := []Vec3{{1, 0, 0.5}, {1, 0.5, 0.5}, {0.5, 0, 0.5}}
	dst := make([]Color, 3)
	d.shade(dst, lut)
	assert.Greater(t, dst[0].B, float32(0), "on the ring")
	assert.Equal(t, float32(0), dst[1].B, "above the floor")
	assert.Equal(t, float32(0), dst[2].B, "ring centre")
}

func TestVignetteAndBloom(t *testing.T) {
	u := NewUniforms(map[string]float64{"Vignette": 1, "BloomIntensity": 1, "BloomThreshold": 0.5})
	buf := []Color{{1, 1, 1}, {1, 1, 1}}
	Vignette(buf, []Vec3{{0.5, 0.5, 0.5}, {0, 0, 0}}, u)
	assert.Equal(t, Color{1, 1, 1}, buf[0])
	assert.Equal(t, Color{}, buf[1])

	buf = []Color{{1, 1, 1}, {0.2, 0.2, 0.2}}
	Bloom(buf, u)
	assert.InDelta(t, 1.5, buf[0].R, 1e-5)
	assert.Equal(t, float32(0.2), buf[1].R)
}
