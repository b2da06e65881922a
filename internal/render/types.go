package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Len() float64    { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Color is linear RGB, nominally 0..1 per channel before post.
type Color struct{ R, G, B float32 }

// FromColorful converts a gradient colour to a framebuffer colour.
func FromColorful(c colorful.Color) Color {
	return Color{float32(c.R), float32(c.G), float32(c.B)}
}

// AddScaled accumulates o*k into c.
func (c *Color) AddScaled(o Color, k float32) {
	c.R += o.R * k
	c.G += o.G * k
	c.B += o.B * k
}

func (c Color) luma() float32 { return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B }

type Dimensions struct{ X, Y, Z int }

func (d Dimensions) Count() int { return d.X * d.Y * d.Z }

// Uniforms is a named parameter bag shared between the post pipeline,
// materials and the cast channels that animate them.
type Uniforms struct {
	Brightness float64
	Params     map[string]float64
	Bools      map[string]bool
}

// NewUniforms copies params into a fresh bag at full brightness.
func NewUniforms(params map[string]float64) *Uniforms {
	u := &Uniforms{Brightness: 1, Params: map[string]float64{}, Bools: map[string]bool{}}
	for k, v := range params {
		u.Params[k] = v
	}
	return u
}

func (u *Uniforms) Param(name string) (float64, bool) {
	if u == nil || u.Params == nil {
		return 0, false
	}
	v, ok := u.Params[name]
	return v, ok
}

func (u *Uniforms) SetParam(name string, v float64) {
	if u.Params == nil {
		u.Params = map[string]float64{}
	}
	u.Params[name] = v
}

// DeleteParam unsets name so readers fall back to their defaults.
func (u *Uniforms) DeleteParam(name string) {
	delete(u.Params, name)
}

// Float returns the named param or def when it is unset.
func (u *Uniforms) Float(name string, def float64) float64 {
	if v, ok := u.Param(name); ok {
		return v
	}
	return def
}

// Snapshot copies the params for telemetry.
func (u *Uniforms) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(u.Params))
	for k, v := range u.Params {
		out[k] = v
	}
	return out
}

// Renderer draws a frame at absolute time t (seconds) into dst, using lut for
// the normalized position of every LED index.
type Renderer interface {
	Name() string
	Render(dst []Color, lut []Vec3, dim Dimensions, t float64)
}
