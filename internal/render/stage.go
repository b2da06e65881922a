package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Light is a point light with a quadratic falloff to zero at Radius.
type Light struct {
	Pos    Vec3
	Radius float64

	intensity float64
	color     colorful.Color
}

func NewLight(pos Vec3, c colorful.Color, intensity, radius float64) *Light {
	if radius <= 0 {
		radius = 0.5
	}
	return &Light{Pos: pos, Radius: radius, intensity: intensity, color: c}
}

func (l *Light) Intensity() float64        { return l.intensity }
func (l *Light) SetIntensity(v float64)    { l.intensity = v }
func (l *Light) Color() colorful.Color     { return l.color }
func (l *Light) SetColor(c colorful.Color) { l.color = c }

func (l *Light) shade(dst []Color, lut []Vec3) {
	if l.intensity <= 0 {
		return
	}
	c := FromColorful(l.color)
	for i := range dst {
		f := 1 - lut[i].Sub(l.Pos).Len()/l.Radius
		if f <= 0 {
			continue
		}
		dst[i].AddScaled(c, float32(f*f*l.intensity))
	}
}

// Emitter is a sparkle cloud. Its simulation clock runs at Speed while
// enabled; StartSize scales the cloud radius.
type Emitter struct {
	Pos    Vec3
	Radius float64
	// Material, when set, scales output by its "Emission" param.
	Material *Uniforms

	enabled bool
	speed   float64
	color   colorful.Color
	size    float64
	clock   float64
}

func NewEmitter(pos Vec3, c colorful.Color, size, speed, radius float64) *Emitter {
	if radius <= 0 {
		radius = 0.3
	}
	return &Emitter{Pos: pos, Radius: radius, color: c, size: size, speed: speed}
}

func (e *Emitter) Enabled() bool                  { return e.enabled }
func (e *Emitter) SetEnabled(on bool)             { e.enabled = on }
func (e *Emitter) Speed() float64                 { return e.speed }
func (e *Emitter) SetSpeed(v float64)             { e.speed = v }
func (e *Emitter) StartColor() colorful.Color     { return e.color }
func (e *Emitter) SetStartColor(c colorful.Color) { e.color = c }
func (e *Emitter) StartSize() float64             { return e.size }
func (e *Emitter) SetStartSize(v float64)         { e.size = v }

func (e *Emitter) advance(dt float64) {
	if e.enabled {
		e.clock += dt * e.speed
	}
}

func (e *Emitter) shade(dst []Color, lut []Vec3) {
	if !e.enabled || e.size <= 0 {
		return
	}
	r := e.Radius * e.size
	gain := 1.0
	if e.Material != nil {
		gain = e.Material.Float("Emission", 1)
	}
	c := FromColorful(e.color)
	for i := range dst {
		d := lut[i].Sub(e.Pos).Len() / r
		if d > 2 {
			continue
		}
		// golden-angle offsets keep neighbours out of step
		tw := 0.5 + 0.5*math.Sin(e.clock*6+float64(i)*2.39996)
		dst[i].AddScaled(c, float32(math.Exp(-d*d)*tw*tw*gain))
	}
}

// Decal is a rune ring on the floor of the cube.
type Decal struct {
	Pos   Vec3
	Runes int

	scale    float64
	rotation float64
	color    colorful.Color
}

// decalHeight is the normalized height below which LEDs count as floor.
const decalHeight = 0.15

func NewDecal(pos Vec3, c colorful.Color, scale float64, runes int) *Decal {
	if runes <= 0 {
		runes = 6
	}
	return &Decal{Pos: pos, Runes: runes, scale: scale, color: c}
}

func (d *Decal) Scale() float64          { return d.scale }
func (d *Decal) SetScale(v float64)      { d.scale = v }
func (d *Decal) Rotation() float64       { return d.rotation }
func (d *Decal) SetRotation(rad float64) { d.rotation = rad }

func (d *Decal) shade(dst []Color, lut []Vec3) {
	if d.scale <= 0 {
		return
	}
	radius := 0.5 * d.scale
	const width = 0.08
	c := FromColorful(d.color)
	for i := range dst {
		p := lut[i]
		if p.Y > decalHeight {
			continue
		}
		dx, dz := p.X-d.Pos.X, p.Z-d.Pos.Z
		ring := 1 - math.Abs(math.Hypot(dx, dz)-radius)/width
		if ring <= 0 {
			continue
		}
		runes := 0.6 + 0.4*math.Cos(float64(d.Runes)*(math.Atan2(dz, dx)-d.rotation))
		floor := 1 - p.Y/decalHeight
		dst[i].AddScaled(c, float32(ring*runes*floor))
	}
}

// Stage owns the fixtures the cast channels drive and renders them over the
// LED lattice.
type Stage struct {
	// Post is the post-process profile read by the engine.
	Post *Uniforms

	lights    map[string]*Light
	emitters  map[string]*Emitter
	decals    map[string]*Decal
	materials map[string]*Uniforms
	order     []string

	last    float64
	started bool
}

func NewStage(post *Uniforms) *Stage {
	if post == nil {
		post = NewUniforms(nil)
	}
	return &Stage{
		Post:      post,
		lights:    map[string]*Light{},
		emitters:  map[string]*Emitter{},
		decals:    map[string]*Decal{},
		materials: map[string]*Uniforms{},
	}
}

func (s *Stage) Name() string { return "stage" }

func (s *Stage) AddLight(name string, l *Light) {
	s.track(name)
	s.lights[name] = l
}

func (s *Stage) AddEmitter(name string, e *Emitter) {
	s.track(name)
	s.emitters[name] = e
}

func (s *Stage) AddDecal(name string, d *Decal) {
	s.track(name)
	s.decals[name] = d
}

func (s *Stage) AddMaterial(name string, u *Uniforms) { s.materials[name] = u }

func (s *Stage) Light(name string) (*Light, bool) {
	l, ok := s.lights[name]
	return l, ok
}

func (s *Stage) Emitter(name string) (*Emitter, bool) {
	e, ok := s.emitters[name]
	return e, ok
}

func (s *Stage) Decal(name string) (*Decal, bool) {
	d, ok := s.decals[name]
	return d, ok
}

// Params resolves "post" to the post profile and anything else to a material.
func (s *Stage) Params(name string) (*Uniforms, bool) {
	if name == "post" {
		return s.Post, true
	}
	u, ok := s.materials[name]
	return u, ok
}

// Render clears dst and accumulates every fixture. Emitter clocks advance by
// the time since the previous call.
func (s *Stage) Render(dst []Color, lut []Vec3, dim Dimensions, t float64) {
	dt := 0.0
	if s.started && t > s.last {
		dt = t - s.last
	}
	s.last, s.started = t, true

	for i := range dst {
		dst[i] = Color{}
	}
	for _, n := range s.order {
		if l, ok := s.lights[n]; ok {
			l.shade(dst, lut)
		}
		if d, ok := s.decals[n]; ok {
			d.shade(dst, lut)
		}
		if e, ok := s.emitters[n]; ok {
			e.advance(dt)
			e.shade(dst, lut)
		}
	}
}

func (s *Stage) track(name string) {
	if _, ok := s.lights[name]; ok {
		return
	}
	if _, ok := s.emitters[name]; ok {
		return
	}
	if _, ok := s.decals[name]; ok {
		return
	}
	s.order = append(s.order, name)
}
