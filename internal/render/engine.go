package render

import (
	"errors"
	"time"
)

// Driver abstracts the LED transport (SPI, etc.).
type Driver interface {
	Write([]Color) error
}

// Engine renders the scene, blends it with the previous frame for motion
// blur, applies post-processing, then writes to the driver.
type Engine struct {
	Dim   Dimensions
	LUT   []Vec3
	Drv   Driver
	Scene Renderer
	// U is the post-process profile. Cast channels animate its params.
	U *Uniforms

	// framebuffers
	cur   []Color // scene output
	accum []Color // motion-blur history
	Out   []Color // blended + post

	frames uint64
	t0     time.Time

	post PostPipeline

	// metrics (last durations in ms)
	Last struct {
		RenderMS float64
		PostMS   float64
		TotalMS  float64
	}
}

// PostPipeline groups post stages; all are optional.
type PostPipeline struct {
	ToneMap  func([]Color, *Uniforms)
	Vignette func([]Color, []Vec3, *Uniforms)
	Limiter  func([]Color, *Uniforms)
}

// maxMotionBlur keeps some of every new frame in the output.
const maxMotionBlur = 0.95

// NewEngine allocates buffers and returns an Engine with the filmic post wired.
func NewEngine(dim Dimensions, lut []Vec3, drv Driver, scene Renderer, u *Uniforms) (*Engine, error) {
	n := dim.Count()
	if n == 0 {
		return nil, errors.New("invalid dimensions")
	}
	if len(lut) != n {
		return nil, errors.New("lut does not match dimensions")
	}
	if u == nil {
		u = NewUniforms(nil)
	}
	e := &Engine{
		Dim:   dim,
		LUT:   lut,
		Drv:   drv,
		Scene: scene,
		U:     u,
		cur:   make([]Color, n),
		accum: make([]Color, n),
		Out:   make([]Color, n),
		t0:    time.Now(),
	}
	e.UseFilmicPost()
	return e, nil
}

// Now returns seconds since engine start, scaled by the TimeScale param.
func (e *Engine) Now() float64 {
	return time.Since(e.t0).Seconds() * e.U.Float("TimeScale", 1)
}

// RenderOnce renders a single frame at absolute time t (seconds).
// If t < 0, it uses Engine.Now().
func (e *Engine) RenderOnce(t float64) error {
	if t < 0 {
		t = e.Now()
	}
	start := time.Now()

	if e.Scene != nil {
		e.Scene.Render(e.cur, e.LUT, e.Dim, t)
	}

	blur := e.U.Float("MotionBlur", 0)
	if blur > maxMotionBlur {
		blur = maxMotionBlur
	}
	if e.frames == 0 {
		blur = 0
	}
	Mix(e.accum, e.cur, e.accum, blur)
	copy(e.Out, e.accum)
	e.frames++

	// Post
	postStart := time.Now()
	if b := float32(e.U.Brightness); b != 1 {
		applyGlobalScale(e.Out, b)
	}
	if e.post.ToneMap != nil {
		e.post.ToneMap(e.Out, e.U)
	}
	if e.post.Vignette != nil {
		e.post.Vignette(e.Out, e.LUT, e.U)
	}
	if e.post.Limiter != nil {
		e.post.Limiter(e.Out, e.U)
	}
	e.Last.PostMS = float64(time.Since(postStart).Microseconds()) / 1000.0

	if e.Drv != nil {
		if err := e.Drv.Write(e.Out); err != nil {
			return err
		}
	}

	e.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0
	e.Last.TotalMS = e.Last.RenderMS
	return nil
}

// Frames is the number of frames rendered so far.
func (e *Engine) Frames() uint64 { return e.frames }

func (e *Engine) UseFilmicPost() {
	e.SetPost(PostPipeline{
		ToneMap:  FilmicToneMap,
		Vignette: Vignette,
		Limiter:  DefaultLimiter,
	})
}

func (e *Engine) SetPost(p PostPipeline) { e.post = p }
