// Package post selects the post-process chain for an output.
package post

import (
	"math"

	"github.com/coreman2200/funtimes-spellcast/internal/render"
)

// ApplyPreview does Bloom -> Exposure -> Tonemap(ACES) -> Gamma, no limiter.
func ApplyPreview(buf []render.Color, u *render.Uniforms) {
	render.FilmicToneMap(buf, u)
}

// ApplyLED does Bloom -> Exposure -> Limiter, no tonemap, no gamma (linear 0..1).
func ApplyLED(buf []render.Color, u *render.Uniforms) {
	render.Bloom(buf, u)
	if ev := u.Float("ExposureEV", 0); ev != 0 {
		scale := float32(math.Exp2(ev))
		for i := range buf {
			buf[i].R *= scale
			buf[i].G *= scale
			buf[i].B *= scale
		}
	}
	render.DefaultLimiter(buf, u)
	clamp01(buf)
}

// ForDriver returns the pipeline for a driver kind. Physical strips get the
// linear LED chain; everything else is previewed.
func ForDriver(kind string) render.PostPipeline {
	if kind == "nrz" {
		return render.PostPipeline{
			ToneMap:  ApplyLED,
			Vignette: render.Vignette,
		}
	}
	return render.PostPipeline{
		ToneMap:  ApplyPreview,
		Vignette: render.Vignette,
	}
}

func clamp01(buf []render.Color) {
	for i := range buf {
		buf[i].R = clampf(buf[i].R)
		buf[i].G = clampf(buf[i].G)
		buf[i].B = clampf(buf[i].B)
	}
}

func clampf(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
