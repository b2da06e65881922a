package curve

// FadeMode selects how a fade-out is derived from a FadePair.
type FadeMode string

const (
	// FadeMirror evaluates the fade-in curve at 1-p.
	FadeMirror FadeMode = "mirror"
	// FadeSeparate evaluates a separately authored fade-out curve at p.
	FadeSeparate FadeMode = "separate"
)

// FadePair holds one curve family. A channel applies a single FadePair per
// output so fade-in and fade-out always follow the same convention.
type FadePair struct {
	In   Curve
	Out  Curve
	Mode FadeMode
}

// FadeIn evaluates the fade-in curve at p.
func (f FadePair) FadeIn(p float64) float64 {
	if f.In == nil {
		return 0
	}
	return f.In.Eval(p)
}

// FadeOut evaluates the fade-out side at p. Separate mode without an Out
// curve falls back to mirroring.
func (f FadePair) FadeOut(p float64) float64 {
	if f.Mode == FadeSeparate && f.Out != nil {
		return f.Out.Eval(p)
	}
	return f.FadeIn(1 - p)
}
