package curve

import "sort"

// Curve maps a normalized input (usually 0..1) to a value.
type Curve interface {
	Eval(x float64) float64
}

// Keyframe represents a value at position T with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	T    float64 `json:"t" yaml:"t"`
	V    float64 `json:"v" yaml:"v"`
	Ease string  `json:"ease,omitempty" yaml:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes; Eval(x) interpolates a value.
type Envelope struct {
	Keys []Keyframe
}

// NewEnvelope copies and sorts keys by T.
func NewEnvelope(keys ...Keyframe) Envelope {
	k := append([]Keyframe(nil), keys...)
	sort.SliceStable(k, func(i, j int) bool { return k[i].T < k[j].T })
	return Envelope{Keys: k}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep (cubic-ish) for ease="cubic"
func smootherstep(x float64) float64 {
	// 6x^5 - 15x^4 + 10x^3
	return x * x * x * (x*(x*6-15) + 10)
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		// classic smoothstep 3x^2 - 2x^3
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	default:
		return x
	}
}

// Eval returns the value of the envelope at x.
// If there are no keys, returns 0; if one key, returns its value.
// Inputs outside the key range hold the end values.
func (e Envelope) Eval(x float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return e.Keys[0].V
	}
	if x <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if x >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	// first key strictly after x
	i := sort.Search(n, func(i int) bool { return e.Keys[i].T > x })
	a, b := e.Keys[i-1], e.Keys[i]
	den := b.T - a.T
	if den <= 0 {
		return b.V
	}
	u := easeApply(a.Ease, clamp01((x-a.T)/den))
	return a.V + (b.V-a.V)*u
}

// Constant is a flat curve.
type Constant float64

func (c Constant) Eval(float64) float64 { return float64(c) }

// Linear returns the identity ramp 0→1.
func Linear() Envelope {
	return NewEnvelope(Keyframe{T: 0, V: 0}, Keyframe{T: 1, V: 1})
}
