package cast

import (
	"fmt"
	"math"
)

// MinDuration is the smallest total duration a cast may have. Non-positive
// durations are clamped to it before any division.
const MinDuration = 1e-3

// fractionTolerance bounds the rounding slack accepted in Fractions.Validate.
const fractionTolerance = 1e-6

// Fractions are the share of the total duration given to each phase.
type Fractions struct {
	Anticipation float64 `json:"anticipation" yaml:"anticipation"`
	Action       float64 `json:"action" yaml:"action"`
	Recuperation float64 `json:"recuperation" yaml:"recuperation"`
}

// DefaultFractions is the 20/25/55 split used by the stock spells.
var DefaultFractions = Fractions{Anticipation: 0.2, Action: 0.25, Recuperation: 0.55}

// Sum returns the total of the three fractions.
func (f Fractions) Sum() float64 { return f.Anticipation + f.Action + f.Recuperation }

// Validate reports fractions that do not add up to 1. It is a configuration
// warning: timings are still derived from the given values.
func (f Fractions) Validate() error {
	if math.Abs(f.Sum()-1) > fractionTolerance {
		return fmt.Errorf("%w: got %.6f", ErrFractionSum, f.Sum())
	}
	return nil
}

// PhaseTiming holds phase lengths and cumulative boundaries derived from a
// total duration. It is immutable while a cast runs.
type PhaseTiming struct {
	Fractions Fractions
	Duration  float64

	AnticipationLength float64
	ActionLength       float64
	RecuperationLength float64

	BoundaryAction    float64 // end of action
	BoundaryActionMid float64 // middle of action
	BoundaryEnd       float64 // end of recuperation
}

// ClampDuration returns d, or MinDuration when d is not a positive number.
func ClampDuration(d float64) float64 {
	if !(d > MinDuration) {
		return MinDuration
	}
	return d
}

// NewPhaseTiming derives lengths from fractions and a total duration.
func NewPhaseTiming(f Fractions, duration float64) PhaseTiming {
	t := PhaseTiming{Fractions: f, Duration: duration}
	t.Recompute()
	return t
}

// Recompute refreshes the derived lengths after Duration or Fractions change.
func (t *PhaseTiming) Recompute() {
	t.Duration = ClampDuration(t.Duration)

	t.AnticipationLength = t.Duration * t.Fractions.Anticipation
	t.ActionLength = t.Duration * t.Fractions.Action
	t.RecuperationLength = t.Duration * t.Fractions.Recuperation

	t.BoundaryAction = t.AnticipationLength + t.ActionLength
	t.BoundaryActionMid = t.AnticipationLength + t.ActionLength/2
	t.BoundaryEnd = t.BoundaryAction + t.RecuperationLength
}

// Length returns the length of phase p (0 for Idle).
func (t PhaseTiming) Length(p Phase) float64 {
	switch p {
	case Anticipation:
		return t.AnticipationLength
	case Action:
		return t.ActionLength
	case Recuperation:
		return t.RecuperationLength
	default:
		return 0
	}
}
