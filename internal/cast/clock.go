package cast

// Acceleration configures the session-local accelerating multiplier.
type Acceleration struct {
	Initial float64 `json:"initial" yaml:"initial"`
	Step    float64 `json:"step" yaml:"step"`
}

// ScaledAcceleration scales a base speed and per-tick acceleration by how much
// the source clip is stretched to fit duration.
func ScaledAcceleration(speed, accel, clipLength, duration float64) Acceleration {
	k := clipLength / ClampDuration(duration)
	return Acceleration{Initial: speed * k, Step: accel * k}
}

// Clock accumulates elapsed time for one session.
type Clock struct {
	global     float64
	elapsed    [Recuperation + 1]float64
	multiplier float64
	acc        Acceleration
}

// NewClock returns a zeroed clock whose multiplier starts at acc.Initial.
func NewClock(acc Acceleration) Clock {
	return Clock{acc: acc, multiplier: acc.Initial}
}

// Advance adds dt to the global and phase counters. The multiplier rises by
// one step per tick during anticipation and action and holds during
// recuperation.
func (c *Clock) Advance(p Phase, dt float64) {
	c.global += dt
	if p > Idle && p <= Recuperation {
		c.elapsed[p] += dt
	}
	if p == Anticipation || p == Action {
		c.multiplier += c.acc.Step
	}
}

// Reset zeroes all counters and restores the initial multiplier.
func (c *Clock) Reset() {
	*c = NewClock(c.acc)
}

func (c Clock) Global() float64 { return c.global }

// Elapsed returns the time spent in phase p during the current cast.
func (c Clock) Elapsed(p Phase) float64 {
	if p <= Idle || p > Recuperation {
		return 0
	}
	return c.elapsed[p]
}

func (c Clock) Multiplier() float64 { return c.multiplier }

func (c Clock) Acceleration() Acceleration { return c.acc }
