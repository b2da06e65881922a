package cast

// Frame is what a channel receives on every tick of an active cast.
type Frame struct {
	Phase Phase
	// Progress is the phase's elapsed time over its length. It may exceed 1
	// on the tick that crosses the phase boundary.
	Progress float64
	// HalfAction is global elapsed time over the middle of the action phase.
	HalfAction float64
	// Elapsed is the time spent in Phase so far.
	Elapsed    float64
	Global     float64
	Delta      float64
	Multiplier float64
	Timing     PhaseTiming
}

// Channel adapts phase progress to one output subsystem. Channels are shared
// by sessions, never owned; they only touch their own state and backend.
type Channel interface {
	Name() string
	// CaptureBaseline snapshots the backend values restored by OnSessionEnd.
	// It is called once, before any cast.
	CaptureBaseline() error
	OnSessionStart(t PhaseTiming) error
	OnTick(f Frame) error
	// OnSessionEnd restores the captured baseline exactly. It must be
	// idempotent.
	OnSessionEnd() error
}

// Animator is the animation playback backend.
type Animator interface {
	SetTrigger(name string)
	SetSpeed(speed float64)
}

// Observer receives session events. Both methods are called synchronously
// from ExecuteSpell, Tick or End.
type Observer interface {
	PhaseChanged(spell string, generation uint64, from, to Phase)
	ChannelFailed(spell, channel string, err error)
}

type nopObserver struct{}

func (nopObserver) PhaseChanged(string, uint64, Phase, Phase) {}

func (nopObserver) ChannelFailed(string, string, error) {}
