package cast

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var quiet = WithLogger(zerolog.New(io.Discard))

// meter is a channel that writes phase progress to a float backend and logs
// every call.
type meter struct {
	name     string
	backend  *float64
	baseline float64
	calls    []string
	frames   []Frame

	failTick  bool
	panicTick bool
}

func newMeter(name string, initial float64) *meter {
	v := initial
	return &meter{name: name, backend: &v}
}

func (p *meter) Name() string { return p.name }

func (p *meter) CaptureBaseline() error {
	p.baseline = *p.backend
	p.calls = append(p.calls, "baseline")
	return nil
}

func (p *meter) OnSessionStart(PhaseTiming) error {
	p.calls = append(p.calls, "start")
	return nil
}

func (p *meter) OnTick(f Frame) error {
	p.frames = append(p.frames, f)
	if p.panicTick {
		panic("boom")
	}
	if p.failTick {
		return errors.New("backend offline")
	}
	*p.backend = float64(f.Phase)*10 + f.Progress
	p.calls = append(p.calls, fmt.Sprintf("tick:%s", f.Phase))
	return nil
}

func (p *meter) OnSessionEnd() error {
	*p.backend = p.baseline
	p.calls = append(p.calls, "end")
	return nil
}

func (p *meter) value() float64 { return *p.backend }

type fakeAnimator struct {
	triggers []string
	speed    float64
}

func (a *fakeAnimator) SetTrigger(name string) { a.triggers = append(a.triggers, name) }
func (a *fakeAnimator) SetSpeed(v float64)     { a.speed = v }

type recordObserver struct {
	changes  []string
	failures []string
}

func (o *recordObserver) PhaseChanged(spell string, gen uint64, from, to Phase) {
	o.changes = append(o.changes, fmt.Sprintf("%s#%d:%s>%s", spell, gen, from, to))
}

func (o *recordObserver) ChannelFailed(spell, channel string, err error) {
	o.failures = append(o.failures, spell+"/"+channel)
}

func stockConfig(channels ...Channel) SessionConfig {
	return SessionConfig{
		Name:         "spell1",
		Trigger:      "spell1",
		ClipLength:   2.267,
		Duration:     2.25,
		Fractions:    DefaultFractions,
		Acceleration: Acceleration{Initial: 4, Step: 0.025},
		Channels:     channels,
	}
}
