package cast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTicks(s *Session, n int, dt float64) {
	for i := 0; i < n; i++ {
		s.Tick(dt)
	}
}

func TestSessionRestoresBaselineAfterFullCycle(t *testing.T) {
	p := newMeter("glow", 7)
	anim := &fakeAnimator{}
	s, err := NewSession(stockConfig(p), anim, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	assert.Equal(t, []string{"spell1"}, anim.triggers)
	assert.InDelta(t, 2.267/2.25, anim.speed, 1e-12)

	runTicks(s, 10, 0.1)
	assert.NotEqual(t, 7.0, p.value())

	runTicks(s, 14, 0.1)
	assert.False(t, s.Active())
	assert.Equal(t, Idle, s.Phase())
	assert.Equal(t, 7.0, p.value())
	assert.Equal(t, 1.0, anim.speed)

	assert.Equal(t, "baseline", p.calls[0])
	assert.Equal(t, "start", p.calls[1])
	assert.Equal(t, "tick:anticipation", p.calls[2])
	assert.Equal(t, "end", p.calls[len(p.calls)-1])
}

func TestSessionMultiplierProfile(t *testing.T) {
	p := newMeter("glow", 0)
	s, err := NewSession(stockConfig(p), nil, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	runTicks(s, 24, 0.1)
	require.Len(t, p.frames, 24)

	// ticks 1..11 see anticipation or action frames
	for i := 1; i <= 10; i++ {
		assert.Greater(t, p.frames[i].Multiplier, p.frames[i-1].Multiplier, "frame %d", i)
	}
	for i := 12; i < 24; i++ {
		assert.Equal(t, Recuperation, p.frames[i].Phase)
		assert.Equal(t, p.frames[11].Multiplier, p.frames[i].Multiplier, "frame %d", i)
	}
	assert.Equal(t, 4.0, s.Clock().Multiplier())
}

func TestSessionPreemptionEndsBeforeRestart(t *testing.T) {
	p := newMeter("glow", 3)
	obs := &recordObserver{}
	s, err := NewSession(stockConfig(p), &fakeAnimator{}, quiet, WithObserver(obs))
	require.NoError(t, err)

	s.ExecuteSpell()
	runTicks(s, 7, 0.1)
	require.Equal(t, Action, s.Phase())
	p.calls = nil

	s.ExecuteSpell()
	assert.Equal(t, []string{"end", "start"}, p.calls)
	assert.Equal(t, 3.0, p.value())
	assert.Equal(t, Anticipation, s.Phase())
	assert.Equal(t, 0.0, s.Clock().Global())
	assert.Equal(t, uint64(2), s.Generation())

	assert.Equal(t, []string{
		"spell1#1:idle>anticipation",
		"spell1#1:anticipation>action",
		"spell1#1:action>idle",
		"spell1#2:idle>anticipation",
	}, obs.changes)
}

func TestSessionPreemptedRightAfterBoundary(t *testing.T) {
	obs := &recordObserver{}
	s, err := NewSession(stockConfig(newMeter("glow", 0)), nil, quiet, WithObserver(obs))
	require.NoError(t, err)

	s.ExecuteSpell()
	runTicks(s, 5, 0.1)
	require.Equal(t, Action, s.Phase())
	require.Equal(t, Anticipation, s.LastFrame().Phase)

	s.ExecuteSpell()
	assert.Equal(t, []string{
		"spell1#1:idle>anticipation",
		"spell1#1:anticipation>action",
		"spell1#1:action>idle",
		"spell1#2:idle>anticipation",
	}, obs.changes)
}

func TestSessionDoubleCastInQuickSuccession(t *testing.T) {
	p := newMeter("glow", 0)
	s, err := NewSession(stockConfig(p), nil, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	s.Tick(0.05)
	s.ExecuteSpell()

	runTicks(s, 4, 0.1)
	assert.Equal(t, Anticipation, s.Phase())
	s.Tick(0.1)
	assert.Equal(t, Action, s.Phase())
	runTicks(s, 19, 0.1)
	assert.False(t, s.Active())
	assert.Equal(t, 0.0, p.value())
}

func TestSessionIsolatesChannelFailures(t *testing.T) {
	bad := newMeter("bad", 1)
	bad.failTick = true
	wild := newMeter("wild", 2)
	wild.panicTick = true
	good := newMeter("good", 5)

	obs := &recordObserver{}
	s, err := NewSession(stockConfig(bad, wild, good), nil, quiet, WithObserver(obs))
	require.NoError(t, err)

	s.ExecuteSpell()
	assert.NotPanics(t, func() { s.Tick(0.1) })

	assert.InDelta(t, 10+0.1/0.45, good.value(), 1e-12)
	assert.Equal(t, []string{"spell1/bad", "spell1/wild"}, obs.failures)

	s.End()
	assert.Equal(t, 5.0, good.value())
	assert.Equal(t, 1.0, bad.value())
	assert.Equal(t, 2.0, wild.value())
}

func TestSessionEndIsIdempotent(t *testing.T) {
	p := newMeter("glow", 9)
	obs := &recordObserver{}
	s, err := NewSession(stockConfig(p), &fakeAnimator{}, quiet, WithObserver(obs))
	require.NoError(t, err)

	s.ExecuteSpell()
	runTicks(s, 3, 0.1)
	s.End()
	first := s.LastFrame()
	s.End()
	s.End()

	assert.Equal(t, first, s.LastFrame())
	assert.Equal(t, 9.0, p.value())
	assert.False(t, s.Active())
	assert.Len(t, obs.changes, 2)

	// ending a session that never ran is also fine
	idle, err := NewSession(stockConfig(newMeter("x", 0)), nil, quiet)
	require.NoError(t, err)
	assert.NotPanics(t, idle.End)
}

func TestSessionZeroDurationClamps(t *testing.T) {
	cfg := stockConfig(newMeter("glow", 0))
	cfg.Duration = 0
	anim := &fakeAnimator{}
	s, err := NewSession(cfg, anim, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	assert.False(t, math.IsInf(anim.speed, 0))
	assert.InDelta(t, 2.267/MinDuration, anim.speed, 1e-6)

	s.Tick(0.1)
	s.Tick(0.1)
	s.Tick(0.1)
	assert.False(t, s.Active())
	assert.Equal(t, 1.0, anim.speed)
}

func TestSessionBindStaleGeneration(t *testing.T) {
	s, err := NewSession(stockConfig(newMeter("glow", 0)), nil, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	old := s.Bind()
	require.NoError(t, old(0.1))
	assert.InDelta(t, 0.1, s.Clock().Global(), 1e-12)

	s.ExecuteSpell()
	current := s.Bind()
	assert.ErrorIs(t, old(0.1), ErrStaleGeneration)
	assert.Equal(t, 0.0, s.Clock().Global())
	require.NoError(t, current(0.1))
	assert.InDelta(t, 0.1, s.Clock().Global(), 1e-12)
}

func TestSessionTimingChangesRejectedWhileActive(t *testing.T) {
	s, err := NewSession(stockConfig(newMeter("glow", 0)), nil, quiet)
	require.NoError(t, err)

	s.ExecuteSpell()
	assert.ErrorIs(t, s.SetDuration(4), ErrCastActive)
	assert.ErrorIs(t, s.SetFractions(Fractions{Anticipation: 0.3, Action: 0.3, Recuperation: 0.4}), ErrCastActive)
	assert.Equal(t, 2.25, s.Timing().Duration)

	s.End()
	require.NoError(t, s.SetDuration(4))
	assert.InDelta(t, 0.8, s.Timing().AnticipationLength, 1e-12)
	require.NoError(t, s.SetFractions(Fractions{Anticipation: 0.5, Action: 0.5, Recuperation: 0.5}))
	assert.InDelta(t, 6.0, s.Timing().BoundaryEnd, 1e-12)
}

func TestSessionChannelsAndNames(t *testing.T) {
	s, err := NewSession(stockConfig(newMeter("a", 0), newMeter("b", 0)), nil, quiet)
	require.NoError(t, err)
	assert.Equal(t, "spell1", s.Name())
	assert.Equal(t, []string{"a", "b"}, s.Channels())
}
