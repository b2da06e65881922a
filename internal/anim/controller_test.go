package anim

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-spellcast/internal/cast"
)

var _ cast.Animator = (*Controller)(nil)

func TestControllerTracksTriggers(t *testing.T) {
	c := NewController(map[string]float64{"spell1": 2.267}, zerolog.New(io.Discard))
	assert.Equal(t, State{Speed: 1}, c.State())

	c.SetTrigger("spell1")
	c.SetSpeed(1.5)
	c.SetTrigger("wave")

	st := c.State()
	assert.Equal(t, "wave", st.Trigger)
	assert.Equal(t, uint64(2), st.Fired)
	assert.Equal(t, 1.5, st.Speed)
	assert.Equal(t, 0.0, st.Clip)

	l, ok := c.ClipLength("spell1")
	assert.True(t, ok)
	assert.Equal(t, 2.267, l)
}
