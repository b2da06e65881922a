package cast

import "errors"

var (
	// ErrFractionSum flags phase fractions that do not add up to 1.
	ErrFractionSum = errors.New("phase fractions do not sum to 1")
	// ErrCastActive is returned when timing is changed while a cast runs.
	ErrCastActive = errors.New("cast is active")
	// ErrStaleGeneration is returned by a TickFunc bound to a superseded cast.
	ErrStaleGeneration = errors.New("stale cast generation")
	// ErrBusy is returned by Caster.Cast while a sibling spell is running.
	ErrBusy = errors.New("another cast is running")
	// ErrUnknownSpell is returned for names the Caster does not hold.
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrDuplicateSpell is returned when two sessions share a name.
	ErrDuplicateSpell = errors.New("duplicate spell")
	// ErrNoAnimator is returned by Caster.Trigger without an animator.
	ErrNoAnimator = errors.New("no animator bound")
	// ErrChannelPanic wraps a panic recovered from a channel call.
	ErrChannelPanic = errors.New("channel panicked")
)
