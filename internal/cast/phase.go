package cast

import "fmt"

// Phase enumerates the sequencer states. Idle is both initial and terminal.
type Phase int

const (
	Idle Phase = iota
	Anticipation
	Action
	Recuperation
)

var phaseNames = [...]string{"idle", "anticipation", "action", "recuperation"}

func (p Phase) String() string {
	if p < Idle || p > Recuperation {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// next returns the phase that follows p in a cast.
func (p Phase) next() Phase {
	switch p {
	case Anticipation:
		return Action
	case Action:
		return Recuperation
	default:
		return Idle
	}
}

// ParsePhase converts a phase name back to a Phase.
func ParsePhase(s string) (Phase, error) {
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
