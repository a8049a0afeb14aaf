package scoring

import "fmt"

// NewBowlingEngine creates a minimal bowling engine: ROLL events
// accumulate pins per side. Frame-level bonus scoring (strikes and
// spares carrying over) is an extension point for a richer engine.
func NewBowlingEngine() Engine {
	return &bowlingEngine{}
}

type bowlingEngine struct{}

type bowlingState struct {
	pinsA, pinsB int
}

func (bowlingState) isState() {}

func (e *bowlingEngine) Sport() string { return SportBowling }

func (e *bowlingEngine) NewState(cfg Config) State {
	return bowlingState{}
}

func (e *bowlingEngine) Apply(st State, ev Event) (State, error) {
	s, ok := st.(bowlingState)
	if !ok {
		return st, fmt.Errorf("%w: state does not belong to %s", ErrInvalidEvent, SportBowling)
	}
	if ev.Type != EventRoll {
		return st, fmt.Errorf("%w: %s expects ROLL events, got %s", ErrInvalidEvent, SportBowling, ev.Type)
	}
	if !ev.Side.Valid() {
		return st, fmt.Errorf("%w: missing or unknown side %q", ErrInvalidEvent, ev.Side)
	}
	if ev.Pins < 0 || ev.Pins > 10 {
		return st, fmt.Errorf("%w: pin count %d out of range 0..10", ErrInvalidEvent, ev.Pins)
	}
	if ev.Side == SideA {
		s.pinsA += ev.Pins
	} else {
		s.pinsB += ev.Pins
	}
	return s, nil
}

func (e *bowlingEngine) Summary(st State) Summary {
	s, ok := st.(bowlingState)
	if !ok {
		return Summary{Sport: SportBowling}
	}
	return Summary{
		Sport: SportBowling,
		Total: map[Side]int{SideA: s.pinsA, SideB: s.pinsB},
	}
}
