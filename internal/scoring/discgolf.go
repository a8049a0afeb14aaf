package scoring

import "fmt"

// NewDiscGolfEngine creates a scoring engine for disc golf: per-hole
// stroke counts with configured pars and a signed to-par differential.
func NewDiscGolfEngine() Engine {
	return &discGolfEngine{}
}

type discGolfEngine struct{}

type discGolfState struct {
	holes    int
	pars     []int
	strokesA []int
	strokesB []int
}

func (discGolfState) isState() {}

const defaultPar = 3

func (e *discGolfEngine) Sport() string { return SportDiscGolf }

func (e *discGolfEngine) NewState(cfg Config) State {
	holes := cfg.intOption("holes", 18)
	if holes < 1 {
		holes = 18
	}
	pars := cfg.intsOption("pars")
	if len(pars) > holes {
		pars = pars[:holes]
	}
	for len(pars) < holes {
		pars = append(pars, defaultPar)
	}
	return discGolfState{
		holes:    holes,
		pars:     pars,
		strokesA: make([]int, holes),
		strokesB: make([]int, holes),
	}
}

func (e *discGolfEngine) Apply(st State, ev Event) (State, error) {
	s, ok := st.(discGolfState)
	if !ok {
		return st, fmt.Errorf("%w: state does not belong to %s", ErrInvalidEvent, SportDiscGolf)
	}
	if ev.Type != EventHole {
		return st, fmt.Errorf("%w: %s expects HOLE events, got %s", ErrInvalidEvent, SportDiscGolf, ev.Type)
	}
	if !ev.Side.Valid() {
		return st, fmt.Errorf("%w: missing or unknown side %q", ErrInvalidEvent, ev.Side)
	}
	if ev.Hole < 1 || ev.Hole > s.holes {
		return st, fmt.Errorf("%w: hole %d out of range 1..%d", ErrInvalidEvent, ev.Hole, s.holes)
	}
	if ev.Strokes <= 0 {
		return st, fmt.Errorf("%w: stroke count must be positive, got %d", ErrInvalidEvent, ev.Strokes)
	}

	// Re-recording a hole replaces the previous stroke count.
	strokesA := append([]int(nil), s.strokesA...)
	strokesB := append([]int(nil), s.strokesB...)
	if ev.Side == SideA {
		strokesA[ev.Hole-1] = ev.Strokes
	} else {
		strokesB[ev.Hole-1] = ev.Strokes
	}
	s.strokesA, s.strokesB = strokesA, strokesB
	return s, nil
}

func (e *discGolfEngine) Summary(st State) Summary {
	s, ok := st.(discGolfState)
	if !ok {
		return Summary{Sport: SportDiscGolf}
	}
	total := map[Side]int{}
	toPar := map[Side]int{}
	for side, strokes := range map[Side][]int{SideA: s.strokesA, SideB: s.strokesB} {
		for hole, count := range strokes {
			if count == 0 {
				continue
			}
			total[side] += count
			toPar[side] += count - s.pars[hole]
		}
	}
	return Summary{
		Sport: SportDiscGolf,
		Holes: map[Side][]int{
			SideA: append([]int(nil), s.strokesA...),
			SideB: append([]int(nil), s.strokesB...),
		},
		Pars:  append([]int(nil), s.pars...),
		Total: total,
		ToPar: toPar,
	}
}
