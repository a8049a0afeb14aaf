package scoring

import "fmt"

// RallyOptions configures a rally-to-target sport. A zero Cap means no
// hard cap.
type RallyOptions struct {
	PointsTo int
	WinBy    int
	Cap      int
	BestOf   int
}

// NewRallyEngine creates a scoring engine for sports where points race
// to a target with a win-by margin and games accumulate toward a
// best-of count (table tennis, pickleball, badminton).
func NewRallyEngine(sport string, defaults RallyOptions) Engine {
	return &rallyEngine{sport: sport, defaults: defaults}
}

type rallyEngine struct {
	sport    string
	defaults RallyOptions
}

type rallyState struct {
	opts             RallyOptions
	pointsA, pointsB int
	gamesA, gamesB   int
}

func (rallyState) isState() {}

func (e *rallyEngine) Sport() string { return e.sport }

func (e *rallyEngine) NewState(cfg Config) State {
	opts := RallyOptions{
		PointsTo: cfg.intOption("pointsTo", e.defaults.PointsTo),
		WinBy:    cfg.intOption("winBy", e.defaults.WinBy),
		Cap:      cfg.intOption("cap", e.defaults.Cap),
		BestOf:   cfg.intOption("bestOf", e.defaults.BestOf),
	}
	return rallyState{opts: opts}
}

func (e *rallyEngine) Apply(st State, ev Event) (State, error) {
	s, ok := st.(rallyState)
	if !ok {
		return st, fmt.Errorf("%w: state does not belong to %s", ErrInvalidEvent, e.sport)
	}
	if ev.Type != EventPoint {
		return st, fmt.Errorf("%w: %s expects POINT events, got %s", ErrInvalidEvent, e.sport, ev.Type)
	}
	if !ev.Side.Valid() {
		return st, fmt.Errorf("%w: missing or unknown side %q", ErrInvalidEvent, ev.Side)
	}
	if s.decided() {
		return s, nil
	}

	if ev.Side == SideA {
		s.pointsA++
	} else {
		s.pointsB++
	}

	scorer, other := s.pointsA, s.pointsB
	if ev.Side == SideB {
		scorer, other = s.pointsB, s.pointsA
	}
	if s.gameWon(scorer, other) {
		if ev.Side == SideA {
			s.gamesA++
		} else {
			s.gamesB++
		}
		s.pointsA, s.pointsB = 0, 0
	}
	return s, nil
}

// gameWon reports whether the scorer's new point total closes the game:
// either the win-by margin at or above the target, or the hard cap with
// any lead.
func (s rallyState) gameWon(scorer, other int) bool {
	if scorer >= s.opts.PointsTo && scorer-other >= s.opts.WinBy {
		return true
	}
	return s.opts.Cap > 0 && scorer >= s.opts.Cap && scorer > other
}

func (s rallyState) gamesToWin() int {
	return s.opts.BestOf/2 + 1
}

func (s rallyState) decided() bool {
	need := s.gamesToWin()
	return s.gamesA >= need || s.gamesB >= need
}

func (e *rallyEngine) Summary(st State) Summary {
	s, ok := st.(rallyState)
	if !ok {
		return Summary{Sport: e.sport}
	}
	sum := Summary{
		Sport:  e.sport,
		Points: map[Side]int{SideA: s.pointsA, SideB: s.pointsB},
		Games:  map[Side]int{SideA: s.gamesA, SideB: s.gamesB},
	}
	if s.decided() {
		sum.Decided = true
		if s.gamesA > s.gamesB {
			sum.Winner = SideA
		} else {
			sum.Winner = SideB
		}
	}
	return sum
}
