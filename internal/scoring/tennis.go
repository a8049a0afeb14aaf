package scoring

import "fmt"

// TennisOptions configures a tennis-style sport. A zero Sets means no
// set limit; a zero TiebreakTo disables tiebreaks (sets are then won by
// a two-game margin only).
type TennisOptions struct {
	Sets       int
	GamesTo    int
	TiebreakTo int
}

// NewTennisEngine creates a scoring engine for tennis-style sports
// (tennis, padel): four-point games with deuce, six-game sets, and an
// optional tiebreak at games-all.
func NewTennisEngine(sport string, defaults TennisOptions) Engine {
	return &tennisEngine{sport: sport, defaults: defaults}
}

type tennisEngine struct {
	sport    string
	defaults TennisOptions
}

type tennisState struct {
	opts             TennisOptions
	pointsA, pointsB int
	gamesA, gamesB   int
	setsA, setsB     int
	tiebreak         bool
}

func (tennisState) isState() {}

func (e *tennisEngine) Sport() string { return e.sport }

func (e *tennisEngine) options(cfg Config) TennisOptions {
	return TennisOptions{
		Sets:       cfg.intOption("sets", e.defaults.Sets),
		GamesTo:    cfg.intOption("gamesTo", e.defaults.GamesTo),
		TiebreakTo: cfg.intOption("tiebreakTo", e.defaults.TiebreakTo),
	}
}

func (e *tennisEngine) NewState(cfg Config) State {
	return tennisState{opts: e.options(cfg)}
}

func (e *tennisEngine) Apply(st State, ev Event) (State, error) {
	s, ok := st.(tennisState)
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

	if s.tiebreak {
		// Tiebreak points race to the tiebreak target with a two-point
		// margin and decide the set directly.
		if scorer >= s.opts.TiebreakTo && scorer-other >= 2 {
			s = s.winSet(ev.Side)
		}
		return s, nil
	}

	// Ordinary game: first to four points with a two-point margin.
	if scorer >= 4 && scorer-other >= 2 {
		s.pointsA, s.pointsB = 0, 0
		if ev.Side == SideA {
			s.gamesA++
		} else {
			s.gamesB++
		}
		games, oppGames := s.gamesA, s.gamesB
		if ev.Side == SideB {
			games, oppGames = s.gamesB, s.gamesA
		}
		switch {
		case games >= s.opts.GamesTo && games-oppGames >= 2:
			s = s.winSet(ev.Side)
		case s.opts.TiebreakTo > 0 && games == s.opts.GamesTo && oppGames == s.opts.GamesTo:
			s.tiebreak = true
		}
	}
	return s, nil
}

func (s tennisState) winSet(side Side) tennisState {
	if side == SideA {
		s.setsA++
	} else {
		s.setsB++
	}
	s.pointsA, s.pointsB = 0, 0
	s.gamesA, s.gamesB = 0, 0
	s.tiebreak = false
	return s
}

func (s tennisState) decided() bool {
	if s.opts.Sets <= 0 {
		return false
	}
	need := s.opts.Sets/2 + 1
	return s.setsA >= need || s.setsB >= need
}

func (e *tennisEngine) Summary(st State) Summary {
	s, ok := st.(tennisState)
	if !ok {
		return Summary{Sport: e.sport}
	}
	sum := Summary{
		Sport:    e.sport,
		Points:   map[Side]int{SideA: s.pointsA, SideB: s.pointsB},
		Games:    map[Side]int{SideA: s.gamesA, SideB: s.gamesB},
		Sets:     map[Side]int{SideA: s.setsA, SideB: s.setsB},
		Tiebreak: s.tiebreak,
	}
	if s.decided() {
		sum.Decided = true
		if s.setsA > s.setsB {
			sum.Winner = SideA
		} else {
			sum.Winner = SideB
		}
	}
	return sum
}

// EventsForSets synthesizes the minimal POINT sequence that reaches the
// requested list of (A,B) set scores, used to bulk-record results
// entered as final scores rather than live events. Tied set scores are
// rejected. The loser's games are emitted first so a set never closes
// before the loser's games are on the board; sets at games-all plus one
// are completed through a tiebreak.
func (e *tennisEngine) EventsForSets(cfg Config, sets [][2]int) ([]Event, error) {
	opts := e.options(cfg)
	var events []Event

	appendGames := func(side Side, n int) {
		for g := 0; g < n; g++ {
			for p := 0; p < 4; p++ {
				events = append(events, Event{Type: EventPoint, Side: side})
			}
		}
	}

	for _, set := range sets {
		a, b := set[0], set[1]
		if a < 0 || b < 0 {
			return nil, fmt.Errorf("%w: negative set score %d-%d", ErrInvalidEvent, a, b)
		}
		if a == b {
			return nil, fmt.Errorf("%w: tied set score %d-%d", ErrInvalidEvent, a, b)
		}
		winner, winnerGames, loserGames := SideA, a, b
		if b > a {
			winner, winnerGames, loserGames = SideB, b, a
		}
		if !terminalSetScore(opts, winnerGames, loserGames) {
			return nil, fmt.Errorf("%w: set score %d-%d is not a finished set", ErrInvalidEvent, a, b)
		}

		if opts.TiebreakTo > 0 && winnerGames == opts.GamesTo+1 && loserGames == opts.GamesTo {
			// Games-all set: both sides reach the tiebreak trigger, then
			// the winner runs out the tiebreak.
			appendGames(winner.Other(), opts.GamesTo)
			appendGames(winner, opts.GamesTo)
			for p := 0; p < opts.TiebreakTo; p++ {
				events = append(events, Event{Type: EventPoint, Side: winner})
			}
			continue
		}

		appendGames(winner.Other(), loserGames)
		appendGames(winner, winnerGames)
	}
	return events, nil
}

// terminalSetScore reports whether a set can legally finish at the
// given score: the winner reaches the games target with a two-game
// margin, takes the set 7-6 style through a tiebreak, or, in
// advantage sets, closes exactly two games ahead past the target.
func terminalSetScore(opts TennisOptions, winnerGames, loserGames int) bool {
	margin := winnerGames - loserGames
	if opts.TiebreakTo > 0 && winnerGames == opts.GamesTo+1 && loserGames == opts.GamesTo {
		return true
	}
	if winnerGames == opts.GamesTo {
		return margin >= 2
	}
	if winnerGames == opts.GamesTo+1 && margin == 2 {
		// 7-5 style: the loser reached GamesTo-1 before the set closed.
		return true
	}
	if opts.TiebreakTo == 0 && winnerGames > opts.GamesTo && margin == 2 {
		return true
	}
	return false
}
