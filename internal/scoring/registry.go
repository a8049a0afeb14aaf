package scoring

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownSport is returned when no engine is registered for a sport.
	ErrUnknownSport = errors.New("unknown sport")
	// ErrInvalidEvent is returned when an event's shape does not match
	// what the sport expects.
	ErrInvalidEvent = errors.New("invalid event")
)

// State is an opaque scoring position. States are produced by an
// engine's NewState/Apply and must only be fed back to the same engine.
type State interface {
	isState()
}

// Engine is a per-sport scoring state machine. Implementations are
// pure: Apply never performs I/O and returns a fresh state.
type Engine interface {
	// Sport returns the sport identifier the engine is registered under.
	Sport() string
	// NewState builds the zero state from a ruleset configuration.
	NewState(cfg Config) State
	// Apply folds one event into the state. Events applied to an
	// already-decided match are silent no-ops returning the state
	// unchanged.
	Apply(st State, ev Event) (State, error)
	// Summary projects the state into its stable scoreboard shape.
	Summary(st State) Summary
}

// SetRecorder is implemented by engines that can synthesize the minimal
// event sequence for results entered as final set scores rather than
// live events.
type SetRecorder interface {
	EventsForSets(cfg Config, sets [][2]int) ([]Event, error)
}

// Registry maps sport identifiers to scoring engines. It is built once
// at startup and passed to whatever needs to score matches; new sports
// are added by registering another engine, never by modifying existing
// ones.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds an engine under its sport identifier, replacing any
// previous registration for that sport.
func (r *Registry) Register(e Engine) {
	r.engines[e.Sport()] = e
}

// Get returns the engine for a sport.
func (r *Registry) Get(sport string) (Engine, error) {
	e, ok := r.engines[sport]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
	}
	return e, nil
}

// Sports lists the registered sport identifiers in stable order.
func (r *Registry) Sports() []string {
	sports := make([]string, 0, len(r.engines))
	for sport := range r.engines {
		sports = append(sports, sport)
	}
	sort.Strings(sports)
	return sports
}

// DefaultRegistry returns a registry with every built-in sport.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewRallyEngine(SportTableTennis, RallyOptions{PointsTo: 11, WinBy: 2, BestOf: 5}))
	r.Register(NewRallyEngine(SportPickleball, RallyOptions{PointsTo: 11, WinBy: 2, BestOf: 3}))
	r.Register(NewRallyEngine(SportBadminton, RallyOptions{PointsTo: 21, WinBy: 2, Cap: 30, BestOf: 3}))
	r.Register(NewTennisEngine(SportTennis, TennisOptions{Sets: 3, GamesTo: 6, TiebreakTo: 7}))
	r.Register(NewTennisEngine(SportPadel, TennisOptions{Sets: 3, GamesTo: 6, TiebreakTo: 7}))
	r.Register(NewDiscGolfEngine())
	r.Register(NewBowlingEngine())
	return r
}

// Built-in sport identifiers.
const (
	SportTableTennis = "table_tennis"
	SportPickleball  = "pickleball"
	SportBadminton   = "badminton"
	SportTennis      = "tennis"
	SportPadel       = "padel"
	SportDiscGolf    = "disc_golf"
	SportBowling     = "bowling"
)
