package scoring_test

import (
	"testing"

	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_KnownSports(t *testing.T) {
	r := scoring.DefaultRegistry()
	for _, sport := range []string{
		scoring.SportTableTennis, scoring.SportPickleball, scoring.SportBadminton,
		scoring.SportTennis, scoring.SportPadel, scoring.SportDiscGolf, scoring.SportBowling,
	} {
		e, err := r.Get(sport)
		require.NoError(t, err)
		assert.Equal(t, sport, e.Sport())
	}
}

func TestRegistry_UnknownSport(t *testing.T) {
	r := scoring.DefaultRegistry()
	_, err := r.Get("curling")
	assert.ErrorIs(t, err, scoring.ErrUnknownSport)
}

func TestRegistry_RegisterNewSport(t *testing.T) {
	r := scoring.NewRegistry()
	r.Register(scoring.NewRallyEngine("squash", scoring.RallyOptions{PointsTo: 11, WinBy: 2, BestOf: 5}))

	e, err := r.Get("squash")
	require.NoError(t, err)
	assert.Equal(t, "squash", e.Sport())
	assert.Equal(t, []string{"squash"}, r.Sports())
}

func TestBowling_AccumulatesPins(t *testing.T) {
	e := engineFor(t, scoring.SportBowling)
	st := e.NewState(nil)

	var err error
	for _, roll := range []struct {
		side scoring.Side
		pins int
	}{
		{scoring.SideA, 10}, {scoring.SideB, 7}, {scoring.SideB, 2}, {scoring.SideA, 3},
	} {
		st, err = e.Apply(st, scoring.Event{Type: scoring.EventRoll, Side: roll.side, Pins: roll.pins})
		require.NoError(t, err)
	}

	sum := e.Summary(st)
	assert.Equal(t, 13, sum.Total[scoring.SideA])
	assert.Equal(t, 9, sum.Total[scoring.SideB])
}

func TestBowling_RejectsBadPinCounts(t *testing.T) {
	e := engineFor(t, scoring.SportBowling)
	st := e.NewState(nil)

	_, err := e.Apply(st, scoring.Event{Type: scoring.EventRoll, Side: scoring.SideA, Pins: 11})
	assert.ErrorIs(t, err, scoring.ErrInvalidEvent)

	_, err = e.Apply(st, scoring.Event{Type: scoring.EventRoll, Side: scoring.SideA, Pins: -1})
	assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
}
