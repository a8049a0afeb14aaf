package scoring_test

import (
	"testing"

	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscGolf_TotalsAndToPar(t *testing.T) {
	e := engineFor(t, scoring.SportDiscGolf)
	st := e.NewState(scoring.Config{"holes": float64(3), "pars": []any{float64(3), float64(4), float64(3)}})

	var err error
	for _, h := range []struct {
		side    scoring.Side
		hole    int
		strokes int
	}{
		{scoring.SideA, 1, 3}, {scoring.SideA, 2, 5}, {scoring.SideA, 3, 2},
		{scoring.SideB, 1, 4}, {scoring.SideB, 2, 4},
	} {
		st, err = e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: h.side, Hole: h.hole, Strokes: h.strokes})
		require.NoError(t, err)
	}

	sum := e.Summary(st)
	assert.Equal(t, 10, sum.Total[scoring.SideA])
	assert.Equal(t, 0, sum.ToPar[scoring.SideA], "3+5+2 against pars 3/4/3 is even")
	assert.Equal(t, 8, sum.Total[scoring.SideB])
	assert.Equal(t, 1, sum.ToPar[scoring.SideB], "B has only played holes 1 and 2")
	assert.Equal(t, []int{3, 4, 3}, sum.Pars)
}

func TestDiscGolf_ReRecordingReplacesHole(t *testing.T) {
	e := engineFor(t, scoring.SportDiscGolf)
	st := e.NewState(scoring.Config{"holes": float64(9)})

	st, err := e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: scoring.SideA, Hole: 1, Strokes: 6})
	require.NoError(t, err)
	st, err = e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: scoring.SideA, Hole: 1, Strokes: 4})
	require.NoError(t, err)

	sum := e.Summary(st)
	assert.Equal(t, 4, sum.Total[scoring.SideA])
}

func TestDiscGolf_RejectsMalformedEvents(t *testing.T) {
	e := engineFor(t, scoring.SportDiscGolf)
	st := e.NewState(scoring.Config{"holes": float64(9)})

	t.Run("hole out of range", func(t *testing.T) {
		_, err := e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: scoring.SideA, Hole: 10, Strokes: 3})
		assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
		_, err = e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: scoring.SideA, Hole: 0, Strokes: 3})
		assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
	})

	t.Run("non-positive strokes", func(t *testing.T) {
		_, err := e.Apply(st, scoring.Event{Type: scoring.EventHole, Side: scoring.SideA, Hole: 1, Strokes: 0})
		assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
	})

	t.Run("wrong event type", func(t *testing.T) {
		_, err := e.Apply(st, scoring.Event{Type: scoring.EventPoint, Side: scoring.SideA})
		assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
	})
}
