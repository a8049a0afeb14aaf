package match_test

import (
	"testing"

	"github.com/HeXi037/cross-sport-tracker/internal/match"
	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/ruleset"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/HeXi037/cross-sport-tracker/internal/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStandings struct {
	rebuilt []string
}

func (s *stubStandings) Recompute(stageID string) ([]standings.StageStanding, error) {
	s.rebuilt = append(s.rebuilt, stageID)
	return nil, nil
}

type fixture struct {
	store       *match.MockStore
	ratingStore *rating.MockStore
	standings   *stubStandings
	metrics     *metrics.Mock
}

func newFixture(t *testing.T) (*match.Service, *fixture) {
	t.Helper()

	store := match.NewMockStore()
	for _, id := range []string{"alice", "bob", "cara", "dan"} {
		require.NoError(t, store.CreatePlayer(match.Player{ID: id, Name: id}))
	}

	rulesets := ruleset.NewMockStore()
	require.NoError(t, rulesets.Create(ruleset.Ruleset{
		ID: "tt-default", SportID: scoring.SportTableTennis, Config: scoring.Config{},
	}))

	ratingStore := rating.NewMockStore()
	m := metrics.NewMock()
	st := &stubStandings{}
	engine := rating.New(ratingStore, store, m)
	svc := match.NewService(store, rulesets, scoring.DefaultRegistry(), engine, st, m)

	return svc, &fixture{
		store:       store,
		ratingStore: ratingStore,
		standings:   st,
		metrics:     m,
	}
}

func pointBy(side scoring.Side) scoring.Event {
	return scoring.Event{Type: scoring.EventPoint, Side: side}
}

func TestCreateMatch_Validation(t *testing.T) {
	svc, _ := newFixture(t)

	t.Run("unknown sport", func(t *testing.T) {
		_, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: "cricket", SideA: []string{"alice"}, SideB: []string{"bob"},
		})
		assert.ErrorIs(t, err, scoring.ErrUnknownSport)
	})

	t.Run("empty side", func(t *testing.T) {
		_, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: nil,
		})
		assert.ErrorIs(t, err, match.ErrInvalidRoster)
	})

	t.Run("player on both sides", func(t *testing.T) {
		_, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"alice"},
		})
		assert.ErrorIs(t, err, match.ErrInvalidRoster)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"ghost"},
		})
		assert.ErrorIs(t, err, match.ErrInvalidRoster)
	})

	t.Run("mismatched ruleset", func(t *testing.T) {
		_, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: scoring.SportPadel, RulesetID: "tt-default",
			SideA: []string{"alice"}, SideB: []string{"bob"},
		})
		assert.ErrorIs(t, err, ruleset.ErrRulesetMismatch)
	})

	t.Run("valid match stores zero summary", func(t *testing.T) {
		m, err := svc.CreateMatch(match.CreateMatchInput{
			SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"bob"},
		})
		require.NoError(t, err)
		require.NotNil(t, m.Details)
		assert.False(t, m.Details.Decided)
		assert.Equal(t, 0, m.Details.Points[scoring.SideA])
	})
}

func TestAppendEvent_ReplaysFullLog(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	var sum scoring.Summary
	for i := 0; i < 11; i++ {
		sum, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, sum.Games[scoring.SideA], "eleven straight points win one game")
	assert.Equal(t, 0, sum.Points[scoring.SideA], "points reset after a game")
	assert.Equal(t, 11, fx.metrics.EventsApplied())

	stored, err := fx.store.GetMatch(m.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Details)
	assert.Equal(t, 1, stored.Details.Games[scoring.SideA], "details cache follows the replay")
}

func TestAppendEvent_UndoCancelsPreviousEvent(t *testing.T) {
	svc, _ := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
	require.NoError(t, err)
	_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
	require.NoError(t, err)

	sum, err := svc.AppendEvent(m.ID, scoring.Event{Type: scoring.EventUndo})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Points[scoring.SideA])

	events, err := svc.ListEvents(m.ID)
	require.NoError(t, err)
	assert.Len(t, events, 3, "the undo itself stays in the log")
}

func TestAppendEvent_InvalidEventLeavesLogUntouched(t *testing.T) {
	svc, _ := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	_, err = svc.AppendEvent(m.ID, scoring.Event{Type: scoring.EventPoint, Side: "C"})
	require.ErrorIs(t, err, scoring.ErrInvalidEvent)

	_, err = svc.AppendEvent(m.ID, scoring.Event{Type: scoring.EventRating})
	require.ErrorIs(t, err, scoring.ErrInvalidEvent)

	events, err := svc.ListEvents(m.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAppendEvent_CompletionUpdatesRatings(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, BestOf: 1, StageID: "stage-1",
		SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	for i := 0; i < 11; i++ {
		_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fx.metrics.MatchesCompleted())

	winner, err := fx.ratingStore.GetRating("alice", scoring.SportTableTennis)
	require.NoError(t, err)
	loser, err := fx.ratingStore.GetRating("bob", scoring.SportTableTennis)
	require.NoError(t, err)
	assert.Greater(t, winner.Rating, rating.DefaultEloRating)
	assert.Less(t, loser.Rating, rating.DefaultEloRating)

	assert.Equal(t, []string{"stage-1"}, fx.standings.rebuilt)

	events, err := svc.ListEvents(m.ID)
	require.NoError(t, err)
	var ratingEvents int
	for _, ev := range events {
		if ev.Type == scoring.EventRating {
			ratingEvents++
		}
	}
	assert.Equal(t, 2, ratingEvents, "one audit event per involved player")
}

func TestAppendEvent_AfterDecidedIsSilentNoop(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, BestOf: 1,
		SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	for i := 0; i < 11; i++ {
		_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
		require.NoError(t, err)
	}

	sum, err := svc.AppendEvent(m.ID, pointBy(scoring.SideB))
	require.NoError(t, err)
	assert.True(t, sum.Decided)
	assert.Equal(t, 0, sum.Points[scoring.SideB], "events after the decision do not score")
	assert.Equal(t, 1, fx.metrics.MatchesCompleted(), "completion side effects fire once")
}

func TestAppendEvent_FriendlySkipsRatings(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, BestOf: 1, IsFriendly: true,
		SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	for i := 0; i < 11; i++ {
		_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
		require.NoError(t, err)
	}

	r, err := fx.ratingStore.GetRating("alice", scoring.SportTableTennis)
	require.NoError(t, err)
	assert.Equal(t, rating.DefaultEloRating, r.Rating, "friendly matches are unranked")
	assert.Equal(t, 1, fx.metrics.MatchesCompleted())
}

func TestRecordMatch_FromSetScores(t *testing.T) {
	svc, fx := newFixture(t)

	m, sum, err := svc.RecordMatch(match.CreateMatchInput{
		SportID: scoring.SportTennis,
		SideA:   []string{"alice", "cara"}, SideB: []string{"bob", "dan"},
	}, [][2]int{{6, 4}, {6, 2}})
	require.NoError(t, err)

	assert.True(t, sum.Decided)
	assert.Equal(t, scoring.SideA, sum.Winner)
	assert.Equal(t, 2, sum.Sets[scoring.SideA])

	events, err := svc.ListEvents(m.ID)
	require.NoError(t, err)
	var points int
	for _, ev := range events {
		if ev.Type == scoring.EventPoint {
			points++
		}
	}
	assert.Equal(t, (6+4+6+2)*4, points)

	winner, err := fx.ratingStore.GetRating("alice", scoring.SportTennis)
	require.NoError(t, err)
	assert.Greater(t, winner.Rating, rating.DefaultEloRating)
}

func TestRecordMatch_TiedSetIsRejected(t *testing.T) {
	svc, _ := newFixture(t)

	_, _, err := svc.RecordMatch(match.CreateMatchInput{
		SportID: scoring.SportTennis,
		SideA:   []string{"alice"}, SideB: []string{"bob"},
	}, [][2]int{{6, 6}})
	assert.ErrorIs(t, err, scoring.ErrInvalidEvent)
}

func TestRecordMatch_UnsupportedSport(t *testing.T) {
	svc, _ := newFixture(t)

	_, _, err := svc.RecordMatch(match.CreateMatchInput{
		SportID: scoring.SportBowling,
		SideA:   []string{"alice"}, SideB: []string{"bob"},
	}, [][2]int{{100, 90}})
	assert.ErrorIs(t, err, match.ErrSetsUnsupported)
}

func TestGetSummary_RecomputesFromLog(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)
	_, err = svc.AppendEvent(m.ID, pointBy(scoring.SideA))
	require.NoError(t, err)

	// Corrupt the cached details; the log stays authoritative.
	require.NoError(t, fx.store.UpdateDetails(m.ID, scoring.Summary{Sport: scoring.SportTableTennis, Decided: true}))

	sum, err := svc.GetSummary(m.ID)
	require.NoError(t, err)
	assert.False(t, sum.Decided)
	assert.Equal(t, 1, sum.Points[scoring.SideA])

	stored, err := fx.store.GetMatch(m.ID)
	require.NoError(t, err)
	assert.False(t, stored.Details.Decided, "stale cache is repaired on read")
}

func TestDeleteMatch_RebuildsStageStandings(t *testing.T) {
	svc, fx := newFixture(t)

	m, err := svc.CreateMatch(match.CreateMatchInput{
		SportID: scoring.SportTableTennis, StageID: "stage-9",
		SideA: []string{"alice"}, SideB: []string{"bob"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(m.ID))
	assert.Equal(t, []string{"stage-9"}, fx.standings.rebuilt)

	_, err = fx.store.GetMatch(m.ID)
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}
