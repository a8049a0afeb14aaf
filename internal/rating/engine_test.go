package rating_test

import (
	"testing"

	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*rating.Engine, *rating.MockStore, *rating.MockAuditLog) {
	t.Helper()
	store := rating.NewMockStore()
	audit := rating.NewMockAuditLog()
	return rating.New(store, audit, metrics.NewMock()), store, audit
}

func TestUpdateRatings_ZeroSumForEqualPriors(t *testing.T) {
	engine, store, _ := newEngine(t)

	err := engine.UpdateRatings(scoring.SportTableTennis, []string{"a"}, []string{"b"}, nil, "")
	require.NoError(t, err)

	winner, err := store.GetRating("a", scoring.SportTableTennis)
	require.NoError(t, err)
	loser, err := store.GetRating("b", scoring.SportTableTennis)
	require.NoError(t, err)

	assert.InDelta(t, 16.0, winner.Rating-rating.DefaultEloRating, 1e-9, "equal priors with K=32 move by exactly half K")
	assert.InDelta(t, winner.Rating-rating.DefaultEloRating, rating.DefaultEloRating-loser.Rating, 1e-9, "deltas are zero-sum")

	winnerGlicko, err := store.GetGlicko("a", scoring.SportTableTennis)
	require.NoError(t, err)
	loserGlicko, err := store.GetGlicko("b", scoring.SportTableTennis)
	require.NoError(t, err)
	assert.Greater(t, winnerGlicko.Rating, rating.DefaultGlickoRating)
	assert.Less(t, loserGlicko.Rating, rating.DefaultGlickoRating)
}

func TestUpdateRatings_GlickoDeviationShrinksAfterPlay(t *testing.T) {
	engine, store, _ := newEngine(t)

	require.NoError(t, engine.UpdateRatings("padel", []string{"a"}, []string{"b"}, nil, ""))

	for _, playerID := range []string{"a", "b"} {
		g, err := store.GetGlicko(playerID, "padel")
		require.NoError(t, err)
		assert.Less(t, g.RD, rating.DefaultGlickoRD)
		assert.GreaterOrEqual(t, g.RD, rating.GlickoRDFloor)
	}
}

func TestUpdateRatings_DrawFavorsUnderdog(t *testing.T) {
	engine, store, _ := newEngine(t)

	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "favorite", SportID: "tennis", Rating: 1200}))
	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "underdog", SportID: "tennis", Rating: 1000}))

	err := engine.UpdateRatings("tennis", nil, nil, []string{"favorite", "underdog"}, "")
	require.NoError(t, err)

	favorite, err := store.GetRating("favorite", "tennis")
	require.NoError(t, err)
	underdog, err := store.GetRating("underdog", "tennis")
	require.NoError(t, err)

	assert.Less(t, favorite.Rating, 1200.0, "a draw should cost the favorite rating")
	assert.Greater(t, underdog.Rating, 1000.0, "a draw should gain the underdog rating")
}

func TestUpdateRatings_KFactorDamping(t *testing.T) {
	engine, store, _ := newEngine(t)
	store.MatchCounts["veteran"] = rating.ExperiencedMatches + 1

	// Two separate matches with identical priors and outcome: the
	// veteran should receive exactly half the rookie's delta.
	require.NoError(t, engine.UpdateRatings("bowling", []string{"rookie"}, []string{"opp1"}, nil, ""))
	require.NoError(t, engine.UpdateRatings("bowling", []string{"veteran"}, []string{"opp2"}, nil, ""))

	rookie, err := store.GetRating("rookie", "bowling")
	require.NoError(t, err)
	veteran, err := store.GetRating("veteran", "bowling")
	require.NoError(t, err)

	rookieDelta := rookie.Rating - rating.DefaultEloRating
	veteranDelta := veteran.Rating - rating.DefaultEloRating
	assert.InDelta(t, rookieDelta/2, veteranDelta, 1e-9)
}

func TestUpdateRatings_KFactorCountsPriorMatchesOnly(t *testing.T) {
	// When a match id is given the rated match is already in the store,
	// so a player whose count includes it must not be pushed over the
	// damping threshold one match early.
	engine, store, _ := newEngine(t)

	// 30 prior matches plus the one being rated: still full K.
	store.MatchCounts["edge"] = rating.ExperiencedMatches + 1
	// 31 prior matches plus the one being rated: half K.
	store.MatchCounts["past"] = rating.ExperiencedMatches + 2

	require.NoError(t, engine.UpdateRatings("squash", []string{"edge"}, []string{"opp1"}, nil, "match-1"))
	require.NoError(t, engine.UpdateRatings("squash", []string{"past"}, []string{"opp2"}, nil, "match-2"))

	edge, err := store.GetRating("edge", "squash")
	require.NoError(t, err)
	past, err := store.GetRating("past", "squash")
	require.NoError(t, err)

	edgeDelta := edge.Rating - rating.DefaultEloRating
	pastDelta := past.Rating - rating.DefaultEloRating
	assert.InDelta(t, 16.0, edgeDelta, 1e-9, "exactly at the threshold the full K still applies")
	assert.InDelta(t, edgeDelta/2, pastDelta, 1e-9)
}

func TestUpdateRatings_TeamSidesUseOpposingAverage(t *testing.T) {
	engine, store, _ := newEngine(t)

	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "strong", SportID: "padel", Rating: 1300}))
	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "weak", SportID: "padel", Rating: 900}))

	err := engine.UpdateRatings("padel", []string{"strong", "weak"}, []string{"opp1", "opp2"}, nil, "")
	require.NoError(t, err)

	strong, err := store.GetRating("strong", "padel")
	require.NoError(t, err)
	weak, err := store.GetRating("weak", "padel")
	require.NoError(t, err)

	strongDelta := strong.Rating - 1300
	weakDelta := weak.Rating - 900
	assert.Greater(t, strongDelta, 0.0)
	assert.Greater(t, weakDelta, 0.0)
	assert.Greater(t, weakDelta, strongDelta, "the lower-rated teammate gains more against the same opponents")
}

func TestUpdateRatings_NoOutcomeIsNoOp(t *testing.T) {
	engine, store, audit := newEngine(t)

	require.NoError(t, engine.UpdateRatings("tennis", nil, nil, nil, "match-1"))
	require.NoError(t, engine.UpdateRatings("tennis", []string{"a"}, nil, nil, "match-1"))

	r, err := store.GetRating("a", "tennis")
	require.NoError(t, err)
	assert.Equal(t, rating.DefaultEloRating, r.Rating)
	assert.Empty(t, audit.Events)
}

func TestUpdateRatings_AppendsAuditEvents(t *testing.T) {
	engine, _, audit := newEngine(t)

	err := engine.UpdateRatings("pickleball", []string{"a"}, []string{"b"}, nil, "match-9")
	require.NoError(t, err)

	events := audit.Events["match-9"]
	require.Len(t, events, 2, "one audit event per involved player")
	assert.Equal(t, "a", events[0].PlayerID)
	assert.Equal(t, events[0].Rating, events[0].Systems.Elo.Rating)
	assert.Greater(t, events[0].Systems.Glicko.Rating, rating.DefaultGlickoRating)
	assert.Less(t, events[0].Systems.Glicko.RD, rating.DefaultGlickoRD)
}
