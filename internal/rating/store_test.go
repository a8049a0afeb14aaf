package rating_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/HeXi037/cross-sport-tracker/internal/database"
	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (rating.Store, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO sports (id, name) VALUES ('padel', 'Padel')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO players (id, name) VALUES ('p1', 'Player One'), ('p2', 'Player Two')`)
	require.NoError(t, err)

	return rating.NewStore(db), db, teardown
}

func TestRatingStore_LazyDefaults(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	r, err := store.GetRating("p1", "padel")
	require.NoError(t, err)
	assert.Equal(t, rating.DefaultEloRating, r.Rating)

	g, err := store.GetGlicko("p1", "padel")
	require.NoError(t, err)
	assert.Equal(t, rating.DefaultGlickoRating, g.Rating)
	assert.Equal(t, rating.DefaultGlickoRD, g.RD)
	assert.True(t, g.UpdatedAt.IsZero())
}

func TestRatingStore_SaveIsUpsert(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "p1", SportID: "padel", Rating: 1016}))
	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "p1", SportID: "padel", Rating: 1031.5}))

	r, err := store.GetRating("p1", "padel")
	require.NoError(t, err)
	assert.Equal(t, 1031.5, r.Rating)
}

func TestRatingStore_GlickoRoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	updated := time.Unix(1700000000, 0)
	require.NoError(t, store.SaveGlicko(rating.GlickoRating{
		PlayerID: "p2", SportID: "padel", Rating: 1480.25, RD: 290.5, UpdatedAt: updated,
	}))

	g, err := store.GetGlicko("p2", "padel")
	require.NoError(t, err)
	assert.Equal(t, 1480.25, g.Rating)
	assert.Equal(t, 290.5, g.RD)
	assert.True(t, g.UpdatedAt.Equal(updated))
}

func TestRatingStore_CountPlayerMatches(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	now := time.Now().Unix()
	insertMatch := func(id string, deleted bool) {
		var deletedAt any
		if deleted {
			deletedAt = now
		}
		_, err := db.Exec(
			`INSERT INTO matches (id, sport_id, created_at, deleted_at) VALUES (?, 'padel', ?, ?)`,
			id, now, deletedAt,
		)
		require.NoError(t, err)
		_, err = db.Exec(
			`INSERT INTO match_participants (id, match_id, side, player_ids_json) VALUES (?, ?, 'A', '["p1","p2"]')`,
			id+"-a", id,
		)
		require.NoError(t, err)
	}

	insertMatch("m1", false)
	insertMatch("m2", false)
	insertMatch("m3", true)

	count, err := store.CountPlayerMatches("p1", "padel")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "soft-deleted matches are excluded")

	count, err = store.CountPlayerMatches("unknown", "padel")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRatingStore_CountPlayerMatchesExactID(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	now := time.Now().Unix()
	_, err := db.Exec(
		`INSERT INTO matches (id, sport_id, created_at) VALUES ('m1', 'padel', ?)`, now,
	)
	require.NoError(t, err)
	_, err = db.Exec(
		`INSERT INTO match_participants (id, match_id, side, player_ids_json) VALUES ('m1-a', 'm1', 'A', '["px1","p22"]')`,
	)
	require.NoError(t, err)

	// "p_1" and "p%1" would both hit "px1" under a pattern match; ids
	// must be compared as whole array elements.
	for _, id := range []string{"p_1", "p%1", "p2"} {
		count, err := store.CountPlayerMatches(id, "padel")
		require.NoError(t, err)
		assert.Equal(t, 0, count, "id %q must not match any stored id", id)
	}

	count, err := store.CountPlayerMatches("px1", "padel")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRatingStore_LeaderboardOrdersByElo(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "p1", SportID: "padel", Rating: 980}))
	require.NoError(t, store.SaveRating(rating.Rating{PlayerID: "p2", SportID: "padel", Rating: 1040}))
	require.NoError(t, store.SaveGlicko(rating.GlickoRating{PlayerID: "p2", SportID: "padel", Rating: 1520, RD: 300}))

	entries, err := store.Leaderboard("padel")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "p2", entries[0].PlayerID)
	assert.Equal(t, "Player Two", entries[0].PlayerName)
	assert.Equal(t, 1520.0, entries[0].GlickoRating)
	assert.Equal(t, "p1", entries[1].PlayerID)
	assert.Equal(t, rating.DefaultGlickoRating, entries[1].GlickoRating, "players without a glicko row fall back to the default")
}
