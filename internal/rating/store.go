package rating

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for ratings.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new rating store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) GetRating(playerID, sportID string) (Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := Rating{PlayerID: playerID, SportID: sportID, Rating: DefaultEloRating}
	err := s.db.QueryRow(
		"SELECT rating FROM ratings WHERE player_id = ? AND sport_id = ?",
		playerID, sportID,
	).Scan(&r.Rating)
	if err == sql.ErrNoRows {
		// Lazy default: the row is only written on first save.
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("failed to load rating: %w", err)
	}
	return r, nil
}

func (s *store) SaveRating(r Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO ratings (player_id, sport_id, rating)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id, sport_id) DO UPDATE SET rating = excluded.rating
	`, r.PlayerID, r.SportID, r.Rating)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

func (s *store) GetGlicko(playerID, sportID string) (GlickoRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := GlickoRating{
		PlayerID: playerID,
		SportID:  sportID,
		Rating:   DefaultGlickoRating,
		RD:       DefaultGlickoRD,
	}
	var updatedAt int64
	err := s.db.QueryRow(
		"SELECT rating, rd, updated_at FROM glicko_ratings WHERE player_id = ? AND sport_id = ?",
		playerID, sportID,
	).Scan(&g.Rating, &g.RD, &updatedAt)
	if err == sql.ErrNoRows {
		return g, nil
	}
	if err != nil {
		return g, fmt.Errorf("failed to load glicko rating: %w", err)
	}
	if updatedAt > 0 {
		g.UpdatedAt = time.Unix(updatedAt, 0)
	}
	return g, nil
}

func (s *store) SaveGlicko(g GlickoRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updatedAt int64
	if !g.UpdatedAt.IsZero() {
		updatedAt = g.UpdatedAt.Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO glicko_ratings (player_id, sport_id, rating, rd, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id, sport_id) DO UPDATE SET
			rating = excluded.rating,
			rd = excluded.rd,
			updated_at = excluded.updated_at
	`, g.PlayerID, g.SportID, g.Rating, g.RD, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save glicko rating: %w", err)
	}
	return nil
}

// CountPlayerMatches counts appearances in non-deleted matches of a
// sport. Player ids inside participant rows are stored as a JSON array
// of quoted ids; json_each compares whole array elements, so an id is
// only counted on an exact match.
func (s *store) CountPlayerMatches(playerID, sportID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT m.id)
		FROM matches m
		JOIN match_participants mp ON mp.match_id = m.id
		WHERE m.sport_id = ?
		  AND m.deleted_at IS NULL
		  AND EXISTS (
			SELECT 1 FROM json_each(mp.player_ids_json)
			WHERE json_each.value = ?
		  )
	`, sportID, playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count player matches: %w", err)
	}
	return count, nil
}

func (s *store) Leaderboard(sportID string) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT r.player_id,
		       COALESCE(p.name, r.player_id),
		       r.rating,
		       COALESCE(g.rating, ?),
		       COALESCE(g.rd, ?)
		FROM ratings r
		LEFT JOIN players p ON p.id = r.player_id
		LEFT JOIN glicko_ratings g ON g.player_id = r.player_id AND g.sport_id = r.sport_id
		WHERE r.sport_id = ?
		ORDER BY r.rating DESC, r.player_id ASC
	`, DefaultGlickoRating, DefaultGlickoRD, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.EloRating, &e.GlickoRating, &e.GlickoRD); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
