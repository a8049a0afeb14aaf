package rating

import "time"

// Defaults and bounds for the two rating systems.
const (
	DefaultEloRating = 1000.0
	DefaultK         = 32.0
	// Players with more than this many recorded matches in a sport get
	// half the K-factor.
	ExperiencedMatches = 30

	DefaultGlickoRating = 1500.0
	DefaultGlickoRD     = 350.0
	// The rating deviation never narrows below this floor.
	GlickoRDFloor = 30.0
)

// Rating is one Elo-like value per (player, sport).
type Rating struct {
	PlayerID string  `json:"player_id"`
	SportID  string  `json:"sport_id"`
	Rating   float64 `json:"rating"`
}

// GlickoRating is one (rating, deviation) pair per (player, sport).
// UpdatedAt drives deviation widening with inactivity.
type GlickoRating struct {
	PlayerID  string    `json:"player_id"`
	SportID   string    `json:"sport_id"`
	Rating    float64   `json:"rating"`
	RD        float64   `json:"rd"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeaderboardEntry is one row of a per-sport rating leaderboard.
type LeaderboardEntry struct {
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	EloRating    float64 `json:"elo_rating"`
	GlickoRating float64 `json:"glicko_rating"`
	GlickoRD     float64 `json:"glicko_rd"`
}

// RatingAudit is the payload of a RATING score event, recording a
// player's ratings after an update. It is an audit trail, not replayed
// into match summaries.
type RatingAudit struct {
	PlayerID string       `json:"playerId"`
	Rating   float64      `json:"rating"`
	Systems  AuditSystems `json:"systems"`
}

// AuditSystems splits the audit per rating system.
type AuditSystems struct {
	Elo    AuditElo    `json:"elo"`
	Glicko AuditGlicko `json:"glicko"`
}

type AuditElo struct {
	Rating float64 `json:"rating"`
}

type AuditGlicko struct {
	Rating float64 `json:"rating"`
	RD     float64 `json:"rd"`
}
