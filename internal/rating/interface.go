package rating

// Store defines the persistence operations the rating engine requires.
// Reads return lazy defaults for players without a row; rows are only
// written on save, the first time a player appears in a rated match.
type Store interface {
	GetRating(playerID, sportID string) (Rating, error)
	SaveRating(r Rating) error
	GetGlicko(playerID, sportID string) (GlickoRating, error)
	SaveGlicko(g GlickoRating) error
	// CountPlayerMatches counts a player's appearances in non-deleted
	// matches of a sport, used for K-factor damping.
	CountPlayerMatches(playerID, sportID string) (int, error)
	Leaderboard(sportID string) ([]LeaderboardEntry, error)
}

// AuditLog records rating audit events on a match's event log.
type AuditLog interface {
	AppendRatingEvent(matchID string, audit RatingAudit) error
}
