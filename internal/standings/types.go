package standings

// StageStanding is one derived row per (stage, player). Points are
// ranking points (3 for a win, 1 for a draw), not score points.
type StageStanding struct {
	StageID       string `json:"stageId"`
	PlayerID      string `json:"playerId"`
	MatchesPlayed int    `json:"matchesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	PointsScored  int    `json:"pointsScored"`
	PointsAllowed int    `json:"pointsAllowed"`
	PointsDiff    int    `json:"pointsDiff"`
	SetsWon       int    `json:"setsWon"`
	SetsLost      int    `json:"setsLost"`
	Points        int    `json:"points"`
}
