package standings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

// Aggregator rebuilds stage standings wholesale from the stage's
// non-deleted matches. A rebuild is a delete-then-insert inside one
// transaction, so it is idempotent and safe to re-run.
type Aggregator struct {
	db      *sql.DB
	metrics metrics.Metrics
	mu      sync.Mutex
}

// New creates a standings aggregator backed by the given database.
func New(db *sql.DB, m metrics.Metrics) *Aggregator {
	return &Aggregator{db: db, metrics: m}
}

type stageMatch struct {
	summary *scoring.Summary
	sides   map[scoring.Side][]string
}

// Recompute deletes and rebuilds all standings rows for the stage.
// Every player appearing in any stage match gets a row, even before
// any result is recorded.
func (a *Aggregator) Recompute(stageID string) ([]StageStanding, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	matches, err := a.loadStageMatches(stageID)
	if err != nil {
		return nil, err
	}

	rows := map[string]*StageStanding{}
	standingFor := func(playerID string) *StageStanding {
		if r, ok := rows[playerID]; ok {
			return r
		}
		r := &StageStanding{StageID: stageID, PlayerID: playerID}
		rows[playerID] = r
		return r
	}

	for _, m := range matches {
		sideA := m.sides[scoring.SideA]
		sideB := m.sides[scoring.SideB]
		if len(sideA) == 0 || len(sideB) == 0 {
			continue
		}
		for _, id := range append(append([]string{}, sideA...), sideB...) {
			standingFor(id)
		}
		a.tally(m, sideA, sideB, standingFor)
	}

	out := make([]StageStanding, 0, len(rows))
	for _, r := range rows {
		r.PointsDiff = r.PointsScored - r.PointsAllowed
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].PointsDiff != out[j].PointsDiff {
			return out[i].PointsDiff > out[j].PointsDiff
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	if err := a.replace(stageID, out); err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.IncStandingsRebuilds()
	}
	log.Debug("rebuilt stage standings", "stageID", stageID, "players", len(out), "matches", len(matches))
	return out, nil
}

// tally extracts one match's result. Priority: a decided summary's
// set or game counts, then raw point totals; anything else counts the
// players as stage members without win/loss/draw credit.
func (a *Aggregator) tally(m stageMatch, sideA, sideB []string, standingFor func(string) *StageStanding) {
	sum := m.summary
	if sum == nil {
		return
	}

	credit := func(players []string, f func(*StageStanding)) {
		for _, id := range players {
			f(standingFor(id))
		}
	}

	switch {
	case sum.Decided && sum.Winner.Valid():
		winners, losers := sideA, sideB
		if sum.Winner == scoring.SideB {
			winners, losers = sideB, sideA
		}
		setsW, setsL := setCounts(sum, sum.Winner)
		ptsW, ptsL := sum.Total[sum.Winner], sum.Total[sum.Winner.Other()]
		credit(winners, func(r *StageStanding) {
			r.MatchesPlayed++
			r.Wins++
			r.Points += 3
			r.SetsWon += setsW
			r.SetsLost += setsL
			r.PointsScored += ptsW
			r.PointsAllowed += ptsL
		})
		credit(losers, func(r *StageStanding) {
			r.MatchesPlayed++
			r.Losses++
			r.SetsWon += setsL
			r.SetsLost += setsW
			r.PointsScored += ptsL
			r.PointsAllowed += ptsW
		})

	case sum.Total[scoring.SideA]+sum.Total[scoring.SideB] > 0:
		totalA, totalB := sum.Total[scoring.SideA], sum.Total[scoring.SideB]
		credit(sideA, func(r *StageStanding) {
			r.MatchesPlayed++
			r.PointsScored += totalA
			r.PointsAllowed += totalB
		})
		credit(sideB, func(r *StageStanding) {
			r.MatchesPlayed++
			r.PointsScored += totalB
			r.PointsAllowed += totalA
		})
		switch {
		case totalA > totalB:
			credit(sideA, func(r *StageStanding) { r.Wins++; r.Points += 3 })
			credit(sideB, func(r *StageStanding) { r.Losses++ })
		case totalB > totalA:
			credit(sideB, func(r *StageStanding) { r.Wins++; r.Points += 3 })
			credit(sideA, func(r *StageStanding) { r.Losses++ })
		default:
			credit(append(append([]string{}, sideA...), sideB...), func(r *StageStanding) {
				r.Draws++
				r.Points++
			})
		}
	}
}

// setCounts reads the winner's and loser's set tallies, falling back
// to game counts for sports without a set layer.
func setCounts(sum *scoring.Summary, winner scoring.Side) (won, lost int) {
	if len(sum.Sets) > 0 {
		return sum.Sets[winner], sum.Sets[winner.Other()]
	}
	if len(sum.Games) > 0 {
		return sum.Games[winner], sum.Games[winner.Other()]
	}
	return 0, 0
}

func (a *Aggregator) loadStageMatches(stageID string) ([]stageMatch, error) {
	rows, err := a.db.Query(`
		SELECT m.id, m.details_json, p.side, p.player_ids_json
		FROM matches m
		JOIN match_participants p ON p.match_id = m.id
		WHERE m.stage_id = ? AND m.deleted_at IS NULL
		ORDER BY m.created_at ASC, m.id ASC, p.side ASC`, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for stage %s: %w", stageID, err)
	}
	defer rows.Close()

	byID := map[string]*stageMatch{}
	var order []string
	for rows.Next() {
		var matchID, side, playerIDs string
		var details sql.NullString
		if err := rows.Scan(&matchID, &details, &side, &playerIDs); err != nil {
			return nil, fmt.Errorf("failed to scan stage match row: %w", err)
		}
		m, ok := byID[matchID]
		if !ok {
			m = &stageMatch{sides: map[scoring.Side][]string{}}
			if details.Valid && details.String != "" {
				var sum scoring.Summary
				if err := json.Unmarshal([]byte(details.String), &sum); err != nil {
					return nil, fmt.Errorf("failed to unmarshal details for match %s: %w", matchID, err)
				}
				m.summary = &sum
			}
			byID[matchID] = m
			order = append(order, matchID)
		}
		var ids []string
		if err := json.Unmarshal([]byte(playerIDs), &ids); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player ids for match %s: %w", matchID, err)
		}
		m.sides[scoring.Side(side)] = ids
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]stageMatch, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (a *Aggregator) replace(stageID string, rows []StageStanding) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin standings transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stage_standings WHERE stage_id = ?`, stageID); err != nil {
		return fmt.Errorf("failed to clear standings for stage %s: %w", stageID, err)
	}
	for _, r := range rows {
		_, err := tx.Exec(`
			INSERT INTO stage_standings (stage_id, player_id, matches_played, wins, losses, draws,
				points_scored, points_allowed, points_diff, sets_won, sets_lost, points)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.StageID, r.PlayerID, r.MatchesPlayed, r.Wins, r.Losses, r.Draws,
			r.PointsScored, r.PointsAllowed, r.PointsDiff, r.SetsWon, r.SetsLost, r.Points,
		)
		if err != nil {
			return fmt.Errorf("failed to insert standing for player %s: %w", r.PlayerID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit standings for stage %s: %w", stageID, err)
	}
	return nil
}

// List returns the stored standings for a stage in ranking order.
func (a *Aggregator) List(stageID string) ([]StageStanding, error) {
	rows, err := a.db.Query(`
		SELECT stage_id, player_id, matches_played, wins, losses, draws,
			points_scored, points_allowed, points_diff, sets_won, sets_lost, points
		FROM stage_standings WHERE stage_id = ?
		ORDER BY points DESC, points_diff DESC, player_id ASC`, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for stage %s: %w", stageID, err)
	}
	defer rows.Close()

	var out []StageStanding
	for rows.Next() {
		var r StageStanding
		if err := rows.Scan(&r.StageID, &r.PlayerID, &r.MatchesPlayed, &r.Wins, &r.Losses, &r.Draws,
			&r.PointsScored, &r.PointsAllowed, &r.PointsDiff, &r.SetsWon, &r.SetsLost, &r.Points); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
