package rating

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
)

// Engine updates the two parallel rating systems after a completed
// match. All math is pure; persistence goes through the injected Store
// and the caller owns the transaction boundary.
type Engine struct {
	store   Store
	audit   AuditLog
	metrics metrics.Metrics
	now     func() time.Time
}

// New creates a new rating engine. audit may be nil when no audit trail
// is wanted.
func New(store Store, audit AuditLog, m metrics.Metrics) *Engine {
	return &Engine{
		store:   store,
		audit:   audit,
		metrics: m,
		now:     time.Now,
	}
}

// UpdateRatings applies the outcome of one match to every involved
// player's Elo and Glicko ratings. winners and losers are the two sides
// of a decided match; draws lists all players of a drawn match. An
// outcome with no winners, losers or draws is a no-op, not an error.
// When matchID is non-empty a RATING audit event is appended per player.
func (e *Engine) UpdateRatings(sportID string, winners, losers, draws []string, matchID string) error {
	decided := len(winners) > 0 && len(losers) > 0
	drawn := len(draws) >= 2
	if !decided && !drawn {
		log.Debug("No rating-relevant outcome, skipping", "sport", sportID, "matchID", matchID)
		return nil
	}

	if decided {
		if err := e.updateSides(sportID, winners, losers, matchID); err != nil {
			return err
		}
	}
	if drawn {
		if err := e.updateDraws(sportID, draws, matchID); err != nil {
			return err
		}
	}
	return nil
}

// updateSides handles a clean win/loss between two sides.
func (e *Engine) updateSides(sportID string, winners, losers []string, matchID string) error {
	winnerElos, winnerGlickos, err := e.loadAll(sportID, winners)
	if err != nil {
		return err
	}
	loserElos, loserGlickos, err := e.loadAll(sportID, losers)
	if err != nil {
		return err
	}

	winnerAvg := average(eloValues(winnerElos))
	loserAvg := average(eloValues(loserElos))
	winnerGlickoAvg, winnerRDAvg := glickoAverages(winnerGlickos)
	loserGlickoAvg, loserRDAvg := glickoAverages(loserGlickos)

	for i := range winners {
		if err := e.applyOne(sportID, matchID, winnerElos[i], winnerGlickos[i], loserAvg, loserGlickoAvg, loserRDAvg, 1.0); err != nil {
			return err
		}
	}
	for i := range losers {
		if err := e.applyOne(sportID, matchID, loserElos[i], loserGlickos[i], winnerAvg, winnerGlickoAvg, winnerRDAvg, 0.0); err != nil {
			return err
		}
	}
	return nil
}

// updateDraws scores every drawn player 0.5 against the average of the
// other drawn players.
func (e *Engine) updateDraws(sportID string, draws []string, matchID string) error {
	elos, glickos, err := e.loadAll(sportID, draws)
	if err != nil {
		return err
	}

	var eloSum, glickoSum, rdSum float64
	for i := range elos {
		eloSum += elos[i].Rating
		glickoSum += glickos[i].Rating
		rdSum += glickos[i].RD
	}
	n := float64(len(draws))

	for i := range draws {
		oppElo := (eloSum - elos[i].Rating) / (n - 1)
		oppGlicko := (glickoSum - glickos[i].Rating) / (n - 1)
		oppRD := (rdSum - glickos[i].RD) / (n - 1)
		if err := e.applyOne(sportID, matchID, elos[i], glickos[i], oppElo, oppGlicko, oppRD, 0.5); err != nil {
			return err
		}
	}
	return nil
}

// applyOne updates both rating systems for a single player and writes
// the audit event.
func (e *Engine) applyOne(sportID, matchID string, elo Rating, glicko GlickoRating, oppElo, oppGlicko, oppRD, actual float64) error {
	count, err := e.store.CountPlayerMatches(elo.PlayerID, sportID)
	if err != nil {
		return fmt.Errorf("failed to count matches for player %s: %w", elo.PlayerID, err)
	}
	// The match being rated is already persisted when a match id is
	// given, so damping keys off prior matches only.
	if matchID != "" && count > 0 {
		count--
	}

	delta := EloDelta(elo.Rating, oppElo, actual, KFactor(count))
	elo.Rating += delta
	if err := e.store.SaveRating(elo); err != nil {
		return fmt.Errorf("failed to save rating for player %s: %w", elo.PlayerID, err)
	}

	glicko = GlickoUpdate(glicko, oppGlicko, oppRD, actual, e.now())
	if err := e.store.SaveGlicko(glicko); err != nil {
		return fmt.Errorf("failed to save glicko rating for player %s: %w", elo.PlayerID, err)
	}

	log.Debug("Updated ratings",
		"player", elo.PlayerID, "sport", sportID,
		"elo", elo.Rating, "delta", delta,
		"glicko", glicko.Rating, "rd", glicko.RD)
	e.metrics.IncRatingsUpdated()

	if matchID != "" && e.audit != nil {
		audit := RatingAudit{
			PlayerID: elo.PlayerID,
			Rating:   elo.Rating,
			Systems: AuditSystems{
				Elo:    AuditElo{Rating: elo.Rating},
				Glicko: AuditGlicko{Rating: glicko.Rating, RD: glicko.RD},
			},
		}
		if err := e.audit.AppendRatingEvent(matchID, audit); err != nil {
			return fmt.Errorf("failed to append rating audit event: %w", err)
		}
	}
	return nil
}

func (e *Engine) loadAll(sportID string, playerIDs []string) ([]Rating, []GlickoRating, error) {
	elos := make([]Rating, 0, len(playerIDs))
	glickos := make([]GlickoRating, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		elo, err := e.store.GetRating(playerID, sportID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load rating for player %s: %w", playerID, err)
		}
		glicko, err := e.store.GetGlicko(playerID, sportID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load glicko rating for player %s: %w", playerID, err)
		}
		elos = append(elos, elo)
		glickos = append(glickos, glicko)
	}
	return elos, glickos, nil
}

func eloValues(ratings []Rating) []float64 {
	values := make([]float64, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	return values
}

func glickoAverages(ratings []GlickoRating) (rating, rd float64) {
	if len(ratings) == 0 {
		return 0, 0
	}
	for _, g := range ratings {
		rating += g.Rating
		rd += g.RD
	}
	n := float64(len(ratings))
	return rating / n, rd / n
}
