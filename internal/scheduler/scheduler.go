package scheduler

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/HeXi037/cross-sport-tracker/internal/match"
	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/ruleset"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

// Scheduler generates a stage's matches from a roster, dispatched by
// the stage's type. All preconditions are checked before any row is
// written, so a failed call never persists a partial schedule.
type Scheduler struct {
	stages    StageStore
	store     match.Store
	rulesets  ruleset.Store
	registry  *scoring.Registry
	standings match.StandingsRebuilder
	metrics   metrics.Metrics
}

// New creates a scheduler. standings may be nil to skip the rebuild
// after scheduling.
func New(stages StageStore, store match.Store, rulesets ruleset.Store,
	registry *scoring.Registry, st match.StandingsRebuilder, m metrics.Metrics) *Scheduler {
	return &Scheduler{
		stages:    stages,
		store:     store,
		rulesets:  rulesets,
		registry:  registry,
		standings: st,
		metrics:   m,
	}
}

// ScheduleStage generates and persists the matches for a stage.
func (s *Scheduler) ScheduleStage(stageID, sportID string, playerIDs []string, rulesetID string) ([]ScheduledMatch, error) {
	stage, err := s.stages.Get(stageID)
	if err != nil {
		return nil, err
	}
	engine, err := s.registry.Get(sportID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.rulesets.Resolve(sportID, rulesetID)
	if err != nil {
		return nil, err
	}
	if err := s.validateRoster(playerIDs); err != nil {
		return nil, err
	}
	existing, err := s.store.CountByStage(stageID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: %s has %d matches", ErrStageAlreadyScheduled, stageID, existing)
	}

	var pairings []pairing
	switch stage.Type {
	case StageAmericano:
		pairings, err = americanoPairings(playerIDs)
	case StageRoundRobin:
		pairings, err = roundRobinPairings(playerIDs)
	case StageSingleElim:
		pairings, err = singleElimPairings(playerIDs)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedStageType, stage.Type)
	}
	if err != nil {
		return nil, err
	}

	zero := engine.Summary(engine.NewState(resolved.Config))
	matches := make([]match.Match, 0, len(pairings))
	participants := make([][]match.Participant, 0, len(pairings))
	for _, p := range pairings {
		m := match.Match{
			ID:        uuid.NewString(),
			SportID:   sportID,
			StageID:   stageID,
			RulesetID: resolved.ID,
			CreatedAt: time.Now(),
			Details:   &zero,
		}
		matches = append(matches, m)
		participants = append(participants, []match.Participant{
			{ID: uuid.NewString(), MatchID: m.ID, Side: scoring.SideA, PlayerIDs: p.sideA},
			{ID: uuid.NewString(), MatchID: m.ID, Side: scoring.SideB, PlayerIDs: p.sideB},
		})
	}
	// One transaction for the whole schedule: a failure mid-batch must
	// not leave the stage partially populated.
	if err := s.store.CreateMatches(matches, participants); err != nil {
		return nil, err
	}
	scheduled := make([]ScheduledMatch, 0, len(matches))
	for i, m := range matches {
		scheduled = append(scheduled, ScheduledMatch{Match: m, Participants: participants[i]})
	}

	if s.standings != nil {
		if _, err := s.standings.Recompute(stageID); err != nil {
			return nil, err
		}
	}
	if s.metrics != nil {
		s.metrics.IncStagesScheduled()
	}
	log.Info("scheduled stage", "stageID", stageID, "type", stage.Type,
		"players", len(playerIDs), "matches", len(scheduled))
	return scheduled, nil
}

type pairing struct {
	sideA []string
	sideB []string
}

// americanoPairings consumes players in fixed input order in groups of
// four: the first two form side A, the last two side B.
func americanoPairings(playerIDs []string) ([]pairing, error) {
	if len(playerIDs) == 0 || len(playerIDs)%4 != 0 {
		return nil, fmt.Errorf("%w: americano needs a positive multiple of 4 players, got %d",
			ErrRosterSize, len(playerIDs))
	}
	var out []pairing
	for i := 0; i < len(playerIDs); i += 4 {
		out = append(out, pairing{
			sideA: []string{playerIDs[i], playerIDs[i+1]},
			sideB: []string{playerIDs[i+2], playerIDs[i+3]},
		})
	}
	return out, nil
}

// roundRobinPairings generates one match per unordered pair of
// distinct players.
func roundRobinPairings(playerIDs []string) ([]pairing, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%w: round robin needs at least 2 players, got %d",
			ErrRosterSize, len(playerIDs))
	}
	var out []pairing
	for i := 0; i < len(playerIDs); i++ {
		for j := i + 1; j < len(playerIDs); j++ {
			out = append(out, pairing{
				sideA: []string{playerIDs[i]},
				sideB: []string{playerIDs[j]},
			})
		}
	}
	return out, nil
}

// singleElimPairings builds a bracket sized to the next power of two.
// Top seeds receive the byes; first-round matches are created only
// where both slots hold a player, and every later round is a
// placeholder match with empty sides to be populated as results come
// in. A match with an unset side is valid and pending.
func singleElimPairings(playerIDs []string) ([]pairing, error) {
	n := len(playerIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: single elimination needs at least 2 players, got %d",
			ErrRosterSize, n)
	}
	bracket := 1
	for bracket < n {
		bracket *= 2
	}

	var out []pairing
	for i := 0; i < bracket/2; i++ {
		j := bracket - 1 - i
		if j < n {
			out = append(out, pairing{
				sideA: []string{playerIDs[i]},
				sideB: []string{playerIDs[j]},
			})
		}
	}
	for round := bracket / 4; round >= 1; round /= 2 {
		for i := 0; i < round; i++ {
			out = append(out, pairing{})
		}
	}
	return out, nil
}

func (s *Scheduler) validateRoster(playerIDs []string) error {
	if len(playerIDs) == 0 {
		return fmt.Errorf("%w: empty roster", match.ErrInvalidRoster)
	}
	seen := map[string]bool{}
	for _, id := range playerIDs {
		if seen[id] {
			return fmt.Errorf("%w: duplicate player %s", match.ErrInvalidRoster, id)
		}
		seen[id] = true
	}
	found, err := s.store.ListPlayers(playerIDs)
	if err != nil {
		return err
	}
	for _, id := range playerIDs {
		if !found[id] {
			return fmt.Errorf("%w: unknown player %s", match.ErrInvalidRoster, id)
		}
	}
	return nil
}
