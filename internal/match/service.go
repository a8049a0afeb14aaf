package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/HeXi037/cross-sport-tracker/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker/internal/ruleset"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
	"github.com/HeXi037/cross-sport-tracker/internal/standings"
)

// ErrSetsUnsupported is returned when a match is recorded by final set
// scores for a sport whose engine cannot synthesize events from them.
var ErrSetsUnsupported = errors.New("sport does not support recording by set scores")

// RatingUpdater is the slice of the rating engine the match service
// needs after a ranked match completes.
type RatingUpdater interface {
	UpdateRatings(sportID string, winners, losers, draws []string, matchID string) error
}

// StandingsRebuilder recomputes a stage's standings after its match
// set or results change.
type StandingsRebuilder interface {
	Recompute(stageID string) ([]standings.StageStanding, error)
}

// Service owns the match lifecycle: creation, event appends with
// summary replay, completion side effects, and soft deletion.
type Service struct {
	store     Store
	rulesets  ruleset.Store
	registry  *scoring.Registry
	ratings   RatingUpdater
	standings StandingsRebuilder
	metrics   metrics.Metrics
}

// NewService creates a match service. ratings and standings may be nil
// when the caller does not want completion side effects.
func NewService(store Store, rulesets ruleset.Store, registry *scoring.Registry,
	ratings RatingUpdater, st StandingsRebuilder, m metrics.Metrics) *Service {
	return &Service{
		store:     store,
		rulesets:  rulesets,
		registry:  registry,
		ratings:   ratings,
		standings: st,
		metrics:   m,
	}
}

// CreateMatchInput carries everything needed to create a match.
type CreateMatchInput struct {
	SportID    string
	StageID    string
	RulesetID  string
	BestOf     int
	PlayedAt   *time.Time
	Location   string
	IsFriendly bool
	SideA      []string
	SideB      []string
}

// CreateMatch validates the roster and ruleset, persists the match
// with its two participants and stores the engine's zero-state summary.
func (s *Service) CreateMatch(in CreateMatchInput) (Match, error) {
	engine, err := s.registry.Get(in.SportID)
	if err != nil {
		return Match{}, err
	}
	if err := s.validateRoster(in.SideA, in.SideB); err != nil {
		return Match{}, err
	}
	if in.RulesetID != "" {
		if _, err := s.rulesets.Resolve(in.SportID, in.RulesetID); err != nil {
			return Match{}, err
		}
	}

	m := Match{
		ID:         uuid.NewString(),
		SportID:    in.SportID,
		StageID:    in.StageID,
		RulesetID:  in.RulesetID,
		BestOf:     in.BestOf,
		PlayedAt:   in.PlayedAt,
		Location:   in.Location,
		IsFriendly: in.IsFriendly,
		CreatedAt:  time.Now(),
	}
	cfg, err := s.configFor(m)
	if err != nil {
		return Match{}, err
	}
	zero := engine.Summary(engine.NewState(cfg))
	m.Details = &zero

	participants := []Participant{
		{ID: uuid.NewString(), MatchID: m.ID, Side: scoring.SideA, PlayerIDs: in.SideA},
		{ID: uuid.NewString(), MatchID: m.ID, Side: scoring.SideB, PlayerIDs: in.SideB},
	}
	if err := s.store.CreateMatch(m, participants); err != nil {
		return Match{}, err
	}
	log.Info("created match", "matchID", m.ID, "sport", m.SportID, "stageID", m.StageID)
	return m, nil
}

// AppendEvent validates the event against the full replayed log before
// persisting it, then refreshes the stored summary. Appending to an
// already-decided match is a silent success returning the unchanged
// summary. On the transition to a decided, non-friendly match the
// rating engine runs; stage matches also trigger a standings rebuild.
func (s *Service) AppendEvent(matchID string, ev scoring.Event) (scoring.Summary, error) {
	if ev.Type == scoring.EventRating {
		return scoring.Summary{}, fmt.Errorf("%w: RATING events are engine-written audit records", scoring.ErrInvalidEvent)
	}

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return scoring.Summary{}, err
	}
	events, err := s.store.ListEvents(matchID)
	if err != nil {
		return scoring.Summary{}, err
	}

	candidate := append(events, StoredEvent{Type: ev.Type, Payload: mustPayload(ev)})
	summary, err := s.replay(m, candidate)
	if err != nil {
		return scoring.Summary{}, err
	}

	if _, err := s.store.AppendEvent(matchID, ev.Type, ev); err != nil {
		return scoring.Summary{}, err
	}
	if err := s.store.UpdateDetails(matchID, summary); err != nil {
		return scoring.Summary{}, err
	}
	if s.metrics != nil {
		s.metrics.IncEventsApplied()
	}

	wasDecided := m.Details != nil && m.Details.Decided
	if !wasDecided && summary.Decided {
		if err := s.completeMatch(m, summary); err != nil {
			return scoring.Summary{}, err
		}
	}
	return summary, nil
}

// RecordMatch creates a match and scores it in one call from final set
// scores, for sports whose engine can synthesize the event log.
func (s *Service) RecordMatch(in CreateMatchInput, sets [][2]int) (Match, scoring.Summary, error) {
	engine, err := s.registry.Get(in.SportID)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}
	recorder, ok := engine.(scoring.SetRecorder)
	if !ok {
		return Match{}, scoring.Summary{}, fmt.Errorf("%w: %s", ErrSetsUnsupported, in.SportID)
	}

	m, err := s.CreateMatch(in)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}
	cfg, err := s.configFor(m)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}
	events, err := recorder.EventsForSets(cfg, sets)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}

	for _, ev := range events {
		if _, err := s.store.AppendEvent(m.ID, ev.Type, ev); err != nil {
			return Match{}, scoring.Summary{}, err
		}
	}
	if s.metrics != nil {
		for range events {
			s.metrics.IncEventsApplied()
		}
	}

	stored, err := s.store.ListEvents(m.ID)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}
	summary, err := s.replay(m, stored)
	if err != nil {
		return Match{}, scoring.Summary{}, err
	}
	if err := s.store.UpdateDetails(m.ID, summary); err != nil {
		return Match{}, scoring.Summary{}, err
	}
	if summary.Decided {
		if err := s.completeMatch(m, summary); err != nil {
			return Match{}, scoring.Summary{}, err
		}
	}
	m.Details = &summary
	return m, summary, nil
}

// GetSummary recomputes the summary from the event log on read. A
// stale details cache is refreshed here rather than treated as an
// error, since details is always a pure fold over the log.
func (s *Service) GetSummary(matchID string) (scoring.Summary, error) {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return scoring.Summary{}, err
	}
	events, err := s.store.ListEvents(matchID)
	if err != nil {
		return scoring.Summary{}, err
	}
	summary, err := s.replay(m, events)
	if err != nil {
		return scoring.Summary{}, err
	}
	if err := s.store.UpdateDetails(matchID, summary); err != nil {
		log.Warn("failed to refresh match details", "matchID", matchID, "error", err)
	}
	return summary, nil
}

// GetMatch returns a match with its participants.
func (s *Service) GetMatch(matchID string) (Match, []Participant, error) {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return Match{}, nil, err
	}
	parts, err := s.store.GetParticipants(matchID)
	if err != nil {
		return Match{}, nil, err
	}
	return m, parts, nil
}

// ListEvents returns the match's ordered event log.
func (s *Service) ListEvents(matchID string) ([]StoredEvent, error) {
	if _, err := s.store.GetMatch(matchID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(matchID)
}

// DeleteMatch soft-deletes a match. Stage standings are rebuilt since
// the stage's match set changed.
func (s *Service) DeleteMatch(matchID string) error {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(matchID); err != nil {
		return err
	}
	log.Info("deleted match", "matchID", matchID)
	if m.StageID != "" && s.standings != nil {
		if _, err := s.standings.Recompute(m.StageID); err != nil {
			return err
		}
	}
	return nil
}

// replay folds the event log through the sport's engine. RATING events
// are audit records and are skipped; an UNDO cancels the most recent
// scoring event still in effect.
func (s *Service) replay(m Match, events []StoredEvent) (scoring.Summary, error) {
	engine, err := s.registry.Get(m.SportID)
	if err != nil {
		return scoring.Summary{}, err
	}
	cfg, err := s.configFor(m)
	if err != nil {
		return scoring.Summary{}, err
	}

	start := time.Now()
	var effective []scoring.Event
	for _, stored := range events {
		switch stored.Type {
		case scoring.EventRating:
			continue
		case scoring.EventUndo:
			if len(effective) > 0 {
				effective = effective[:len(effective)-1]
			}
			continue
		}
		ev, err := stored.ScoringEvent()
		if err != nil {
			return scoring.Summary{}, fmt.Errorf("failed to decode event %d: %w", stored.ID, err)
		}
		effective = append(effective, ev)
	}

	state := engine.NewState(cfg)
	for _, ev := range effective {
		state, err = engine.Apply(state, ev)
		if err != nil {
			return scoring.Summary{}, err
		}
	}
	summary := engine.Summary(state)
	if s.metrics != nil {
		s.metrics.ObserveReplayDuration(time.Since(start).Seconds())
	}
	return summary, nil
}

// configFor resolves the scoring configuration for a match: the named
// ruleset when set, engine defaults otherwise, with a match-level
// best-of override on top.
func (s *Service) configFor(m Match) (scoring.Config, error) {
	cfg := scoring.Config{}
	if m.RulesetID != "" {
		r, err := s.rulesets.Get(m.RulesetID)
		if err != nil {
			return nil, err
		}
		for k, v := range r.Config {
			cfg[k] = v
		}
	}
	if m.BestOf > 0 {
		cfg["bestOf"] = m.BestOf
	}
	return cfg, nil
}

func (s *Service) completeMatch(m Match, summary scoring.Summary) error {
	if s.metrics != nil {
		s.metrics.IncMatchesCompleted()
	}
	log.Info("match decided", "matchID", m.ID, "winner", summary.Winner, "friendly", m.IsFriendly)

	if !m.IsFriendly && s.ratings != nil && summary.Winner.Valid() {
		parts, err := s.store.GetParticipants(m.ID)
		if err != nil {
			return err
		}
		var winners, losers []string
		for _, p := range parts {
			if p.Side == summary.Winner {
				winners = append(winners, p.PlayerIDs...)
			} else {
				losers = append(losers, p.PlayerIDs...)
			}
		}
		if err := s.ratings.UpdateRatings(m.SportID, winners, losers, nil, m.ID); err != nil {
			return err
		}
	}

	if m.StageID != "" && s.standings != nil {
		if _, err := s.standings.Recompute(m.StageID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) validateRoster(sideA, sideB []string) error {
	if len(sideA) == 0 || len(sideB) == 0 {
		return fmt.Errorf("%w: both sides need at least one player", ErrInvalidRoster)
	}
	seen := map[string]scoring.Side{}
	for _, id := range sideA {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidRoster, id)
		}
		seen[id] = scoring.SideA
	}
	for _, id := range sideB {
		if side, dup := seen[id]; dup {
			if side == scoring.SideA {
				return fmt.Errorf("%w: player %s appears on both sides", ErrInvalidRoster, id)
			}
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidRoster, id)
		}
		seen[id] = scoring.SideB
	}

	all := append(append([]string{}, sideA...), sideB...)
	found, err := s.store.ListPlayers(all)
	if err != nil {
		return err
	}
	for _, id := range all {
		if !found[id] {
			return fmt.Errorf("%w: unknown player %s", ErrInvalidRoster, id)
		}
	}
	return nil
}

func mustPayload(ev scoring.Event) []byte {
	// scoring.Event marshals without error: plain fields only.
	b, _ := json.Marshal(ev)
	return b
}
