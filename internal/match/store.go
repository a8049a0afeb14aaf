package match

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new match store backed by the given database.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) CreateMatch(m Match, participants []Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var details any
	if m.Details != nil {
		b, err := json.Marshal(m.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal match details: %w", err)
		}
		details = string(b)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMatchTx(tx, m, details, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match %s: %w", m.ID, err)
	}
	return nil
}

// CreateMatches inserts a batch of matches and their participants in a
// single transaction, so a generated stage schedule is persisted
// all-or-nothing.
func (s *store) CreateMatches(matches []Match, participants [][]Participant) error {
	if len(matches) != len(participants) {
		return fmt.Errorf("mismatched batch: %d matches, %d participant sets", len(matches), len(participants))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, m := range matches {
		var details any
		if m.Details != nil {
			b, err := json.Marshal(m.Details)
			if err != nil {
				return fmt.Errorf("failed to marshal match details: %w", err)
			}
			details = string(b)
		}
		if err := insertMatchTx(tx, m, details, participants[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match batch: %w", err)
	}
	return nil
}

func insertMatchTx(tx *sql.Tx, m Match, details any, participants []Participant) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := tx.Exec(`
		INSERT INTO matches (id, sport_id, stage_id, ruleset_id, best_of, played_at, location, is_friendly, details_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SportID, nullString(m.StageID), nullString(m.RulesetID),
		nullInt(m.BestOf), nullTime(m.PlayedAt), nullString(m.Location),
		boolToInt(m.IsFriendly), details, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}

	for _, p := range participants {
		ids, err := json.Marshal(p.PlayerIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal player ids: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO match_participants (id, match_id, side, player_ids_json)
			VALUES (?, ?, ?, ?)`,
			p.ID, m.ID, string(p.Side), string(ids),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant for match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (s *store) GetMatch(id string) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, sport_id, stage_id, ruleset_id, best_of, played_at, location, is_friendly, details_json, created_at, deleted_at
		FROM matches WHERE id = ? AND deleted_at IS NULL`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return Match{}, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return m, nil
}

func (s *store) GetParticipants(matchID string) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, side, player_ids_json
		FROM match_participants WHERE match_id = ? ORDER BY side ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		var side, ids string
		if err := rows.Scan(&p.ID, &p.MatchID, &side, &ids); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		p.Side = scoring.Side(side)
		if err := json.Unmarshal([]byte(ids), &p.PlayerIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player ids: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *store) ListByStage(stageID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, sport_id, stage_id, ruleset_id, best_of, played_at, location, is_friendly, details_json, created_at, deleted_at
		FROM matches WHERE stage_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for stage %s: %w", stageID, err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *store) ListAll() ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, sport_id, stage_id, ruleset_id, best_of, played_at, location, is_friendly, details_json, created_at, deleted_at
		FROM matches WHERE deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *store) CountByStage(stageID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM matches WHERE stage_id = ? AND deleted_at IS NULL`, stageID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for stage %s: %w", stageID, err)
	}
	return n, nil
}

func (s *store) UpdateDetails(matchID string, summary scoring.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE matches SET details_json = ? WHERE id = ? AND deleted_at IS NULL`,
		string(b), matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update details for match %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return nil
}

func (s *store) SoftDelete(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE matches SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Unix(), matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return nil
}

func (s *store) AppendEvent(matchID string, eventType scoring.EventType, payload any) (StoredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(payload)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	createdAt := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO score_events (match_id, type, payload_json, created_at)
		VALUES (?, ?, ?, ?)`,
		matchID, string(eventType), string(b), createdAt.Unix(),
	)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("failed to append event to match %s: %w", matchID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return StoredEvent{}, fmt.Errorf("failed to read event id: %w", err)
	}
	return StoredEvent{
		ID:        id,
		MatchID:   matchID,
		Type:      eventType,
		Payload:   b,
		CreatedAt: createdAt,
	}, nil
}

func (s *store) ListEvents(matchID string) ([]StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, type, payload_json, created_at
		FROM score_events WHERE match_id = ?
		ORDER BY created_at ASC, id ASC`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var typ, payload string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.MatchID, &typ, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.Type = scoring.EventType(typ)
		e.Payload = json.RawMessage(payload)
		e.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// AppendRatingEvent writes the rating engine's audit trail into the
// match's event log. RATING events are never replayed by the scorer.
func (s *store) AppendRatingEvent(matchID string, audit rating.RatingAudit) error {
	_, err := s.AppendEvent(matchID, scoring.EventRating, audit)
	return err
}

func (s *store) CreatePlayer(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO players (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		p.ID, p.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
	}
	return nil
}

func (s *store) ListPlayers(ids []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.Query(
		`SELECT id FROM players WHERE id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var m Match
	var stageID, rulesetID, location, details sql.NullString
	var bestOf, playedAt, deletedAt sql.NullInt64
	var isFriendly int
	var createdAt int64

	err := row.Scan(&m.ID, &m.SportID, &stageID, &rulesetID, &bestOf,
		&playedAt, &location, &isFriendly, &details, &createdAt, &deletedAt)
	if err != nil {
		return Match{}, err
	}

	m.StageID = stageID.String
	m.RulesetID = rulesetID.String
	m.Location = location.String
	m.BestOf = int(bestOf.Int64)
	m.IsFriendly = isFriendly != 0
	m.CreatedAt = time.Unix(createdAt, 0)
	if playedAt.Valid {
		t := time.Unix(playedAt.Int64, 0)
		m.PlayedAt = &t
	}
	if deletedAt.Valid {
		t := time.Unix(deletedAt.Int64, 0)
		m.DeletedAt = &t
	}
	if details.Valid && details.String != "" {
		var sum scoring.Summary
		if err := json.Unmarshal([]byte(details.String), &sum); err != nil {
			return Match{}, fmt.Errorf("failed to unmarshal match details: %w", err)
		}
		m.Details = &sum
	}
	return m, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
