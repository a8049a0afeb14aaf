package ruleset

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new ruleset store backed by the given database.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Create(r Ruleset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal ruleset config: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO rulesets (id, sport_id, config_json) VALUES (?, ?, ?)`,
		r.ID, r.SportID, string(cfg),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ruleset %s: %w", r.ID, err)
	}
	return nil
}

func (s *store) Get(id string) (Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *store) get(id string) (Ruleset, error) {
	var r Ruleset
	var cfg string
	err := s.db.QueryRow(
		`SELECT id, sport_id, config_json FROM rulesets WHERE id = ?`, id,
	).Scan(&r.ID, &r.SportID, &cfg)
	if errors.Is(err, sql.ErrNoRows) {
		return Ruleset{}, fmt.Errorf("%w: %s", ErrUnknownRuleset, id)
	}
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to get ruleset %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cfg), &r.Config); err != nil {
		return Ruleset{}, fmt.Errorf("failed to unmarshal config for ruleset %s: %w", id, err)
	}
	return r, nil
}

func (s *store) ListBySport(sportID string) ([]Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, sport_id, config_json FROM rulesets WHERE sport_id = ? ORDER BY id ASC`,
		sportID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rulesets for %s: %w", sportID, err)
	}
	defer rows.Close()

	var out []Ruleset
	for rows.Next() {
		var r Ruleset
		var cfg string
		if err := rows.Scan(&r.ID, &r.SportID, &cfg); err != nil {
			return nil, fmt.Errorf("failed to scan ruleset row: %w", err)
		}
		if err := json.Unmarshal([]byte(cfg), &r.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config for ruleset %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *store) Resolve(sportID, rulesetID string) (Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rulesetID != "" {
		r, err := s.get(rulesetID)
		if err != nil {
			return Ruleset{}, err
		}
		if r.SportID != sportID {
			return Ruleset{}, fmt.Errorf("%w: ruleset %s belongs to %s, not %s",
				ErrRulesetMismatch, rulesetID, r.SportID, sportID)
		}
		return r, nil
	}

	var r Ruleset
	var cfg string
	err := s.db.QueryRow(
		`SELECT id, sport_id, config_json FROM rulesets WHERE sport_id = ? ORDER BY id ASC LIMIT 1`,
		sportID,
	).Scan(&r.ID, &r.SportID, &cfg)
	if errors.Is(err, sql.ErrNoRows) {
		return Ruleset{}, fmt.Errorf("%w: %s", ErrNoRulesetConfigured, sportID)
	}
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to resolve ruleset for %s: %w", sportID, err)
	}
	if err := json.Unmarshal([]byte(cfg), &r.Config); err != nil {
		return Ruleset{}, fmt.Errorf("failed to unmarshal config for ruleset %s: %w", r.ID, err)
	}
	return r, nil
}
