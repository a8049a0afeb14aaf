package scheduler

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

type stageStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStageStore creates a stage store backed by the given database.
func NewStageStore(db *sql.DB) StageStore {
	return &stageStore{db: db}
}

func (s *stageStore) Create(st Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tournamentID any
	if st.TournamentID != "" {
		tournamentID = st.TournamentID
	}
	_, err := s.db.Exec(
		`INSERT INTO stages (id, tournament_id, type) VALUES (?, ?, ?)`,
		st.ID, tournamentID, st.Type,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stage %s: %w", st.ID, err)
	}
	return nil
}

func (s *stageStore) Get(id string) (Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stage
	var tournamentID sql.NullString
	err := s.db.QueryRow(
		`SELECT id, tournament_id, type FROM stages WHERE id = ?`, id,
	).Scan(&st.ID, &tournamentID, &st.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return Stage{}, fmt.Errorf("%w: %s", ErrUnknownStage, id)
	}
	if err != nil {
		return Stage{}, fmt.Errorf("failed to get stage %s: %w", id, err)
	}
	st.TournamentID = tournamentID.String
	return st, nil
}

// MockStageStore is an in-memory StageStore for tests.
type MockStageStore struct {
	mu     sync.RWMutex
	stages map[string]Stage
}

// NewMockStageStore creates a new empty mock stage store.
func NewMockStageStore() *MockStageStore {
	return &MockStageStore{stages: make(map[string]Stage)}
}

func (m *MockStageStore) Create(st Stage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[st.ID] = st
	return nil
}

func (m *MockStageStore) Get(id string) (Stage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.stages[id]
	if !ok {
		return Stage{}, fmt.Errorf("%w: %s", ErrUnknownStage, id)
	}
	return st, nil
}
