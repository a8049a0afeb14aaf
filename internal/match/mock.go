package match

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/HeXi037/cross-sport-tracker/internal/rating"
	"github.com/HeXi037/cross-sport-tracker/internal/scoring"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu           sync.RWMutex
	matches      map[string]Match
	participants map[string][]Participant
	events       map[string][]StoredEvent
	players      map[string]Player
	nextEventID  int64
}

// NewMockStore creates a new empty mock match store.
func NewMockStore() *MockStore {
	return &MockStore{
		matches:      make(map[string]Match),
		participants: make(map[string][]Participant),
		events:       make(map[string][]StoredEvent),
		players:      make(map[string]Player),
	}
}

func (m *MockStore) CreateMatch(mt Match, participants []Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.matches[mt.ID]; exists {
		return fmt.Errorf("match %s already exists", mt.ID)
	}
	if mt.CreatedAt.IsZero() {
		mt.CreatedAt = time.Now()
	}
	m.matches[mt.ID] = mt
	m.participants[mt.ID] = append([]Participant{}, participants...)
	return nil
}

func (m *MockStore) CreateMatches(matches []Match, participants [][]Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(matches) != len(participants) {
		return fmt.Errorf("mismatched batch: %d matches, %d participant sets", len(matches), len(participants))
	}
	seen := make(map[string]bool, len(matches))
	for _, mt := range matches {
		if _, exists := m.matches[mt.ID]; exists || seen[mt.ID] {
			return fmt.Errorf("match %s already exists", mt.ID)
		}
		seen[mt.ID] = true
	}
	for i, mt := range matches {
		if mt.CreatedAt.IsZero() {
			mt.CreatedAt = time.Now()
		}
		m.matches[mt.ID] = mt
		m.participants[mt.ID] = append([]Participant{}, participants[i]...)
	}
	return nil
}

func (m *MockStore) GetMatch(id string) (Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.matches[id]
	if !ok || mt.DeletedAt != nil {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return mt, nil
}

func (m *MockStore) GetParticipants(matchID string) ([]Participant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Participant{}, m.participants[matchID]...), nil
}

func (m *MockStore) ListByStage(stageID string) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Match
	for _, mt := range m.matches {
		if mt.StageID == stageID && mt.DeletedAt == nil {
			out = append(out, mt)
		}
	}
	return out, nil
}

func (m *MockStore) ListAll() ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Match
	for _, mt := range m.matches {
		if mt.DeletedAt == nil {
			out = append(out, mt)
		}
	}
	return out, nil
}

func (m *MockStore) CountByStage(stageID string) (int, error) {
	matches, _ := m.ListByStage(stageID)
	return len(matches), nil
}

func (m *MockStore) UpdateDetails(matchID string, summary scoring.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.matches[matchID]
	if !ok || mt.DeletedAt != nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	mt.Details = &summary
	m.matches[matchID] = mt
	return nil
}

func (m *MockStore) SoftDelete(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.matches[matchID]
	if !ok || mt.DeletedAt != nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	now := time.Now()
	mt.DeletedAt = &now
	m.matches[matchID] = mt
	return nil
}

func (m *MockStore) AppendEvent(matchID string, eventType scoring.EventType, payload any) (StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, err := json.Marshal(payload)
	if err != nil {
		return StoredEvent{}, err
	}
	m.nextEventID++
	ev := StoredEvent{
		ID:        m.nextEventID,
		MatchID:   matchID,
		Type:      eventType,
		Payload:   b,
		CreatedAt: time.Now(),
	}
	m.events[matchID] = append(m.events[matchID], ev)
	return ev, nil
}

func (m *MockStore) ListEvents(matchID string) ([]StoredEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]StoredEvent{}, m.events[matchID]...), nil
}

func (m *MockStore) AppendRatingEvent(matchID string, audit rating.RatingAudit) error {
	_, err := m.AppendEvent(matchID, scoring.EventRating, audit)
	return err
}

func (m *MockStore) CreatePlayer(p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
	return nil
}

func (m *MockStore) ListPlayers(ids []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.players[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}
