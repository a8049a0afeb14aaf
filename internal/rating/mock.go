package rating

import "sync"

// MockStore is an in-memory implementation of the Store interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu      sync.Mutex
	ratings map[string]Rating
	glickos map[string]GlickoRating
	// MatchCounts configures CountPlayerMatches per player id.
	MatchCounts map[string]int
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{
		ratings:     make(map[string]Rating),
		glickos:     make(map[string]GlickoRating),
		MatchCounts: make(map[string]int),
	}
}

func key(playerID, sportID string) string {
	return playerID + "/" + sportID
}

func (m *MockStore) GetRating(playerID, sportID string) (Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.ratings[key(playerID, sportID)]; ok {
		return r, nil
	}
	return Rating{PlayerID: playerID, SportID: sportID, Rating: DefaultEloRating}, nil
}

func (m *MockStore) SaveRating(r Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[key(r.PlayerID, r.SportID)] = r
	return nil
}

func (m *MockStore) GetGlicko(playerID, sportID string) (GlickoRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.glickos[key(playerID, sportID)]; ok {
		return g, nil
	}
	return GlickoRating{
		PlayerID: playerID,
		SportID:  sportID,
		Rating:   DefaultGlickoRating,
		RD:       DefaultGlickoRD,
	}, nil
}

func (m *MockStore) SaveGlicko(g GlickoRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.glickos[key(g.PlayerID, g.SportID)] = g
	return nil
}

func (m *MockStore) CountPlayerMatches(playerID, sportID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MatchCounts[playerID], nil
}

func (m *MockStore) Leaderboard(sportID string) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []LeaderboardEntry
	for _, r := range m.ratings {
		if r.SportID != sportID {
			continue
		}
		entries = append(entries, LeaderboardEntry{PlayerID: r.PlayerID, EloRating: r.Rating})
	}
	return entries, nil
}

// MockAuditLog records rating audit events per match for testing.
type MockAuditLog struct {
	mu     sync.Mutex
	Events map[string][]RatingAudit
}

// NewMockAuditLog creates a new mock instance.
func NewMockAuditLog() *MockAuditLog {
	return &MockAuditLog{Events: make(map[string][]RatingAudit)}
}

func (m *MockAuditLog) AppendRatingEvent(matchID string, audit RatingAudit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[matchID] = append(m.Events[matchID], audit)
	return nil
}
