package ruleset

import (
	"fmt"
	"sort"
	"sync"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu       sync.RWMutex
	rulesets map[string]Ruleset
}

// NewMockStore creates a new empty mock ruleset store.
func NewMockStore() *MockStore {
	return &MockStore{rulesets: make(map[string]Ruleset)}
}

func (m *MockStore) Create(r Ruleset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rulesets[r.ID] = r
	return nil
}

func (m *MockStore) Get(id string) (Ruleset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rulesets[id]
	if !ok {
		return Ruleset{}, fmt.Errorf("%w: %s", ErrUnknownRuleset, id)
	}
	return r, nil
}

func (m *MockStore) ListBySport(sportID string) ([]Ruleset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Ruleset
	for _, r := range m.rulesets {
		if r.SportID == sportID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockStore) Resolve(sportID, rulesetID string) (Ruleset, error) {
	if rulesetID != "" {
		r, err := m.Get(rulesetID)
		if err != nil {
			return Ruleset{}, err
		}
		if r.SportID != sportID {
			return Ruleset{}, fmt.Errorf("%w: ruleset %s belongs to %s, not %s",
				ErrRulesetMismatch, rulesetID, r.SportID, sportID)
		}
		return r, nil
	}
	all, _ := m.ListBySport(sportID)
	if len(all) == 0 {
		return Ruleset{}, fmt.Errorf("%w: %s", ErrNoRulesetConfigured, sportID)
	}
	return all[0], nil
}
