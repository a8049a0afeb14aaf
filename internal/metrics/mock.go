package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	eventsApplied     int
	matchesCompleted  int
	ratingsUpdated    int
	standingsRebuilds int
	stagesScheduled   int
	replayDurations   []float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		replayDurations: make([]float64, 0),
	}
}

func (m *Mock) IncEventsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsApplied++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncRatingsUpdated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingsUpdated++
}

func (m *Mock) IncStandingsRebuilds() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsRebuilds++
}

func (m *Mock) IncStagesScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stagesScheduled++
}

func (m *Mock) ObserveReplayDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replayDurations = append(m.replayDurations, duration)
}

// EventsApplied returns the number of times IncEventsApplied was called.
func (m *Mock) EventsApplied() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsApplied
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// RatingsUpdated returns the number of times IncRatingsUpdated was called.
func (m *Mock) RatingsUpdated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingsUpdated
}

// StandingsRebuilds returns the number of times IncStandingsRebuilds was called.
func (m *Mock) StandingsRebuilds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsRebuilds
}

// StagesScheduled returns the number of times IncStagesScheduled was called.
func (m *Mock) StagesScheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stagesScheduled
}
