package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the engine packages from the specific metrics
// implementation (e.g. Prometheus).
type Metrics interface {
	IncEventsApplied()
	IncMatchesCompleted()
	IncRatingsUpdated()
	IncStandingsRebuilds()
	IncStagesScheduled()
	ObserveReplayDuration(duration float64)
}
