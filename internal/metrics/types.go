package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming
// and labeling.
type Service struct {
	EventsApplied     prometheus.Counter
	MatchesCompleted  prometheus.Counter
	RatingsUpdated    prometheus.Counter
	StandingsRebuilds prometheus.Counter
	StagesScheduled   prometheus.Counter
	ReplayDuration    prometheus.Histogram
}
