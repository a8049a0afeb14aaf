package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Metrics = (*Service)(nil)

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		EventsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_score_events_applied_total",
			Help: "The total number of score events applied to matches.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_matches_completed_total",
			Help: "The total number of matches that reached a decided state.",
		}),
		RatingsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ratings_updated_total",
			Help: "The total number of per-player rating updates performed.",
		}),
		StandingsRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_standings_rebuilds_total",
			Help: "The total number of stage standings rebuilds.",
		}),
		StagesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_stages_scheduled_total",
			Help: "The total number of tournament stages scheduled.",
		}),
		ReplayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_match_replay_duration_seconds",
			Help:    "The duration of individual match event-log replays.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(
		s.EventsApplied,
		s.MatchesCompleted,
		s.RatingsUpdated,
		s.StandingsRebuilds,
		s.StagesScheduled,
		s.ReplayDuration,
	)

	return s
}

func (s *Service) IncEventsApplied() {
	s.EventsApplied.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncRatingsUpdated() {
	s.RatingsUpdated.Inc()
}

func (s *Service) IncStandingsRebuilds() {
	s.StandingsRebuilds.Inc()
}

func (s *Service) IncStagesScheduled() {
	s.StagesScheduled.Inc()
}

func (s *Service) ObserveReplayDuration(duration float64) {
	s.ReplayDuration.Observe(duration)
}
