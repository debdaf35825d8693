package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgame_games_recorded_total",
			Help: "The total number of games recorded, by game type.",
		}, []string{"game_type"}),
		AdjustmentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardgame_adjustments_recorded_total",
			Help: "The total number of manual point adjustments recorded.",
		}),
		RecordsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgame_records_removed_total",
			Help: "The total number of records removed, by kind.",
		}, []string{"kind"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgame_validation_failures_total",
			Help: "The total number of rejected user inputs, by field.",
		}, []string{"field"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boardgame_command_duration_seconds",
			Help:    "The duration of chat command handling.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"command"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardgame_notifications_sent_total",
			Help: "The total number of channel notifications successfully sent.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardgame_notifications_failed_total",
			Help: "The total number of channel notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boardgame_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesRecorded,
		s.AdjustmentsRecorded,
		s.RecordsRemoved,
		s.ValidationFailures,
		s.CommandDuration,
		s.NotificationsSent,
		s.NotificationsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesRecorded(gameType string) {
	s.GamesRecorded.WithLabelValues(gameType).Inc()
}

func (s *Service) IncAdjustmentsRecorded() {
	s.AdjustmentsRecorded.Inc()
}

func (s *Service) IncRecordsRemoved(kind string) {
	s.RecordsRemoved.WithLabelValues(kind).Inc()
}

func (s *Service) IncValidationFailures(field string) {
	s.ValidationFailures.WithLabelValues(field).Inc()
}

func (s *Service) ObserveCommandDuration(command string, duration float64) {
	s.CommandDuration.WithLabelValues(command).Observe(duration)
}

func (s *Service) IncNotificationsSent() {
	s.NotificationsSent.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
