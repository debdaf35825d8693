package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	GamesRecorded       *prometheus.CounterVec
	AdjustmentsRecorded prometheus.Counter
	RecordsRemoved      *prometheus.CounterVec
	ValidationFailures  *prometheus.CounterVec
	CommandDuration     *prometheus.HistogramVec
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
