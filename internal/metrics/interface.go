package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncGamesRecorded(gameType string)
	IncAdjustmentsRecorded()
	IncRecordsRemoved(kind string)
	IncValidationFailures(field string)
	ObserveCommandDuration(command string, duration float64)
	IncNotificationsSent()
	IncNotificationsFailed()
	SetStartupTime(duration float64)
}

// UsageStore persists command usage counters across restarts.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
