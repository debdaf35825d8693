package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	gamesRecorded       map[string]int
	adjustmentsRecorded int
	recordsRemoved      map[string]int
	validationFailures  map[string]int
	commandDurations    map[string][]float64
	notificationsSent   int
	notificationsFailed int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		gamesRecorded:      make(map[string]int),
		recordsRemoved:     make(map[string]int),
		validationFailures: make(map[string]int),
		commandDurations:   make(map[string][]float64),
	}
}

func (m *Mock) IncGamesRecorded(gameType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesRecorded[gameType]++
}

func (m *Mock) IncAdjustmentsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustmentsRecorded++
}

func (m *Mock) IncRecordsRemoved(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsRemoved[kind]++
}

func (m *Mock) IncValidationFailures(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures[field]++
}

func (m *Mock) ObserveCommandDuration(command string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandDurations[command] = append(m.commandDurations[command], duration)
}

func (m *Mock) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesRecorded returns how often IncGamesRecorded was called for gameType.
func (m *Mock) GamesRecorded(gameType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesRecorded[gameType]
}

// AdjustmentsRecorded returns the number of times IncAdjustmentsRecorded was called.
func (m *Mock) AdjustmentsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adjustmentsRecorded
}

// RecordsRemoved returns how often IncRecordsRemoved was called for kind.
func (m *Mock) RecordsRemoved(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordsRemoved[kind]
}

// ValidationFailures returns how often IncValidationFailures was called for field.
func (m *Mock) ValidationFailures(field string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures[field]
}

// CommandsObserved returns the number of durations observed for command.
func (m *Mock) CommandsObserved(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commandDurations[command])
}

// NotificationsSent returns the number of times IncNotificationsSent was called.
func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

// NotificationsFailed returns the number of times IncNotificationsFailed was called.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}
