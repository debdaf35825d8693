package notifier

import (
	"sync"

	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/record"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for send functions
	SendGameRecordedFunc       func(game record.Game, dryRun bool) error
	SendAdjustmentRecordedFunc func(adj record.Adjustment, dryRun bool) error

	// Call records
	SendGameRecordedCalls       []record.Game
	SendAdjustmentRecordedCalls []record.Adjustment
	SendLeaderboardCalls        []leaderboard.Leaderboards

	// Spies for format functions
	FormatLeaderboardResponseFunc func(boards leaderboard.Leaderboards) (any, error)
	FormatTextResponseFunc        func(text string) (any, error)

	// Call records for format functions
	LastLeaderboardResponse any
	LastTextResponse        any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameRecordedCalls = nil
	m.SendAdjustmentRecordedCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastTextResponse = nil
}

func (m *Mock) SendGameRecorded(game record.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameRecordedCalls = append(m.SendGameRecordedCalls, game)
	if m.SendGameRecordedFunc != nil {
		return m.SendGameRecordedFunc(game, dryRun)
	}
	return nil
}

func (m *Mock) SendAdjustmentRecorded(adj record.Adjustment, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAdjustmentRecordedCalls = append(m.SendAdjustmentRecordedCalls, adj)
	if m.SendAdjustmentRecordedFunc != nil {
		return m.SendAdjustmentRecordedFunc(adj, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(boards leaderboard.Leaderboards, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, boards)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(boards leaderboard.Leaderboards) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(boards)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatTextResponse(text string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatTextResponseFunc != nil {
		resp, err := m.FormatTextResponseFunc(text)
		m.LastTextResponse = resp
		return resp, err
	}
	return text, nil
}
