package record

import (
	"context"
	"sync"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AppendGameFunc       func(game Game) (int64, error)
	AppendAdjustmentFunc func(adj Adjustment) (int64, error)
	ListGamesFunc        func() ([]Game, error)
	ListAdjustmentsFunc  func() ([]Adjustment, error)
	DeleteFunc           func(kind Kind, id int64) error
	PastPlayersFunc      func() ([]string, error)

	// Call records
	AppendGameCalls       []Game
	AppendAdjustmentCalls []Adjustment
	DeleteCalls           []struct {
		Kind Kind
		ID   int64
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AppendGame(ctx context.Context, game Game) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendGameCalls = append(m.AppendGameCalls, game)
	if m.AppendGameFunc != nil {
		return m.AppendGameFunc(game)
	}
	return int64(len(m.AppendGameCalls)), nil
}

func (m *MockStore) AppendAdjustment(ctx context.Context, adj Adjustment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendAdjustmentCalls = append(m.AppendAdjustmentCalls, adj)
	if m.AppendAdjustmentFunc != nil {
		return m.AppendAdjustmentFunc(adj)
	}
	return int64(len(m.AppendAdjustmentCalls)), nil
}

func (m *MockStore) ListGames(ctx context.Context) ([]Game, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc()
	}
	return nil, nil
}

func (m *MockStore) ListAdjustments(ctx context.Context) ([]Adjustment, error) {
	if m.ListAdjustmentsFunc != nil {
		return m.ListAdjustmentsFunc()
	}
	return nil, nil
}

func (m *MockStore) Delete(ctx context.Context, kind Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, struct {
		Kind Kind
		ID   int64
	}{kind, id})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(kind, id)
	}
	return nil
}

func (m *MockStore) PastPlayers(ctx context.Context) ([]string, error) {
	if m.PastPlayersFunc != nil {
		return m.PastPlayersFunc()
	}
	return nil, nil
}
