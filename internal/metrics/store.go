package metrics

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// store keeps per-command usage counts in the command_usage table.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new UsageStore.
func New(db *sql.DB) UsageStore {
	return &store{
		db: db,
	}
}

// Increment upserts a usage key and increments its value by one.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO command_usage (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to increment command usage", "error", err, "key", key)
		return
	}
	log.Debug("Incremented command usage", "key", key)
}

// GetAll returns all usage counters.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM command_usage")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		usage[key] = value
	}
	return usage, rows.Err()
}
