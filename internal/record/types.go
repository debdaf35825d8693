package record

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

// Kind distinguishes the two persisted record types.
type Kind string

const (
	KindGame       Kind = "game"
	KindAdjustment Kind = "adjustment"
)

// store handles all database operations for games and adjustments.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// PlayerResult is one player's line in a recorded game. Rank is 0 when the
// points were entered by hand.
type PlayerResult struct {
	Name   string  `json:"name"`
	Rank   int     `json:"rank,omitempty"`
	Points float64 `json:"points"`
}

// Game is one recorded play session.
type Game struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Type      scoring.GameType `json:"type"`
	Date      time.Time        `json:"date"`
	Players   []PlayerResult   `json:"players"`
	Manual    bool             `json:"manual"`
	CreatedAt time.Time        `json:"created_at"`
}

// Adjustment is a manual point delta not tied to a game.
type Adjustment struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Delta     float64   `json:"delta"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerKey normalises a player name into the case-insensitive key used to
// aggregate records.
func PlayerKey(name string) string {
	return normalize(name)
}
