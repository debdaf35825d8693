package dialogue

import (
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/boardgame-tracker/internal/parse"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

// Kind selects how the final points of a dialogue are obtained.
type Kind string

const (
	// KindAdd collects raw points typed by the user.
	KindAdd Kind = "add"
	// KindAddAuto collects rankings and computes points.
	KindAddAuto Kind = "add_auto"
)

// Valid reports whether k is a known dialogue kind.
func (k Kind) Valid() bool {
	return k == KindAdd || k == KindAddAuto
}

// Step is the position of a session in the data entry dialogue.
type Step int

const (
	AwaitingGameName Step = iota
	AwaitingGameType
	AwaitingPlayers
	AwaitingRankingsOrPoints
	AwaitingDate
	Complete
	Cancelled
)

var stepNames = map[Step]string{
	AwaitingGameName:         "awaiting_game_name",
	AwaitingGameType:         "awaiting_game_type",
	AwaitingPlayers:          "awaiting_players",
	AwaitingRankingsOrPoints: "awaiting_rankings_or_points",
	AwaitingDate:             "awaiting_date",
	Complete:                 "complete",
	Cancelled:                "cancelled",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further input is accepted.
func (s Step) Terminal() bool {
	return s == Complete || s == Cancelled
}

// Session is one in-flight dialogue, keyed by conversation. It is a value:
// Advance returns the next session and never mutates the receiver.
type Session struct {
	ID        uuid.UUID        `msgpack:"id"`
	Key       string           `msgpack:"key"`
	Kind      Kind             `msgpack:"kind"`
	Step      Step             `msgpack:"step"`
	GameName  string           `msgpack:"game_name"`
	GameType  scoring.GameType `msgpack:"game_type"`
	Players   []string         `msgpack:"players"`
	Rankings  []int            `msgpack:"rankings"`
	Points    []float64        `msgpack:"points"`
	Date      parse.Date       `msgpack:"date"`
	StartedAt time.Time        `msgpack:"started_at"`
}

// New starts a dialogue of the given kind for a conversation key.
func New(key string, kind Kind, now time.Time) Session {
	return Session{
		ID:        uuid.New(),
		Key:       key,
		Kind:      kind,
		Step:      AwaitingGameName,
		StartedAt: now,
	}
}
