package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/boardgame-tracker/internal/record"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventGameRecorded       EventType = "game-recorded"
	EventAdjustmentRecorded EventType = "adjustment-recorded"
)

// GameRecorded is published after a game has been committed.
type GameRecorded struct {
	Game record.Game `msgpack:"game"`
}

// AdjustmentRecorded is published after an adjustment has been committed.
type AdjustmentRecorded struct {
	Adjustment record.Adjustment `msgpack:"adjustment"`
}
