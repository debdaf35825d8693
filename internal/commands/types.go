package commands

import (
	"context"

	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/tracker"
)

// Service is the part of the tracker the router drives.
type Service interface {
	StartDialogue(ctx context.Context, key string, kind dialogue.Kind) (tracker.Outcome, error)
	AdvanceDialogue(ctx context.Context, key, text string) (tracker.Outcome, error)
	CancelDialogue(ctx context.Context, key string) (bool, error)
	RecordAdjustment(ctx context.Context, player string, delta float64, reason string) (record.Adjustment, error)
	ListGames(ctx context.Context) ([]record.Game, error)
	ListAdjustments(ctx context.Context) ([]record.Adjustment, error)
	RemoveRecord(ctx context.Context, kind record.Kind, id int64) error
	ComputeLeaderboards(ctx context.Context) (leaderboard.Leaderboards, error)
}

var _ Service = (*tracker.Tracker)(nil)

// Request is one inbound chat event.
type Request struct {
	// Key identifies the conversation, e.g. a Telegram chat id.
	Key string
	// Text is the message text; commands start with '/'.
	Text string
	// Callback is the payload of a pressed inline button, if any.
	Callback string
}

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Reply is what the transport should send back. An empty Text means no reply.
type Reply struct {
	Text    string
	HTML    bool
	Buttons []Button
	// Leaderboards is set for /leaderboard so rich transports can render it themselves.
	Leaderboards *leaderboard.Leaderboards
}
