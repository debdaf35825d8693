package notifier

import (
	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/record"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly committed records
	SendGameRecorded(game record.Game, dryRun bool) error
	SendAdjustmentRecorded(adj record.Adjustment, dryRun bool) error
	// For slash commands
	SendLeaderboard(boards leaderboard.Leaderboards, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(boards leaderboard.Leaderboards) (any, error)
	FormatTextResponse(text string) (any, error)
}
