package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/notifier"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotificationsFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotificationsSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendGameRecorded(game record.Game, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatGameRecorded(game), dryRun)
	return err
}

func (s *Notifier) SendAdjustmentRecorded(adj record.Adjustment, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatAdjustmentRecorded(adj), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(boards leaderboard.Leaderboards, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatLeaderboard(boards), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(boards leaderboard.Leaderboards) (any, error) {
	return s.formatLeaderboard(boards), nil
}

// FormatTextResponse wraps a plain reply in a single section block.
func (s *Notifier) FormatTextResponse(text string) (any, error) {
	if text == "" {
		return nil, fmt.Errorf("empty response text")
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil),
	), nil
}

func (s *Notifier) formatGameRecorded(game record.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎲 Game recorded! 🎲", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s (%s) on %s", game.Name, game.Type, game.Date.Format("Monday 02 Jan 2006"))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	lines := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		lines = append(lines, fmt.Sprintf("• %s: %s", leaderboard.DisplayName(record.PlayerKey(p.Name)), scoring.FormatDelta(p.Points)))
	}
	if len(lines) > 0 {
		pointsText := "Points awarded:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", pointsText, true, false), nil, nil))
	}

	contextText := fmt.Sprintf("Game #%d", game.ID)
	if game.Manual {
		contextText += " · points entered by hand"
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatAdjustmentRecorded(adj record.Adjustment) slack.Message {
	text := fmt.Sprintf("✏️ %s %s points", leaderboard.DisplayName(record.PlayerKey(adj.Player)), scoring.FormatDelta(adj.Delta))
	if adj.Reason != "" {
		text += fmt.Sprintf(" (%s)", adj.Reason)
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Adjustment #%d", adj.ID), true, false)),
	)
}

// formatLeaderboard creates a Slack message with the overall and solo leaderboards.
func (s *Notifier) formatLeaderboard(boards leaderboard.Leaderboards) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(boards.Overall) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No games recorded yet. Go play something!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	blocks = append(blocks, leaderboardSection("Overall", boards.Overall)...)
	blocks = append(blocks, slack.NewDividerBlock())
	blocks = append(blocks, leaderboardSection("Solo only", boards.SoloOnly)...)

	return slack.NewBlockMessage(blocks...)
}

func leaderboardSection(title string, rows []leaderboard.Row) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "*"+title+"*", false, false), nil, nil),
	}
	if len(rows) == 0 {
		return append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nobody yet.", true, false), nil, nil))
	}

	for _, row := range rows {
		var medal string
		if !row.Provisional {
			switch row.Rank {
			case 1:
				medal = "🥇 "
			case 2:
				medal = "🥈 "
			case 3:
				medal = "🥉 "
			}
		}
		playerText := fmt.Sprintf("%d. %s%s\n> %s pts | %d games | avg %.2f | %s",
			row.Rank,
			medal,
			row.DisplayName,
			scoring.FormatPoints(row.Total),
			row.GamesPlayed,
			row.Average,
			row.Classification,
		)
		if row.Provisional {
			playerText += " | provisional"
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}
	return blocks
}
