package commands

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/parse"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

// WelcomeMessage is sent for /start and /help. It is HTML formatted.
const WelcomeMessage = "Welcome to the Board Game Tracker Bot!\n\n" +
	"<b>Here's what you can do:</b>\n" +
	"/add - Manually specify points for each player.\n" +
	"/add_auto - Record a new game and calculate points automatically.\n" +
	"/adjust - &lt;player_name&gt; &lt;points&gt; (-15 removes 15 points) [reason...](Optional).\n" +
	"/cancel - Stop adding a game.\n" +
	"/view - View all recorded games.\n" +
	"/view_adjustments - View all adjusted scores.\n" +
	"/remove - Delete a recorded game or adjustment.\n" +
	"/leaderboard - See the overall and solo-only leaderboards.\n" +
	"/comeback - Get a random comeback for fun.\n" +
	"/help - See this message.\n\n" +
	"Need help? Just type /help anytime!\n\n" +
	"ENJOY"

func displayName(name string) string {
	return leaderboard.DisplayName(record.PlayerKey(name))
}

func formatGameRecorded(game record.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game '%s' on %s recorded (ID %d).\nPoints awarded:", game.Name, game.Date.Format(parse.DateLayout), game.ID)
	for _, p := range game.Players {
		fmt.Fprintf(&b, "\n%s: %s", displayName(p.Name), scoring.FormatDelta(p.Points))
	}
	return b.String()
}

func formatAdjustmentRecorded(adj record.Adjustment) string {
	text := fmt.Sprintf("Adjusted %s by %s points.", displayName(adj.Player), scoring.FormatDelta(adj.Delta))
	if adj.Reason != "" {
		text += fmt.Sprintf(" (Reason: %s)", adj.Reason)
	}
	return text
}

func formatGames(games []record.Game) string {
	entries := make([]string, 0, len(games))
	for _, g := range games {
		players := make([]string, 0, len(g.Players))
		for _, p := range g.Players {
			entry := fmt.Sprintf("%s %s", displayName(p.Name), scoring.FormatDelta(p.Points))
			if p.Rank > 0 {
				entry = fmt.Sprintf("#%d %s", p.Rank, entry)
			}
			players = append(players, entry)
		}
		mode := "auto"
		if g.Manual {
			mode = "manual"
		}
		entries = append(entries, fmt.Sprintf("[ID %d] %s on %s (%s, %s)\n   %s",
			g.ID, g.Name, g.Date.Format(parse.DateLayout), g.Type, mode, strings.Join(players, ", ")))
	}
	return "Games:\n\n" + strings.Join(entries, "\n\n")
}

func formatAdjustments(adjs []record.Adjustment) string {
	entries := make([]string, 0, len(adjs))
	for _, a := range adjs {
		entries = append(entries, fmt.Sprintf("[ID %d] %s => %s pts on %s\n   Reason: %s",
			a.ID, displayName(a.Player), scoring.FormatDelta(a.Delta), a.CreatedAt.Format(parse.DateLayout), a.Reason))
	}
	return "Adjustments:\n\n" + strings.Join(entries, "\n\n")
}

func gameLabel(g record.Game) string {
	var winners []string
	for _, p := range g.Players {
		if p.Rank == 1 {
			winners = append(winners, displayName(p.Name))
		}
	}
	label := fmt.Sprintf("(Game) ID %d: %s (%s)", g.ID, g.Name, g.Date.Format(parse.DateLayout))
	if len(winners) > 0 {
		label += " - won by " + strings.Join(winners, " & ")
	}
	return label
}

func adjustmentLabel(a record.Adjustment) string {
	label := fmt.Sprintf("(Adj) ID %d: %s => %s (%s)", a.ID, displayName(a.Player), scoring.FormatDelta(a.Delta), a.CreatedAt.Format(parse.DateLayout))
	if a.Reason != "" {
		label += fmt.Sprintf(" [%s]", a.Reason)
	}
	return label
}

// formatLeaderboards renders both boards as Telegram HTML.
func formatLeaderboards(boards leaderboard.Leaderboards) string {
	lines := []string{"<b>Overall Leaderboard</b>"}
	lines = append(lines, boardLines(boards.Overall, true)...)
	lines = append(lines, "", "<b>Solo-Only Leaderboard</b>")
	lines = append(lines, boardLines(boards.SoloOnly, false)...)
	return strings.Join(lines, "\n")
}

func boardLines(rows []leaderboard.Row, classify bool) []string {
	if len(rows) == 0 {
		return []string{"No games recorded yet."}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		suffix := ""
		switch {
		case row.Provisional:
			suffix = " (Provisional)"
		case classify:
			suffix = fmt.Sprintf(" (%s)", row.Classification)
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %.1f pts%s", row.Rank, html.EscapeString(row.DisplayName), row.Total, suffix))
	}
	return lines
}

func titleKind(kind string) string {
	return capitalize(kind)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
