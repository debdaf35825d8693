// Package dialogue implements the multi-step data entry conversation behind
// /add and /add_auto as an explicit state machine.
//
// A Session moves through
//
//	AwaitingGameName -> AwaitingGameType -> AwaitingPlayers ->
//	AwaitingRankingsOrPoints -> AwaitingDate -> Complete
//
// and can be Cancelled at any point. Input that fails validation leaves the
// session on its current step.
package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/parse"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

// Advance feeds one user message into the session. On success it returns the
// session at its next step; on a *apperrors.ValidationError it returns the
// receiver unchanged together with the error.
func (s Session) Advance(text string) (Session, error) {
	next := s
	switch s.Step {
	case AwaitingGameName:
		name, err := parse.GameName(text)
		if err != nil {
			return s, err
		}
		next.GameName = name
		next.Step = AwaitingGameType

	case AwaitingGameType:
		t, err := parse.GameType(text)
		if err != nil {
			return s, err
		}
		next.GameType = t
		next.Step = AwaitingPlayers

	case AwaitingPlayers:
		players, err := parse.Players(text)
		if err != nil {
			return s, err
		}
		next.Players = players
		next.Step = AwaitingRankingsOrPoints

	case AwaitingRankingsOrPoints:
		if s.Kind == KindAddAuto {
			ranks, err := parse.Rankings(text, len(s.Players))
			if err != nil {
				return s, err
			}
			if _, err := scoring.Compute(s.GameType, placements(s.Players, ranks)); err != nil {
				return s, err
			}
			next.Rankings = ranks
		} else {
			points, err := parse.Points(text, len(s.Players))
			if err != nil {
				return s, err
			}
			next.Points = points
		}
		next.Step = AwaitingDate

	case AwaitingDate:
		d, err := parse.DateAnswer(text)
		if err != nil {
			return s, err
		}
		next.Date = d
		next.Step = Complete

	default:
		return s, fmt.Errorf("dialogue %s is %s and accepts no more input", s.ID, s.Step)
	}
	return next, nil
}

// Cancel returns the session in the Cancelled state.
func (s Session) Cancel() Session {
	s.Step = Cancelled
	return s
}

// Prompt is the question asked for the current step. pastPlayers, when
// non-empty, is offered as a hint on the players step.
func (s Session) Prompt(pastPlayers []string) string {
	switch s.Step {
	case AwaitingGameName:
		return "What game was played? (e.g., 'Catan')"
	case AwaitingGameType:
		return "Is this a 'solo' (1v1v1v1), 'team' (4v1), or 'pair' (2v2 or 2v3v2) game?\n" +
			"Type exactly 'solo', 'team', or 'pair'."
	case AwaitingPlayers:
		hint := "\nNo previous players found."
		if len(pastPlayers) > 0 {
			hint = "\nHere are some previous players:\n  " + strings.Join(pastPlayers, ", ")
		}
		return "Who played? Provide player names separated by commas.\n" +
			"Example: 'Alice, Bob, Charlie'\n" + hint
	case AwaitingRankingsOrPoints:
		return s.rankingsPrompt()
	case AwaitingDate:
		return "What is the date of the game? (YYYY-MM-DD)\n" +
			"Type 'today' if it's today's date."
	case Complete:
		return "Game recorded."
	case Cancelled:
		return "Cancelled."
	}
	return ""
}

func (s Session) rankingsPrompt() string {
	order := strings.Join(s.Players, ", ")
	if s.Kind == KindAdd {
		return fmt.Sprintf("Enter the points for each player in the same order (%s).\n"+
			"Example: '10, 5, 3, -2'", order)
	}
	switch s.GameType {
	case scoring.Team:
		return fmt.Sprintf("Enter 1 for each player on the winning side and 2 for the losing side (%s).\n"+
			"Example: '1, 1, 1, 1, 2'", order)
	case scoring.Pair:
		return fmt.Sprintf("Enter each player's group rank in the same order (%s).\n"+
			"Players in the same group share a rank. Example: '1, 1, 2, 2'", order)
	default:
		return fmt.Sprintf("Now enter the rankings for each player in the same order (%s).\n"+
			"Example: '1, 2, 3, 4' (1 = first place, etc.)", order)
	}
}

// Game builds the record committed when the session completes. Points come
// from the score calculator for add_auto and from the user for add.
func (s Session) Game(now time.Time) (record.Game, error) {
	if s.Step != Complete {
		return record.Game{}, fmt.Errorf("dialogue %s is %s, not complete", s.ID, s.Step)
	}

	game := record.Game{
		Name:    s.GameName,
		Type:    s.GameType,
		Date:    s.Date.Resolve(now),
		Manual:  s.Kind == KindAdd,
		Players: make([]record.PlayerResult, len(s.Players)),
	}

	if s.Kind == KindAdd {
		if len(s.Points) != len(s.Players) {
			return record.Game{}, apperrors.Invalid("points", "expected %d values, got %d", len(s.Players), len(s.Points))
		}
		for i, p := range s.Players {
			game.Players[i] = record.PlayerResult{Name: p, Points: s.Points[i]}
		}
		return game, nil
	}

	awards, err := scoring.Compute(s.GameType, placements(s.Players, s.Rankings))
	if err != nil {
		return record.Game{}, err
	}
	for i, p := range s.Players {
		game.Players[i] = record.PlayerResult{Name: p, Rank: s.Rankings[i], Points: awards[p]}
	}
	return game, nil
}

func placements(players []string, ranks []int) []scoring.Placement {
	out := make([]scoring.Placement, len(players))
	for i, p := range players {
		var r int
		if i < len(ranks) {
			r = ranks[i]
		}
		out[i] = scoring.Placement{Player: p, Rank: r}
	}
	return out
}
