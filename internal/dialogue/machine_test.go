package dialogue_test

import (
	"testing"
	"time"

	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)

// feed advances s through every answer, failing on the first error.
func feed(t *testing.T, s dialogue.Session, answers ...string) dialogue.Session {
	t.Helper()
	for _, a := range answers {
		var err error
		s, err = s.Advance(a)
		require.NoError(t, err, "answer %q at step %s", a, s.Step)
	}
	return s
}

func TestAdvance_AddAutoSolo(t *testing.T) {
	s := dialogue.New("chat-1", dialogue.KindAddAuto, now)
	assert.Equal(t, dialogue.AwaitingGameName, s.Step)

	s = feed(t, s, "Catan", "SOLO", "Alice, Bob, Charlie, Dave", "1,2,3,4", "today")
	assert.Equal(t, dialogue.Complete, s.Step)

	game, err := s.Game(now)
	require.NoError(t, err)
	assert.Equal(t, "Catan", game.Name)
	assert.Equal(t, scoring.Solo, game.Type)
	assert.False(t, game.Manual)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), game.Date)
	assert.Equal(t, []record.PlayerResult{
		{Name: "Alice", Rank: 1, Points: 6},
		{Name: "Bob", Rank: 2, Points: 3},
		{Name: "Charlie", Rank: 3, Points: 1},
		{Name: "Dave", Rank: 4, Points: 0},
	}, game.Players)
}

func TestAdvance_AddManualPoints(t *testing.T) {
	s := dialogue.New("chat-1", dialogue.KindAdd, now)
	s = feed(t, s, "Azul", "team", "Alice, Bob", "10, -2.5", "2025-01-31")

	game, err := s.Game(now)
	require.NoError(t, err)
	assert.True(t, game.Manual)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), game.Date)
	assert.Equal(t, []record.PlayerResult{
		{Name: "Alice", Points: 10},
		{Name: "Bob", Points: -2.5},
	}, game.Players)
}

func TestAdvance_InvalidInputKeepsStep(t *testing.T) {
	tests := []struct {
		name    string
		kind    dialogue.Kind
		answers []string
		bad     string
		step    dialogue.Step
		field   string
	}{
		{"blank name", dialogue.KindAddAuto, nil, "   ", dialogue.AwaitingGameName, "game name"},
		{"unknown type", dialogue.KindAddAuto, []string{"Catan"}, "duo", dialogue.AwaitingGameType, "game type"},
		{"one player", dialogue.KindAddAuto, []string{"Catan", "solo"}, "Alice", dialogue.AwaitingPlayers, "players"},
		{"duplicate player", dialogue.KindAddAuto, []string{"Catan", "solo"}, "Alice, alice", dialogue.AwaitingPlayers, "players"},
		{"duplicate ranks", dialogue.KindAddAuto, []string{"Catan", "solo", "A, B, C, D"}, "1,1,2,3", dialogue.AwaitingRankingsOrPoints, "rankings"},
		{"rank count", dialogue.KindAddAuto, []string{"Catan", "solo", "A, B, C"}, "1,2", dialogue.AwaitingRankingsOrPoints, "rankings"},
		{"team with three sides", dialogue.KindAddAuto, []string{"Catan", "team", "A, B, C"}, "1,2,3", dialogue.AwaitingRankingsOrPoints, "rankings"},
		{"points not numeric", dialogue.KindAdd, []string{"Catan", "solo", "A, B"}, "5, lots", dialogue.AwaitingRankingsOrPoints, "points"},
		{"bad date", dialogue.KindAdd, []string{"Catan", "solo", "A, B", "1, 0"}, "01/02/2025", dialogue.AwaitingDate, "date"},
		{"impossible date", dialogue.KindAdd, []string{"Catan", "solo", "A, B", "1, 0"}, "2025-02-30", dialogue.AwaitingDate, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := feed(t, dialogue.New("k", tt.kind, now), tt.answers...)
			require.Equal(t, tt.step, s.Step)

			next, err := s.Advance(tt.bad)
			require.Error(t, err)
			ve, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, s, next, "session must not change on invalid input")
		})
	}
}

func TestAdvance_RetryAfterError(t *testing.T) {
	s := feed(t, dialogue.New("k", dialogue.KindAddAuto, now), "Catan", "solo", "A, B, C, D")

	_, err := s.Advance("1,1,2,3")
	require.Error(t, err)

	s = feed(t, s, "4,3,2,1", "now")
	game, err := s.Game(now)
	require.NoError(t, err)
	assert.Equal(t, 6.0, game.Players[3].Points)
}

func TestAdvance_PairAndTeam(t *testing.T) {
	pair := feed(t, dialogue.New("k", dialogue.KindAddAuto, now), "Codenames", "pair", "A, B, C, D", "2, 1, 1, 2", "today")
	game, err := pair.Game(now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, game.Players[0].Points)
	assert.Equal(t, 0.5, game.Players[1].Points)

	team := feed(t, dialogue.New("k", dialogue.KindAddAuto, now), "Werewolf", "team", "A, B, C, D, E", "2, 2, 2, 2, 1", "today")
	game, err = team.Game(now)
	require.NoError(t, err)
	assert.Equal(t, 6.0, game.Players[4].Points)
	assert.Equal(t, 0.0, game.Players[0].Points)
}

func TestAdvance_TerminalRejectsInput(t *testing.T) {
	s := dialogue.New("k", dialogue.KindAdd, now).Cancel()
	assert.True(t, s.Step.Terminal())

	_, err := s.Advance("Catan")
	require.Error(t, err)
	_, isValidation := apperrors.AsValidation(err)
	assert.False(t, isValidation)
}

func TestGame_NotComplete(t *testing.T) {
	s := feed(t, dialogue.New("k", dialogue.KindAdd, now), "Catan")
	_, err := s.Game(now)
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	s := dialogue.New("k", dialogue.KindAddAuto, now)
	assert.Contains(t, s.Prompt(nil), "What game was played?")

	s = feed(t, s, "Catan", "pair")
	assert.Contains(t, s.Prompt(nil), "No previous players found.")
	assert.Contains(t, s.Prompt([]string{"alice", "bob"}), "alice, bob")

	s = feed(t, s, "A, B, C, D")
	assert.Contains(t, s.Prompt(nil), "share a rank")
	assert.Contains(t, s.Prompt(nil), "A, B, C, D")

	manual := feed(t, dialogue.New("k", dialogue.KindAdd, now), "Catan", "solo", "A, B")
	assert.Contains(t, manual.Prompt(nil), "points")

	manual = feed(t, manual, "1, 2")
	assert.Contains(t, manual.Prompt(nil), "today")
}
