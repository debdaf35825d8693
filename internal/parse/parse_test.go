package parse_test

import (
	"testing"
	"time"

	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/parse"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireField(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, field, ve.Field)
}

func TestGameType(t *testing.T) {
	for _, in := range []string{"solo", "SOLO", " Team ", "pair"} {
		got, err := parse.GameType(in)
		require.NoError(t, err, in)
		assert.True(t, got.Valid())
	}
	got, _ := parse.GameType("Pair")
	assert.Equal(t, scoring.Pair, got)

	_, err := parse.GameType("coop")
	requireField(t, err, "game type")
}

func TestGameName(t *testing.T) {
	name, err := parse.GameName("  Catan ")
	require.NoError(t, err)
	assert.Equal(t, "Catan", name)

	_, err = parse.GameName("   ")
	requireField(t, err, "game name")
}

func TestPlayers(t *testing.T) {
	t.Run("trims names", func(t *testing.T) {
		players, err := parse.Players(" Alice, Bob ,Charlie")
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, players)
	})

	tests := map[string]string{
		"single player":   "Alice",
		"empty entry":     "Alice,,Bob",
		"blank input":     "  ",
		"duplicate names": "Alice, bob, ALICE",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parse.Players(in)
			requireField(t, err, "players")
		})
	}
}

func TestRankings(t *testing.T) {
	ranks, err := parse.Rankings("1, 2,3 4", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, ranks)

	_, err = parse.Rankings("1, 2, 3", 4)
	requireField(t, err, "rankings")
	assert.Contains(t, err.Error(), "You give 3 but got 4")

	_, err = parse.Rankings("1, two", 2)
	requireField(t, err, "rankings")

	_, err = parse.Rankings("1.5, 2", 2)
	requireField(t, err, "rankings")
}

func TestPoints(t *testing.T) {
	points, err := parse.Points("6, 3.5, -1, 0", 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 3.5, -1, 0}, points)

	_, err = parse.Points("6, 3", 3)
	requireField(t, err, "points")

	_, err = parse.Points("6, NaN", 2)
	requireField(t, err, "points")
}

func TestDateAnswer(t *testing.T) {
	now := time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC)

	d, err := parse.DateAnswer("Today")
	require.NoError(t, err)
	assert.True(t, d.Today)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d.Resolve(now))

	d, err = parse.DateAnswer("2024-12-31")
	require.NoError(t, err)
	assert.False(t, d.Today)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), d.Resolve(now))

	for _, bad := range []string{"2024-2-3", "31/12/2024", "2024-13-01", "yesterday", ""} {
		_, err := parse.DateAnswer(bad)
		requireField(t, err, "date")
	}
}
