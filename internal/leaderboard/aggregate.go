// Package leaderboard reduces recorded games and adjustments into ranked
// per-player rows.
package leaderboard

import (
	"cmp"
	"slices"

	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type tally struct {
	total float64
	games int
}

// Aggregate builds both leaderboards. The overall board counts every game,
// the solo board only solo games; adjustments apply to both and never count
// as games played.
func Aggregate(games []record.Game, adjustments []record.Adjustment) Leaderboards {
	overall := make(map[string]*tally)
	solo := make(map[string]*tally)

	for _, g := range games {
		for _, p := range g.Players {
			key := record.PlayerKey(p.Name)
			add(overall, key, p.Points, 1)
			if g.Type == scoring.Solo {
				add(solo, key, p.Points, 1)
			}
		}
	}
	for _, a := range adjustments {
		key := record.PlayerKey(a.Player)
		add(overall, key, a.Delta, 0)
		add(solo, key, a.Delta, 0)
	}

	return Leaderboards{
		Overall:  rank(overall),
		SoloOnly: rank(solo),
	}
}

func add(m map[string]*tally, key string, points float64, games int) {
	if key == "" {
		return
	}
	t, ok := m[key]
	if !ok {
		t = &tally{}
		m[key] = t
	}
	t.total += points
	t.games += games
}

// Classify returns the tier for a total over a number of games.
func Classify(total float64, games int) Classification {
	if games == 0 {
		return Unclassified
	}
	avg := total / float64(games)
	for _, b := range bands {
		if avg > b.above {
			return b.class
		}
	}
	return TypeC
}

// DisplayName title-cases a player key, e.g. "john doe" becomes "John Doe".
func DisplayName(key string) string {
	return cases.Title(language.Und).String(key)
}

func rank(tallies map[string]*tally) []Row {
	rows := make([]Row, 0, len(tallies))
	for player, t := range tallies {
		var avg float64
		if t.games > 0 {
			avg = t.total / float64(t.games)
		}
		rows = append(rows, Row{
			Player:         player,
			DisplayName:    DisplayName(player),
			Total:          t.total,
			GamesPlayed:    t.games,
			Average:        avg,
			Classification: Classify(t.total, t.games),
			Provisional:    t.games < ProvisionalThreshold,
		})
	}

	// Established players always come before provisional ones.
	slices.SortFunc(rows, func(a, b Row) int {
		if a.Provisional != b.Provisional {
			if a.Provisional {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Average, a.Average); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
