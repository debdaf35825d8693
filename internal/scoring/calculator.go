// Package scoring converts game rankings into points.
//
// Solo games award points from the bottom up: last place gets 0 and each
// place above it gets the next triangular number, so a four player game pays
// 6, 3, 1, 0. Pair games use the same table over groups and split each
// group's pot evenly. Team games give the winning side TeamPot to share.
package scoring

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
)

const (
	minPairGroupSize = 2
	maxPairGroupSize = 3
)

// Compute returns the points each player earns for the given rankings.
// It never coerces bad input: duplicate solo ranks, gaps in the ranking,
// wrong group counts or sizes all fail with a *apperrors.ValidationError.
func Compute(gameType GameType, placements []Placement) (Awards, error) {
	if len(placements) < 2 {
		return nil, apperrors.Invalid("players", "at least 2 players are needed, got %d", len(placements))
	}

	seen := make(map[string]bool, len(placements))
	for _, p := range placements {
		key := strings.ToLower(strings.TrimSpace(p.Player))
		if key == "" {
			return nil, apperrors.Invalid("players", "player names cannot be empty")
		}
		if seen[key] {
			return nil, apperrors.Invalid("players", "%s is listed more than once", p.Player)
		}
		seen[key] = true
		if p.Rank < 1 {
			return nil, apperrors.Invalid("rankings", "rank for %s must be 1 or higher, got %d", p.Player, p.Rank)
		}
	}

	switch gameType {
	case Solo:
		return computeSolo(placements)
	case Team:
		return computeTeam(placements)
	case Pair:
		return computePair(placements)
	default:
		return nil, apperrors.Invalid("game type", "%q is not one of solo, team or pair", gameType)
	}
}

// Triangular returns k(k+1)/2, the points for finishing k places above last.
func Triangular(k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(k*(k+1)) / 2
}

// PlacePoints returns the points for finishing at rank in a field of n.
func PlacePoints(rank, n int) float64 {
	return Triangular(n - rank)
}

// TotalPoints is the sum of all points a game of the given type and size pays
// out. Pair games are sized by their number of groups.
func TotalPoints(gameType GameType, n int) float64 {
	switch gameType {
	case Team:
		return TeamPot
	case Solo, Pair:
		var total float64
		for r := 1; r <= n; r++ {
			total += PlacePoints(r, n)
		}
		return total
	}
	return 0
}

type group struct {
	rank    int
	players []string
}

// groupByRank returns players grouped by rank in ascending rank order.
func groupByRank(placements []Placement) []group {
	byRank := make(map[int][]string)
	for _, p := range placements {
		byRank[p.Rank] = append(byRank[p.Rank], p.Player)
	}
	groups := make([]group, 0, len(byRank))
	for rank, players := range byRank {
		groups = append(groups, group{rank: rank, players: players})
	}
	slices.SortFunc(groups, func(a, b group) int {
		return cmp.Compare(a.rank, b.rank)
	})
	return groups
}

// checkContiguous requires the group ranks to be exactly 1..len(groups).
func checkContiguous(groups []group) error {
	for i, g := range groups {
		if g.rank != i+1 {
			return apperrors.Invalid("rankings", "ranks must run from 1 to %d without gaps, missing rank %d", len(groups), i+1)
		}
	}
	return nil
}

func computeSolo(placements []Placement) (Awards, error) {
	groups := groupByRank(placements)
	for _, g := range groups {
		if len(g.players) > 1 {
			return nil, apperrors.Invalid("rankings", "duplicate rank %d for %s", g.rank, strings.Join(g.players, " and "))
		}
	}
	if err := checkContiguous(groups); err != nil {
		return nil, err
	}

	n := len(placements)
	awards := make(Awards, n)
	for _, p := range placements {
		awards[p.Player] = PlacePoints(p.Rank, n)
	}
	return awards, nil
}

func computeTeam(placements []Placement) (Awards, error) {
	groups := groupByRank(placements)
	if len(groups) != 2 {
		return nil, apperrors.Invalid("rankings", "a team game needs exactly two sides ranked 1 and 2, got %d", len(groups))
	}
	if err := checkContiguous(groups); err != nil {
		return nil, err
	}

	awards := make(Awards, len(placements))
	winners := groups[0].players
	for _, p := range winners {
		awards[p] = TeamPot / float64(len(winners))
	}
	for _, p := range groups[1].players {
		awards[p] = 0
	}
	return awards, nil
}

func computePair(placements []Placement) (Awards, error) {
	groups := groupByRank(placements)
	if len(groups) < 2 {
		return nil, apperrors.Invalid("rankings", "a pair game needs at least two groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g.players) < minPairGroupSize || len(g.players) > maxPairGroupSize {
			return nil, apperrors.Invalid("rankings", "group at rank %d has %d players, pairs need %d or %d",
				g.rank, len(g.players), minPairGroupSize, maxPairGroupSize)
		}
	}
	if err := checkContiguous(groups); err != nil {
		return nil, err
	}

	awards := make(Awards, len(placements))
	for _, g := range groups {
		pot := PlacePoints(g.rank, len(groups))
		for _, p := range g.players {
			awards[p] = pot / float64(len(g.players))
		}
	}
	return awards, nil
}
