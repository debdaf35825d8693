package scoring

import "strconv"

// GameType is the structure of a played game.
type GameType string

const (
	Solo GameType = "solo"
	Team GameType = "team"
	Pair GameType = "pair"
)

// GameTypes lists the supported game types in prompt order.
var GameTypes = []GameType{Solo, Team, Pair}

// TeamPot is the number of points the winning side of a team game shares.
const TeamPot = 6.0

// Placement is one player's rank in a game. For team and pair games players
// sharing a rank form a group.
type Placement struct {
	Player string
	Rank   int
}

// Awards maps a player name, as entered, to the points earned.
type Awards map[string]float64

// Valid reports whether t is one of the supported game types.
func (t GameType) Valid() bool {
	switch t {
	case Solo, Team, Pair:
		return true
	}
	return false
}

func (t GameType) String() string {
	return string(t)
}

// FormatPoints renders points without trailing zeros, e.g. 6, 0.5 or -2.5.
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FormatDelta is FormatPoints with an explicit sign for non-negative values.
func FormatDelta(p float64) string {
	if p >= 0 {
		return "+" + FormatPoints(p)
	}
	return FormatPoints(p)
}
