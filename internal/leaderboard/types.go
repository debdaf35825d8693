package leaderboard

// ProvisionalThreshold is the number of qualifying games a player needs
// before being ranked against established players.
const ProvisionalThreshold = 3

// Classification is a tier label derived from average points per game.
type Classification string

const (
	TypeA        Classification = "Type A Player"
	TypeB        Classification = "Type B Player"
	TypeC        Classification = "Type C Player"
	Unclassified Classification = "Unclassified"
)

// band is an exclusive lower bound on the average for a classification.
type band struct {
	above float64
	class Classification
}

// bands are checked in order; an average not above any of them is TypeC.
var bands = []band{
	{above: 3, class: TypeA},
	{above: 1, class: TypeB},
}

// Row is one player's line on a leaderboard.
type Row struct {
	Rank           int            `json:"rank"`
	Player         string         `json:"player"`
	DisplayName    string         `json:"display_name"`
	Total          float64        `json:"total"`
	GamesPlayed    int            `json:"games_played"`
	Average        float64        `json:"average"`
	Classification Classification `json:"classification"`
	Provisional    bool           `json:"provisional"`
}

// Leaderboards holds the overall and solo-only rankings.
type Leaderboards struct {
	Overall  []Row `json:"overall"`
	SoloOnly []Row `json:"solo_only"`
}
