package main

import (
	"context"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/boardgame-tracker/internal/database"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

const defaultNumGames = 200

var (
	seedPlayers = []string{"Seeder Alice", "Seeder Bob", "Seeder Carol", "Seeder Dave", "Seeder Erin", "Seeder Frank"}
	seedGames   = []string{"Catan", "Azul", "Codenames", "Wingspan", "Carcassonne", "Decrypto"}
)

func main() {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "boardgames.db"
	}
	numGames := defaultNumGames
	if v := os.Getenv("SEED_GAMES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("Invalid SEED_GAMES %q", v)
		}
		numGames = n
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := record.New(db)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 42))

	log.Info("Preparing to insert seeded games...", "total", numGames)
	startTime := time.Now()

	for i := 0; i < numGames; i++ {
		game, err := randomGame(rng)
		if err != nil {
			log.Fatalf("Failed to build seeded game: %s", err)
		}
		if _, err := store.AppendGame(ctx, game); err != nil {
			log.Fatalf("Failed to insert seeded game: %s", err)
		}
		if (i+1)%50 == 0 {
			log.Info("Inserted games", "completed", i+1, "total", numGames)
		}
	}

	for _, p := range seedPlayers[:2] {
		adj := record.Adjustment{Player: p, Delta: float64(rng.IntN(11) - 5), Reason: "seeded adjustment"}
		if _, err := store.AppendAdjustment(ctx, adj); err != nil {
			log.Fatalf("Failed to insert seeded adjustment: %s", err)
		}
	}

	log.Info("Successfully inserted all seeded records.", "duration", time.Since(startTime))
}

// randomGame builds a game with a random type, line-up and result scored by
// the same rules the bot uses.
func randomGame(rng *rand.Rand) (record.Game, error) {
	gameType := scoring.GameTypes[rng.IntN(len(scoring.GameTypes))]

	players := append([]string(nil), seedPlayers...)
	rng.Shuffle(len(players), func(i, j int) { players[i], players[j] = players[j], players[i] })

	var placements []scoring.Placement
	switch gameType {
	case scoring.Solo:
		players = players[:2+rng.IntN(len(players)-1)]
		for i, p := range players {
			placements = append(placements, scoring.Placement{Player: p, Rank: i + 1})
		}
	case scoring.Team:
		players = players[:2+rng.IntN(len(players)-1)]
		split := 1 + rng.IntN(len(players)-1)
		for i, p := range players {
			rank := 1
			if i >= split {
				rank = 2
			}
			placements = append(placements, scoring.Placement{Player: p, Rank: rank})
		}
	case scoring.Pair:
		players = players[:4+2*rng.IntN(2)]
		for i, p := range players {
			placements = append(placements, scoring.Placement{Player: p, Rank: i/2 + 1})
		}
	}

	awards, err := scoring.Compute(gameType, placements)
	if err != nil {
		return record.Game{}, err
	}

	game := record.Game{
		Name: seedGames[rng.IntN(len(seedGames))],
		Type: gameType,
		Date: time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -rng.IntN(365)),
	}
	for _, p := range placements {
		game.Players = append(game.Players, record.PlayerResult{Name: p.Player, Rank: p.Rank, Points: awards[p.Player]})
	}
	return game, nil
}
