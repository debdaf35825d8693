package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
)

const dateLayout = "2006-01-02"

var tables = map[Kind]string{
	KindGame:       "games",
	KindAdjustment: "adjustments",
}

// New creates a new Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// AppendGame inserts a game in a single transaction and returns its id.
func (s *store) AppendGame(ctx context.Context, game Game) (int64, error) {
	if len(game.Players) == 0 {
		return 0, apperrors.Invalid("players", "a game needs players")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	playersJSON, err := json.Marshal(game.Players)
	if err != nil {
		return 0, &apperrors.PersistenceError{Op: "encode game players", Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &apperrors.PersistenceError{Op: "begin game insert", Err: err}
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (name, game_type, played_on, manual, players_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, game.Name, string(game.Type), game.Date.Format(dateLayout), game.Manual, string(playersJSON), s.now().Unix()).Scan(&id)
	if err != nil {
		tx.Rollback()
		return 0, &apperrors.PersistenceError{Op: "insert game", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &apperrors.PersistenceError{Op: "commit game insert", Err: err}
	}
	log.Info("Recorded game", "id", id, "name", game.Name, "type", game.Type, "players", len(game.Players))
	return id, nil
}

// AppendAdjustment inserts an adjustment and returns its id.
func (s *store) AppendAdjustment(ctx context.Context, adj Adjustment) (int64, error) {
	if strings.TrimSpace(adj.Player) == "" {
		return 0, apperrors.Invalid("player", "the player name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO adjustments (player_name, points, reason, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, strings.TrimSpace(adj.Player), adj.Delta, adj.Reason, s.now().Unix()).Scan(&id)
	if err != nil {
		return 0, &apperrors.PersistenceError{Op: "insert adjustment", Err: err}
	}
	log.Info("Recorded adjustment", "id", id, "player", adj.Player, "delta", adj.Delta)
	return id, nil
}

// ListGames returns every game in id order.
func (s *store) ListGames(ctx context.Context) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, game_type, played_on, manual, players_json, created_at
		FROM games
		ORDER BY id
	`)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list games", Err: err}
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, &apperrors.PersistenceError{Op: "scan game", Err: err}
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list games", Err: err}
	}
	return games, nil
}

// scanGame is a helper function to scan a single game row.
func scanGame(scanner interface{ Scan(...any) error }) (*Game, error) {
	var (
		game        Game
		gameType    string
		playedOn    string
		playersJSON string
		createdAt   int64
	)
	if err := scanner.Scan(&game.ID, &game.Name, &gameType, &playedOn, &game.Manual, &playersJSON, &createdAt); err != nil {
		return nil, err
	}

	game.Type = scoring.GameType(gameType)
	game.CreatedAt = time.Unix(createdAt, 0).UTC()
	day, err := time.Parse(dateLayout, playedOn)
	if err != nil {
		return nil, fmt.Errorf("game %d has malformed date %q: %w", game.ID, playedOn, err)
	}
	game.Date = day
	if err := json.Unmarshal([]byte(playersJSON), &game.Players); err != nil {
		return nil, fmt.Errorf("game %d has malformed players: %w", game.ID, err)
	}
	return &game, nil
}

// ListAdjustments returns every adjustment in id order.
func (s *store) ListAdjustments(ctx context.Context) ([]Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_name, points, reason, created_at
		FROM adjustments
		ORDER BY id
	`)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list adjustments", Err: err}
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		var (
			adj       Adjustment
			createdAt int64
		)
		if err := rows.Scan(&adj.ID, &adj.Player, &adj.Delta, &adj.Reason, &createdAt); err != nil {
			return nil, &apperrors.PersistenceError{Op: "scan adjustment", Err: err}
		}
		adj.CreatedAt = time.Unix(createdAt, 0).UTC()
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list adjustments", Err: err}
	}
	return adjustments, nil
}

// Delete removes one record. A missing id yields a *apperrors.NotFoundError.
func (s *store) Delete(ctx context.Context, kind Kind, id int64) error {
	table, ok := tables[kind]
	if !ok {
		return apperrors.Invalid("kind", "%q is not a record kind", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete " + string(kind), Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete " + string(kind), Err: err}
	}
	if n == 0 {
		log.Info("Record to delete not found", "kind", kind, "id", id)
		return &apperrors.NotFoundError{Kind: string(kind), ID: id}
	}
	log.Info("Deleted record", "kind", kind, "id", id)
	return nil
}

// PastPlayers returns the distinct lower-cased names of everyone who has
// played a recorded game, sorted alphabetically.
func (s *store) PastPlayers(ctx context.Context) ([]string, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var players []string
	for _, g := range games {
		for _, p := range g.Players {
			key := normalize(p.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			players = append(players, key)
		}
	}
	sort.Strings(players)
	return players, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
