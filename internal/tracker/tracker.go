// Package tracker is the core-facing API of the bot. It owns the dialogue
// lifecycle, commits finished games and adjustments to the record store and
// computes leaderboards. Transports call into it and never touch the store
// directly.
package tracker

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
	"github.com/mauv0809/boardgame-tracker/internal/record"
)

// ErrNoDialogue is returned by AdvanceDialogue when the key has no active session.
var ErrNoDialogue = errors.New("no active dialogue")

// Tracker wires the dialogue machine, the record store and the aggregator.
type Tracker struct {
	store     record.Store
	sessions  dialogue.Repository
	publisher pubsub.PubSubClient
	metrics   metrics.Metrics
	now       func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, which resolves "today" at commit time.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New creates a Tracker.
func New(store record.Store, sessions dialogue.Repository, publisher pubsub.PubSubClient, metrics metrics.Metrics, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		sessions:  sessions,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Outcome is the result of feeding one message into a dialogue. Exactly one
// of Result and Err is set when the dialogue completed or rejected input;
// otherwise Prompt holds the next question.
type Outcome struct {
	Prompt string
	Step   dialogue.Step
	Result *GameResult
	Err    *apperrors.ValidationError
}

// GameResult is a committed game and the points each player earned.
type GameResult struct {
	Game record.Game
}

// StartDialogue opens a new dialogue for key, replacing any active one.
func (t *Tracker) StartDialogue(ctx context.Context, key string, kind dialogue.Kind) (Outcome, error) {
	if !kind.Valid() {
		return Outcome{}, apperrors.Invalid("command", "unknown dialogue kind %q", kind)
	}

	if old, ok, err := t.sessions.Get(ctx, key); err != nil {
		return Outcome{}, err
	} else if ok {
		log.Info("Replacing active dialogue", "key", key, "old_id", old.ID, "old_step", old.Step)
	}

	s := dialogue.New(key, kind, t.now())
	if err := t.sessions.Save(ctx, s); err != nil {
		return Outcome{}, err
	}
	log.Info("Started dialogue", "key", key, "id", s.ID, "kind", kind)
	return Outcome{Prompt: s.Prompt(nil), Step: s.Step}, nil
}

// AdvanceDialogue feeds text into the active dialogue for key.
//
// Invalid input is not an error: the Outcome carries the validation error and
// the re-issued prompt for the same step. A failed commit returns the
// persistence error and leaves the session on its date step so the user can
// retry.
func (t *Tracker) AdvanceDialogue(ctx context.Context, key, text string) (Outcome, error) {
	s, ok, err := t.sessions.Get(ctx, key)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{}, ErrNoDialogue
	}

	next, err := s.Advance(text)
	if err != nil {
		ve, isValidation := apperrors.AsValidation(err)
		if !isValidation {
			return Outcome{}, err
		}
		t.metrics.IncValidationFailures(ve.Field)
		log.Debug("Rejected dialogue input", "key", key, "step", s.Step, "field", ve.Field, "reason", ve.Reason)
		return Outcome{Prompt: t.prompt(ctx, s), Step: s.Step, Err: ve}, nil
	}

	if next.Step == dialogue.Complete {
		return t.commit(ctx, next)
	}

	if err := t.sessions.Save(ctx, next); err != nil {
		return Outcome{}, err
	}
	return Outcome{Prompt: t.prompt(ctx, next), Step: next.Step}, nil
}

func (t *Tracker) commit(ctx context.Context, s dialogue.Session) (Outcome, error) {
	game, err := s.Game(t.now())
	if err != nil {
		return Outcome{}, err
	}

	id, err := t.store.AppendGame(ctx, game)
	if err != nil {
		log.Error("Failed to commit game, keeping dialogue", "key", s.Key, "id", s.ID, "error", err)
		return Outcome{}, err
	}
	game.ID = id

	if err := t.sessions.Delete(ctx, s.Key); err != nil {
		log.Warn("Failed to discard finished dialogue", "key", s.Key, "error", err)
	}

	t.metrics.IncGamesRecorded(string(game.Type))
	t.publish(ctx, pubsub.EventGameRecorded, pubsub.GameRecorded{Game: game})
	log.Info("Recorded game", "id", id, "name", game.Name, "type", game.Type, "players", len(game.Players))

	return Outcome{Step: dialogue.Complete, Result: &GameResult{Game: game}}, nil
}

// prompt asks the question for s's step, suggesting previous players when
// asking for the player list.
func (t *Tracker) prompt(ctx context.Context, s dialogue.Session) string {
	if s.Step != dialogue.AwaitingPlayers {
		return s.Prompt(nil)
	}
	past, err := t.store.PastPlayers(ctx)
	if err != nil {
		log.Warn("Could not load past players", "error", err)
		return s.Prompt(nil)
	}
	names := make([]string, len(past))
	for i, p := range past {
		names[i] = leaderboard.DisplayName(p)
	}
	return s.Prompt(names)
}

// CancelDialogue discards the active dialogue for key and reports whether
// there was one.
func (t *Tracker) CancelDialogue(ctx context.Context, key string) (bool, error) {
	s, ok, err := t.sessions.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := t.sessions.Delete(ctx, key); err != nil {
		return false, err
	}
	log.Info("Cancelled dialogue", "key", key, "id", s.ID, "step", s.Step)
	return true, nil
}

// ActiveDialogue reports whether key has a dialogue in progress.
func (t *Tracker) ActiveDialogue(ctx context.Context, key string) (bool, error) {
	_, ok, err := t.sessions.Get(ctx, key)
	return ok, err
}

// RecordAdjustment commits a single manual point delta.
func (t *Tracker) RecordAdjustment(ctx context.Context, player string, delta float64, reason string) (record.Adjustment, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return record.Adjustment{}, apperrors.Invalid("player", "a player name is required")
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return record.Adjustment{}, apperrors.Invalid("points", "must be a number, e.g. 5 or 3.5")
	}

	adj := record.Adjustment{Player: player, Delta: delta, Reason: strings.TrimSpace(reason)}
	id, err := t.store.AppendAdjustment(ctx, adj)
	if err != nil {
		return record.Adjustment{}, err
	}
	adj.ID = id
	adj.CreatedAt = t.now()

	t.metrics.IncAdjustmentsRecorded()
	t.publish(ctx, pubsub.EventAdjustmentRecorded, pubsub.AdjustmentRecorded{Adjustment: adj})
	log.Info("Recorded adjustment", "id", id, "player", player, "delta", delta)
	return adj, nil
}

// ListGames returns every recorded game in id order.
func (t *Tracker) ListGames(ctx context.Context) ([]record.Game, error) {
	return t.store.ListGames(ctx)
}

// ListAdjustments returns every recorded adjustment in id order.
func (t *Tracker) ListAdjustments(ctx context.Context) ([]record.Adjustment, error) {
	return t.store.ListAdjustments(ctx)
}

// RemoveRecord deletes one game or adjustment. A missing id yields a
// *apperrors.NotFoundError and changes nothing.
func (t *Tracker) RemoveRecord(ctx context.Context, kind record.Kind, id int64) error {
	if err := t.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	t.metrics.IncRecordsRemoved(string(kind))
	log.Info("Removed record", "kind", kind, "id", id)
	return nil
}

// ComputeLeaderboards aggregates all records into the overall and solo boards.
func (t *Tracker) ComputeLeaderboards(ctx context.Context) (leaderboard.Leaderboards, error) {
	games, err := t.store.ListGames(ctx)
	if err != nil {
		return leaderboard.Leaderboards{}, err
	}
	adjustments, err := t.store.ListAdjustments(ctx)
	if err != nil {
		return leaderboard.Leaderboards{}, err
	}
	return leaderboard.Aggregate(games, adjustments), nil
}

// publish sends an event; failures are logged since the record is already committed.
func (t *Tracker) publish(ctx context.Context, topic pubsub.EventType, data any) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.SendMessage(ctx, topic, data); err != nil {
		log.Warn("Failed to publish event", "topic", topic, "error", err)
	}
}
