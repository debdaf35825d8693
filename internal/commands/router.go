// Package commands maps chat commands and button callbacks onto the tracker
// and renders the replies. It knows nothing about any chat transport.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/mauv0809/boardgame-tracker/internal/banter"
	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/parse"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/tracker"
)

const (
	gameCallbackPrefix       = "game_"
	adjustmentCallbackPrefix = "adj_"

	adjustUsage = "Usage: /adjust <player_name> <points>(-15 removes 15 points) [reason...](Optional)"
)

// Router dispatches requests to command handlers.
type Router struct {
	service  Service
	comeback *banter.Picker
	metrics  metrics.Metrics
	usage    metrics.UsageStore
	handlers map[string]handlerFunc
}

type handlerFunc func(ctx context.Context, req Request, args []string) (Reply, error)

// NewRouter creates a Router. usage may be nil.
func NewRouter(service Service, comeback *banter.Picker, metrics metrics.Metrics, usage metrics.UsageStore) *Router {
	r := &Router{
		service:  service,
		comeback: comeback,
		metrics:  metrics,
		usage:    usage,
	}
	r.handlers = map[string]handlerFunc{
		"start":            r.help,
		"help":             r.help,
		"add":              r.startDialogue(dialogue.KindAdd),
		"add_auto":         r.startDialogue(dialogue.KindAddAuto),
		"cancel":           r.cancel,
		"adjust":           r.adjust,
		"view":             r.viewGames,
		"view_adjustments": r.viewAdjustments,
		"remove":           r.remove,
		"leaderboard":      r.leaderboard,
		"comeback":         r.randomComeback,
	}
	return r
}

// Handle processes one request. Errors the user can act on are turned into
// replies; only unexpected failures are returned.
func (r *Router) Handle(ctx context.Context, req Request) (Reply, error) {
	if req.Callback != "" {
		return r.observe(ctx, "callback", func() (Reply, error) {
			return r.callback(ctx, req.Callback)
		})
	}

	name, args, isCommand := splitCommand(req.Text)
	if !isCommand {
		return r.observe(ctx, "message", func() (Reply, error) {
			return r.message(ctx, req)
		})
	}

	h, ok := r.handlers[name]
	if !ok {
		return Reply{Text: fmt.Sprintf("Unknown command /%s. Type /help to see what I can do.", name)}, nil
	}
	return r.observe(ctx, name, func() (Reply, error) {
		return h(ctx, req, args)
	})
}

func (r *Router) observe(ctx context.Context, name string, fn func() (Reply, error)) (Reply, error) {
	start := time.Now()
	reply, err := fn()
	r.metrics.ObserveCommandDuration(name, time.Since(start).Seconds())
	if r.usage != nil {
		r.usage.Increment(name)
	}
	if err != nil {
		return r.userError(name, err)
	}
	return reply, nil
}

// userError renders errors with a user-facing meaning and passes the rest on.
func (r *Router) userError(name string, err error) (Reply, error) {
	var nf *apperrors.NotFoundError
	var pe *apperrors.PersistenceError
	switch {
	case errors.As(err, &nf):
		return Reply{Text: fmt.Sprintf("%s %d not found.", titleKind(nf.Kind), nf.ID)}, nil
	case errors.As(err, &pe):
		log.Error("Storage failure", "command", name, "error", err)
		return Reply{Text: "Sorry, I couldn't save or load that right now. Nothing you entered was lost, please try again."}, nil
	}
	if ve, ok := apperrors.AsValidation(err); ok {
		r.metrics.IncValidationFailures(ve.Field)
		return Reply{Text: capitalize(ve.Reason)}, nil
	}
	return Reply{}, err
}

// splitCommand returns the command name without slash or @bot suffix.
func splitCommand(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), fields[1:], true
}

func (r *Router) help(ctx context.Context, req Request, args []string) (Reply, error) {
	return Reply{Text: WelcomeMessage, HTML: true}, nil
}

func (r *Router) startDialogue(kind dialogue.Kind) handlerFunc {
	return func(ctx context.Context, req Request, args []string) (Reply, error) {
		out, err := r.service.StartDialogue(ctx, req.Key, kind)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: out.Prompt}, nil
	}
}

func (r *Router) cancel(ctx context.Context, req Request, args []string) (Reply, error) {
	cancelled, err := r.service.CancelDialogue(ctx, req.Key)
	if err != nil {
		return Reply{}, err
	}
	if !cancelled {
		return Reply{Text: "Nothing to cancel."}, nil
	}
	return Reply{Text: "Cancelled. Nothing was recorded."}, nil
}

// message continues the active dialogue. Without one, plain chatter is ignored.
func (r *Router) message(ctx context.Context, req Request) (Reply, error) {
	out, err := r.service.AdvanceDialogue(ctx, req.Key, req.Text)
	if errors.Is(err, tracker.ErrNoDialogue) {
		return Reply{}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	switch {
	case out.Err != nil:
		return Reply{Text: fmt.Sprintf("%s\n\n%s", capitalize(out.Err.Reason), out.Prompt)}, nil
	case out.Result != nil:
		return Reply{Text: formatGameRecorded(out.Result.Game)}, nil
	default:
		return Reply{Text: out.Prompt}, nil
	}
}

func (r *Router) adjust(ctx context.Context, req Request, args []string) (Reply, error) {
	if len(args) < 2 {
		return Reply{Text: adjustUsage}, nil
	}
	delta, err := parse.Number(args[1])
	if err != nil {
		return Reply{Text: "Invalid points. Must be a number, e.g. 5 or 3.5"}, nil
	}
	reason := strings.Join(args[2:], " ")

	adj, err := r.service.RecordAdjustment(ctx, args[0], delta, reason)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: formatAdjustmentRecorded(adj)}, nil
}

func (r *Router) viewGames(ctx context.Context, req Request, args []string) (Reply, error) {
	games, err := r.service.ListGames(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(games) == 0 {
		return Reply{Text: "No games found."}, nil
	}
	return Reply{Text: formatGames(games)}, nil
}

func (r *Router) viewAdjustments(ctx context.Context, req Request, args []string) (Reply, error) {
	adjs, err := r.service.ListAdjustments(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(adjs) == 0 {
		return Reply{Text: "No manual adjustments found."}, nil
	}
	return Reply{Text: formatAdjustments(adjs)}, nil
}

// remove offers a button per record, or deletes directly with
// "/remove game 3" or "/remove adj 3".
func (r *Router) remove(ctx context.Context, req Request, args []string) (Reply, error) {
	if len(args) >= 2 {
		kind, ok := parseKind(args[0])
		if !ok {
			return Reply{Text: "Usage: /remove [game|adj <id>]"}, nil
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id < 1 {
			return Reply{Text: fmt.Sprintf("Error: Invalid %s ID %q.", kind, args[1])}, nil
		}
		return r.removeRecord(ctx, kind, id)
	}

	games, err := r.service.ListGames(ctx)
	if err != nil {
		return Reply{}, err
	}
	adjs, err := r.service.ListAdjustments(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(games) == 0 && len(adjs) == 0 {
		return Reply{Text: "No games or adjustments found to remove."}, nil
	}

	buttons := make([]Button, 0, len(games)+len(adjs))
	for _, g := range games {
		buttons = append(buttons, Button{Label: gameLabel(g), Data: gameCallbackPrefix + strconv.FormatInt(g.ID, 10)})
	}
	for _, a := range adjs {
		buttons = append(buttons, Button{Label: adjustmentLabel(a), Data: adjustmentCallbackPrefix + strconv.FormatInt(a.ID, 10)})
	}
	return Reply{Text: "Select an entry to remove (game or adjustment):", Buttons: buttons}, nil
}

func (r *Router) callback(ctx context.Context, data string) (Reply, error) {
	var (
		kind   record.Kind
		rawID  string
		prefix bool
	)
	if rawID, prefix = strings.CutPrefix(data, gameCallbackPrefix); prefix {
		kind = record.KindGame
	} else if rawID, prefix = strings.CutPrefix(data, adjustmentCallbackPrefix); prefix {
		kind = record.KindAdjustment
	} else {
		return Reply{Text: "Error: Unknown callback data!"}, nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Error: Invalid %s ID in callback.", kind)}, nil
	}
	return r.removeRecord(ctx, kind, id)
}

func (r *Router) removeRecord(ctx context.Context, kind record.Kind, id int64) (Reply, error) {
	if err := r.service.RemoveRecord(ctx, kind, id); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("%s entry with ID %d has been removed.", titleKind(string(kind)), id)}, nil
}

func (r *Router) leaderboard(ctx context.Context, req Request, args []string) (Reply, error) {
	boards, err := r.service.ComputeLeaderboards(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: formatLeaderboards(boards), HTML: true, Leaderboards: &boards}, nil
}

func (r *Router) randomComeback(ctx context.Context, req Request, args []string) (Reply, error) {
	return Reply{Text: r.comeback.Pick()}, nil
}

func parseKind(s string) (record.Kind, bool) {
	switch strings.ToLower(s) {
	case "game", "games":
		return record.KindGame, true
	case "adj", "adjustment", "adjustments":
		return record.KindAdjustment, true
	}
	return "", false
}
