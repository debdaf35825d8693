package record

import "context"

// Store persists games and adjustments. Ids are assigned monotonically per
// kind and never reused after a delete.
type Store interface {
	AppendGame(ctx context.Context, game Game) (int64, error)
	AppendAdjustment(ctx context.Context, adj Adjustment) (int64, error)
	ListGames(ctx context.Context) ([]Game, error)
	ListAdjustments(ctx context.Context) ([]Adjustment, error)
	Delete(ctx context.Context, kind Kind, id int64) error
	PastPlayers(ctx context.Context) ([]string, error)
}
