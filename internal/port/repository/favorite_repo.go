package repository

import "context"

// FavoriteRepository keeps a per-user set of favorited advert ids. Add must
// be idempotent (set semantics).
type FavoriteRepository interface {
	Add(ctx context.Context, userID string, advertID int64) error
	Remove(ctx context.Context, userID string, advertID int64) error
	// ListIDs returns the user's advert ids, or an empty slice when the user
	// has no favorites record.
	ListIDs(ctx context.Context, userID string) ([]int64, error)
}
