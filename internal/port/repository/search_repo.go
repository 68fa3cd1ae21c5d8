package repository

import "context"

type SearchTermRepository interface {
	// RecordQuery increments the counter for the exact text, creating it on
	// first use.
	RecordQuery(ctx context.Context, text string) error
	// TopPopular returns up to n texts ordered by occurrence count descending.
	TopPopular(ctx context.Context, n int64) ([]string, error)
	// MatchTokens returns up to n stored texts matching any token as a
	// case-insensitive substring, ordered by count descending. This is a
	// linear pattern scan, adequate only at small scale.
	MatchTokens(ctx context.Context, tokens []string, n int64) ([]string, error)
}
