package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/repository"
)

const popularSearchLimit = 10

type SearchUseCase struct {
	searchRepo repository.SearchTermRepository
	advertRepo repository.AdvertRepository
	log        logger.Logger
}

func NewSearchUseCase(
	searchRepo repository.SearchTermRepository,
	advertRepo repository.AdvertRepository,
	log logger.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		searchRepo: searchRepo,
		advertRepo: advertRepo,
		log:        log,
	}
}

func (uc *SearchUseCase) Popular(ctx context.Context) ([]string, error) {
	texts, err := uc.searchRepo.TopPopular(ctx, popularSearchLimit)
	if err != nil {
		uc.log.Errorf("Failed to get popular searches: %v", err)
		return nil, fmt.Errorf("SearchUseCase.Popular: %w", err)
	}
	return texts, nil
}

// Suggest returns popular searches matching any whitespace-separated token of
// the query as a case-insensitive substring.
func (uc *SearchUseCase) Suggest(ctx context.Context, query string) ([]string, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return []string{}, nil
	}

	texts, err := uc.searchRepo.MatchTokens(ctx, tokens, popularSearchLimit)
	if err != nil {
		uc.log.Errorf("Failed to match search suggestions: %v", err)
		return nil, fmt.Errorf("SearchUseCase.Suggest: %w", err)
	}
	return texts, nil
}

type SeekInput struct {
	Query  string
	City   string
	Limit  int64
	Offset int64
}

type SeekResult struct {
	Results []*entity.Advert `json:"results"`
	Total   int64            `json:"total"`
	Limit   int64            `json:"limit"`
}

// Seek records the normalized query for popularity ranking and returns one
// page of adverts matching any token in title or description. The popularity
// write is best-effort; a failure does not abort the search.
func (uc *SearchUseCase) Seek(ctx context.Context, input SeekInput) (*SeekResult, error) {
	query := strings.TrimSpace(input.Query)
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return &SeekResult{Results: []*entity.Advert{}, Limit: input.Limit}, nil
	}
	if input.Limit <= 0 {
		input.Limit = defaultPageLimit
	}

	if err := uc.searchRepo.RecordQuery(ctx, query); err != nil {
		uc.log.Warnf("Failed to record search query %q: %v", query, err)
	}

	adverts, total, err := uc.advertRepo.SearchText(ctx, tokens, input.City, input.Limit, input.Offset)
	if err != nil {
		uc.log.Errorf("Failed to search adverts for %q: %v", query, err)
		return nil, fmt.Errorf("SearchUseCase.Seek: %w", err)
	}

	return &SeekResult{Results: adverts, Total: total, Limit: input.Limit}, nil
}
