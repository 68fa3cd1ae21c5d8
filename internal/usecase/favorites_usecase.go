package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/cache"
	"github.com/adboard/adverts-service/internal/port/repository"
)

type FavoritesUseCase struct {
	favoriteRepo repository.FavoriteRepository
	advertRepo   repository.AdvertRepository
	cacheRepo    cache.CacheRepository
	log          logger.Logger
}

func NewFavoritesUseCase(
	favoriteRepo repository.FavoriteRepository,
	advertRepo repository.AdvertRepository,
	cacheRepo cache.CacheRepository,
	log logger.Logger,
) *FavoritesUseCase {
	return &FavoritesUseCase{
		favoriteRepo: favoriteRepo,
		advertRepo:   advertRepo,
		cacheRepo:    cacheRepo,
		log:          log,
	}
}

// Add records the advert in the user's favorites set (idempotent) and counts
// the like as two views. The view bump is best-effort: a missing advert does
// not fail the favorite.
func (uc *FavoritesUseCase) Add(ctx context.Context, userID string, advertID int64) error {
	if err := uc.favoriteRepo.Add(ctx, userID, advertID); err != nil {
		uc.log.Errorf("Failed to add favorite %d for user %s: %v", advertID, userID, err)
		return fmt.Errorf("FavoritesUseCase.Add: %w", err)
	}

	if err := uc.advertRepo.IncrementViews(ctx, advertID, likeIncrement); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.log.Warnf("Failed to bump views on like for advert %d: %v", advertID, err)
		}
		return nil
	}

	// The bump changed the stored view count, so the cached copy is stale.
	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Delete(ctx, advertCacheKey(advertID)); err != nil {
			uc.log.Warnf("Failed to invalidate cache for advert %d: %v", advertID, err)
		}
	}
	return nil
}

// Remove is a no-op when the advert was not favorited.
func (uc *FavoritesUseCase) Remove(ctx context.Context, userID string, advertID int64) error {
	if err := uc.favoriteRepo.Remove(ctx, userID, advertID); err != nil {
		uc.log.Errorf("Failed to remove favorite %d for user %s: %v", advertID, userID, err)
		return fmt.Errorf("FavoritesUseCase.Remove: %w", err)
	}
	return nil
}

func (uc *FavoritesUseCase) ListIDs(ctx context.Context, userID string) ([]int64, error) {
	ids, err := uc.favoriteRepo.ListIDs(ctx, userID)
	if err != nil {
		uc.log.Errorf("Failed to list favorite ids for user %s: %v", userID, err)
		return nil, fmt.Errorf("FavoritesUseCase.ListIDs: %w", err)
	}
	return ids, nil
}

// ListMaterialized resolves each favorited id against the advert store and
// buckets the results by category. Adverts that have been deleted or
// archived since favoriting are silently skipped: favorites are a
// convenience view, not a consistency-critical structure.
func (uc *FavoritesUseCase) ListMaterialized(ctx context.Context, userID string) (map[entity.Category][]*entity.Advert, error) {
	ids, err := uc.favoriteRepo.ListIDs(ctx, userID)
	if err != nil {
		uc.log.Errorf("Failed to list favorite ids for user %s: %v", userID, err)
		return nil, fmt.Errorf("FavoritesUseCase.ListMaterialized: %w", err)
	}

	buckets := entity.NewCategoryBuckets()
	for _, id := range ids {
		advert, err := uc.advertRepo.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				uc.log.Warnf("Failed to materialize favorite %d for user %s: %v", id, userID, err)
			}
			continue
		}
		if _, ok := buckets[advert.Category]; ok {
			buckets[advert.Category] = append(buckets[advert.Category], advert)
		}
	}

	return buckets, nil
}
