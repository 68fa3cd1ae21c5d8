package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/cache"
	"github.com/adboard/adverts-service/internal/port/repository"
	"github.com/adboard/adverts-service/internal/port/storage"
)

const (
	defaultPageLimit      = 8
	recommendLimit        = 30
	defaultAdvertCacheTTL = 5 * time.Minute

	// A plain view adds 1; a like adds 2. The asymmetry is an intentional
	// business rule.
	viewIncrement = 1
	likeIncrement = 2

	// The public counter is inflated for marketing reasons.
	publicCountBase       = 20000
	publicCountMultiplier = 3

	// New gallery photos land at the end of the client's sort order.
	galleryAppendSortOrder = 1000
)

const (
	SortCheap     = "cheap"
	SortExpensive = "expensive"
)

type AdvertUseCase struct {
	advertRepo repository.AdvertRepository
	cacheRepo  cache.CacheRepository
	uploader   storage.Uploader
	publisher  EventPublisher
	log        logger.Logger
	cacheTTL   time.Duration
}

func NewAdvertUseCase(
	advertRepo repository.AdvertRepository,
	cacheRepo cache.CacheRepository,
	uploader storage.Uploader,
	publisher EventPublisher,
	log logger.Logger,
	cacheTTL time.Duration,
) *AdvertUseCase {
	if cacheTTL <= 0 {
		cacheTTL = defaultAdvertCacheTTL
	}
	return &AdvertUseCase{
		advertRepo: advertRepo,
		cacheRepo:  cacheRepo,
		uploader:   uploader,
		publisher:  publisher,
		log:        log,
		cacheTTL:   cacheTTL,
	}
}

type CreateAdvertInput struct {
	OwnerID  string
	Category entity.Category
	Advert   entity.Advert
	// Photo is the required main image.
	PhotoName string
	PhotoData []byte
}

// CreateAdvert uploads the main photo, stamps timestamps, zeroes counters
// not explicitly supplied and persists the advert under a fresh sequence id.
func (uc *AdvertUseCase) CreateAdvert(ctx context.Context, input CreateAdvertInput) (*entity.Advert, error) {
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if len(input.PhotoData) == 0 {
		return nil, ErrPhotoRequired
	}

	advert := input.Advert
	advert.Owner = input.OwnerID
	advert.Category = input.Category
	advert.CreatedAt = time.Now()
	advert.UpdatedAt = nil
	advert.Views = 0
	if advert.Top < 0 {
		advert.Top = 0
	}
	if advert.Vip < 0 {
		advert.Vip = 0
	}
	if advert.Lifts < 0 {
		advert.Lifts = 0
	}
	if advert.Geocode != "" {
		advert.GeoIndexed = entity.ParseGeocode(advert.Geocode)
	}

	uploadURL, err := uc.uploader.Upload(ctx, input.PhotoName, input.PhotoData)
	if err != nil {
		uc.log.Errorf("Failed to upload main photo: %v", err)
		return nil, fmt.Errorf("AdvertUseCase.CreateAdvert: failed to upload photo: %w", err)
	}
	advert.Upload = uploadURL
	advert.FullUpload = []entity.Photo{}

	if err := uc.advertRepo.Create(ctx, &advert); err != nil {
		uc.log.Errorf("Failed to create advert: %v", err)
		return nil, fmt.Errorf("AdvertUseCase.CreateAdvert: failed to create advert: %w", err)
	}

	uc.cacheAdvert(ctx, &advert)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishAdvertCreated(ctx, &advert); errPub != nil {
			uc.log.Warnf("Failed to publish advert created event for %d: %v", advert.ID, errPub)
		}
	}

	return &advert, nil
}

func (uc *AdvertUseCase) GetAdvert(ctx context.Context, id int64) (*entity.Advert, error) {
	if uc.cacheRepo != nil {
		key := advertCacheKey(id)
		cached, err := uc.cacheRepo.Get(ctx, key)
		if err == nil {
			var advert entity.Advert
			if errUnmarshal := json.Unmarshal(cached, &advert); errUnmarshal == nil {
				return &advert, nil
			}
			uc.log.Warnf("Corrupted advert cache entry for key %s, dropping", key)
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.log.Warnf("Failed to delete corrupted cache entry %s: %v", key, delErr)
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.log.Warnf("Failed to read advert %d from cache: %v", id, err)
		}
	}

	advert, err := uc.advertRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.log.Errorf("Failed to get advert %d: %v", id, err)
		}
		return nil, fmt.Errorf("AdvertUseCase.GetAdvert: %w", err)
	}

	uc.cacheAdvert(ctx, advert)
	return advert, nil
}

type ListInput struct {
	Category entity.Category
	City     string
	Sort     string
	PriceMin float64
	PriceMax float64
	Limit    int64
	Offset   int64
}

// ListByCategory returns one promotion-sorted page plus the independent total
// count. When a price sort is requested, only the already-paginated page is
// re-ordered — the storage layer applies limit/offset before the price sort.
// That page-then-sort behavior is a documented product quirk, not a bug.
func (uc *AdvertUseCase) ListByCategory(ctx context.Context, input ListInput) ([]*entity.Advert, int64, error) {
	if input.Limit <= 0 {
		input.Limit = defaultPageLimit
	}

	adverts, total, err := uc.advertRepo.ListByCategory(ctx, repository.ListFilter{
		Category: input.Category,
		City:     input.City,
		PriceMin: input.PriceMin,
		PriceMax: input.PriceMax,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		uc.log.Errorf("Failed to list adverts: %v", err)
		return nil, 0, fmt.Errorf("AdvertUseCase.ListByCategory: %w", err)
	}

	switch input.Sort {
	case SortCheap:
		sort.SliceStable(adverts, func(i, j int) bool { return adverts[i].Price < adverts[j].Price })
	case SortExpensive:
		sort.SliceStable(adverts, func(i, j int) bool { return adverts[i].Price > adverts[j].Price })
	}

	return adverts, total, nil
}

// RecentFeed returns the newest adverts bucketed by category.
func (uc *AdvertUseCase) RecentFeed(ctx context.Context, limit, offset int64) (map[entity.Category][]*entity.Advert, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}

	adverts, err := uc.advertRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Failed to list recent adverts: %v", err)
		return nil, fmt.Errorf("AdvertUseCase.RecentFeed: %w", err)
	}
	return entity.BucketByCategory(adverts), nil
}

func (uc *AdvertUseCase) OwnerListings(ctx context.Context, ownerID string) (map[entity.Category][]*entity.Advert, error) {
	adverts, err := uc.advertRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		uc.log.Errorf("Failed to list adverts for owner %s: %v", ownerID, err)
		return nil, fmt.Errorf("AdvertUseCase.OwnerListings: %w", err)
	}
	return entity.BucketByCategory(adverts), nil
}

// PublicCount returns the inflated advert counter shown on the landing page.
func (uc *AdvertUseCase) PublicCount(ctx context.Context) (int64, error) {
	total, err := uc.advertRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("AdvertUseCase.PublicCount: %w", err)
	}
	return publicCountBase + total*publicCountMultiplier, nil
}

// CityRef is one entry of the per-category city directory.
type CityRef struct {
	Address string    `json:"address"`
	Geo     []float64 `json:"geo"`
}

// CityDirectory lists the cities in use per category, deduplicated by city
// name within each category.
func (uc *AdvertUseCase) CityDirectory(ctx context.Context) (map[entity.Category][]CityRef, error) {
	entries, err := uc.advertRepo.ListCities(ctx)
	if err != nil {
		uc.log.Errorf("Failed to list cities: %v", err)
		return nil, fmt.Errorf("AdvertUseCase.CityDirectory: %w", err)
	}

	directory := make(map[entity.Category][]CityRef, len(entity.Categories()))
	seen := make(map[entity.Category]map[string]bool)
	for _, c := range entity.Categories() {
		directory[c] = []CityRef{}
		seen[c] = make(map[string]bool)
	}

	for _, e := range entries {
		cities, ok := seen[e.Category]
		if !ok || cities[e.City] {
			continue
		}
		cities[e.City] = true
		directory[e.Category] = append(directory[e.Category], CityRef{Address: e.City, Geo: e.Geo})
	}

	return directory, nil
}

// MarkViewed adds one plain view.
func (uc *AdvertUseCase) MarkViewed(ctx context.Context, id int64) error {
	if err := uc.advertRepo.IncrementViews(ctx, id, viewIncrement); err != nil {
		return fmt.Errorf("AdvertUseCase.MarkViewed: %w", err)
	}
	uc.invalidateAdvert(ctx, id)
	return nil
}

func (uc *AdvertUseCase) Recommend(ctx context.Context, category entity.Category, excludeID int64) ([]*entity.Advert, error) {
	adverts, err := uc.advertRepo.Recommend(ctx, category, excludeID, recommendLimit)
	if err != nil {
		uc.log.Errorf("Failed to get recommendations for category %s: %v", category, err)
		return nil, fmt.Errorf("AdvertUseCase.Recommend: %w", err)
	}
	return adverts, nil
}

// EditAdvert merges the patch into the stored advert (photo fields excluded),
// refreshes updated_at and overwrites the stored document.
func (uc *AdvertUseCase) EditAdvert(ctx context.Context, id int64, patch entity.AdvertPatch) (*entity.Advert, error) {
	advert, err := uc.advertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("AdvertUseCase.EditAdvert: failed to load advert: %w", err)
	}

	advert.ApplyPatch(patch, time.Now())

	if err := uc.advertRepo.Replace(ctx, id, advert); err != nil {
		uc.log.Errorf("Failed to replace advert %d: %v", id, err)
		return nil, fmt.Errorf("AdvertUseCase.EditAdvert: failed to save advert: %w", err)
	}

	uc.invalidateAdvert(ctx, id)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishAdvertUpdated(ctx, advert); errPub != nil {
			uc.log.Warnf("Failed to publish advert updated event for %d: %v", id, errPub)
		}
	}

	return advert, nil
}

func (uc *AdvertUseCase) DeleteAdvert(ctx context.Context, id int64) error {
	if err := uc.advertRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("AdvertUseCase.DeleteAdvert: %w", err)
	}

	uc.invalidateAdvert(ctx, id)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishAdvertDeleted(ctx, id); errPub != nil {
			uc.log.Warnf("Failed to publish advert deleted event for %d: %v", id, errPub)
		}
	}
	return nil
}

// AddGalleryPhoto uploads one more image and appends it to the advert's
// gallery with the append sort order.
func (uc *AdvertUseCase) AddGalleryPhoto(ctx context.Context, id int64, fileName string, data []byte) (*entity.Photo, error) {
	if len(data) == 0 {
		return nil, ErrPhotoRequired
	}

	advert, err := uc.advertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("AdvertUseCase.AddGalleryPhoto: failed to load advert: %w", err)
	}

	uploadURL, err := uc.uploader.Upload(ctx, fileName, data)
	if err != nil {
		uc.log.Errorf("Failed to upload gallery photo for advert %d: %v", id, err)
		return nil, fmt.Errorf("AdvertUseCase.AddGalleryPhoto: failed to upload photo: %w", err)
	}

	photo := entity.Photo{Uploads: uploadURL, SortOrder: galleryAppendSortOrder}
	photos := append(advert.FullUpload, photo)

	if err := uc.advertRepo.UpdatePhotos(ctx, id, photos); err != nil {
		uc.log.Errorf("Failed to save gallery photos for advert %d: %v", id, err)
		return nil, fmt.Errorf("AdvertUseCase.AddGalleryPhoto: failed to save photos: %w", err)
	}

	uc.invalidateAdvert(ctx, id)
	return &photo, nil
}

// SweepExpired removes adverts older than the retention window and returns
// how many were deleted.
func (uc *AdvertUseCase) SweepExpired(ctx context.Context, retention time.Duration) (int64, error) {
	removed, err := uc.advertRepo.SweepExpired(ctx, retention)
	if err != nil {
		return 0, fmt.Errorf("AdvertUseCase.SweepExpired: %w", err)
	}
	return removed, nil
}

func (uc *AdvertUseCase) DecrementPromotion(ctx context.Context, field repository.PromotionField) (int64, error) {
	touched, err := uc.advertRepo.DecrementPromotion(ctx, field)
	if err != nil {
		return 0, fmt.Errorf("AdvertUseCase.DecrementPromotion(%s): %w", field, err)
	}
	return touched, nil
}

func (uc *AdvertUseCase) cacheAdvert(ctx context.Context, advert *entity.Advert) {
	if uc.cacheRepo == nil {
		return
	}
	data, err := json.Marshal(advert)
	if err != nil {
		uc.log.Warnf("Failed to marshal advert %d for caching: %v", advert.ID, err)
		return
	}
	if err := uc.cacheRepo.Set(ctx, advertCacheKey(advert.ID), data, uc.cacheTTL); err != nil {
		uc.log.Warnf("Failed to cache advert %d: %v", advert.ID, err)
	}
}

func (uc *AdvertUseCase) invalidateAdvert(ctx context.Context, id int64) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, advertCacheKey(id)); err != nil {
		uc.log.Warnf("Failed to invalidate cache for advert %d: %v", id, err)
	}
}
