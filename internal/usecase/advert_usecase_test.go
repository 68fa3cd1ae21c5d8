package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/cache"
	"github.com/adboard/adverts-service/internal/port/repository"
)

func newAdvertUseCaseForTest(
	advertRepo *MockAdvertRepository,
	cacheRepo *MockCacheRepository,
	uploader *MockUploader,
	publisher *MockEventPublisher,
) *AdvertUseCase {
	var events EventPublisher
	if publisher != nil {
		events = publisher
	}
	var cacheIface cache.CacheRepository
	if cacheRepo != nil {
		cacheIface = cacheRepo
	}
	return NewAdvertUseCase(advertRepo, cacheIface, uploader, events, logger.NewNop(), 0)
}

func TestAdvertUseCase_CreateAdvert(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectsUnknownCategory", func(t *testing.T) {
		uc := newAdvertUseCaseForTest(new(MockAdvertRepository), nil, new(MockUploader), nil)

		_, err := uc.CreateAdvert(ctx, CreateAdvertInput{
			OwnerID:   "user-1",
			Category:  entity.Category("pets"),
			PhotoName: "a.jpg",
			PhotoData: []byte{1},
		})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("RejectsMissingPhoto", func(t *testing.T) {
		uc := newAdvertUseCaseForTest(new(MockAdvertRepository), nil, new(MockUploader), nil)

		_, err := uc.CreateAdvert(ctx, CreateAdvertInput{
			OwnerID:  "user-1",
			Category: entity.CategoryRealty,
		})
		assert.ErrorIs(t, err, ErrPhotoRequired)
	})

	t.Run("ZeroesCountersAndStampsCreation", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockCache := new(MockCacheRepository)
		mockUploader := new(MockUploader)
		mockPub := new(MockEventPublisher)
		uc := newAdvertUseCaseForTest(mockRepo, mockCache, mockUploader, mockPub)

		mockUploader.On("Upload", ctx, "photo.jpg", []byte{1, 2}).Return("http://s3/photo.jpg", nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*entity.Advert")).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Advert).ID = 101
		}).Return(nil).Once()
		mockCache.On("Set", ctx, advertCacheKey(101), mock.Anything, defaultAdvertCacheTTL).Return(nil).Once()
		mockPub.On("PublishAdvertCreated", ctx, mock.AnythingOfType("*entity.Advert")).Return(nil).Once()

		created, err := uc.CreateAdvert(ctx, CreateAdvertInput{
			OwnerID:  "user-1",
			Category: entity.CategoryAvto,
			Advert: entity.Advert{
				Title: "Car",
				Views: 99,
				Top:   -5,
				Vip:   3,
				Lifts: -1,
			},
			PhotoName: "photo.jpg",
			PhotoData: []byte{1, 2},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(101), created.ID)
		assert.Equal(t, "user-1", created.Owner)
		assert.Equal(t, entity.CategoryAvto, created.Category)
		assert.Equal(t, int64(0), created.Views)
		assert.Equal(t, int64(0), created.Top)
		assert.Equal(t, int64(3), created.Vip)
		assert.Equal(t, int64(0), created.Lifts)
		assert.Equal(t, "http://s3/photo.jpg", created.Upload)
		assert.NotNil(t, created.FullUpload)
		assert.Empty(t, created.FullUpload)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Nil(t, created.UpdatedAt)

		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
		mockUploader.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("UploadFailureAborts", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockUploader := new(MockUploader)
		uc := newAdvertUseCaseForTest(mockRepo, nil, mockUploader, nil)

		mockUploader.On("Upload", ctx, "photo.jpg", []byte{1}).Return("", errors.New("minio down")).Once()

		_, err := uc.CreateAdvert(ctx, CreateAdvertInput{
			OwnerID:   "user-1",
			Category:  entity.CategoryRealty,
			PhotoName: "photo.jpg",
			PhotoData: []byte{1},
		})

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAdvertUseCase_GetAdvert(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHitSkipsRepository", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockCache := new(MockCacheRepository)
		uc := newAdvertUseCaseForTest(mockRepo, mockCache, nil, nil)

		cached, _ := json.Marshal(&entity.Advert{ID: 7, Title: "Cached"})
		mockCache.On("Get", ctx, advertCacheKey(7)).Return(cached, nil).Once()

		advert, err := uc.GetAdvert(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, "Cached", advert.Title)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("CacheMissReadsAndRecaches", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockCache := new(MockCacheRepository)
		uc := newAdvertUseCaseForTest(mockRepo, mockCache, nil, nil)

		stored := &entity.Advert{ID: 7, Title: "Stored"}
		mockCache.On("Get", ctx, advertCacheKey(7)).Return(nil, cache.ErrNotFound).Once()
		mockRepo.On("GetByID", ctx, int64(7)).Return(stored, nil).Once()
		mockCache.On("Set", ctx, advertCacheKey(7), mock.Anything, defaultAdvertCacheTTL).Return(nil).Once()

		advert, err := uc.GetAdvert(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, "Stored", advert.Title)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("CorruptedCacheEntryIsDropped", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockCache := new(MockCacheRepository)
		uc := newAdvertUseCaseForTest(mockRepo, mockCache, nil, nil)

		mockCache.On("Get", ctx, advertCacheKey(7)).Return([]byte("{not json"), nil).Once()
		mockCache.On("Delete", ctx, advertCacheKey(7)).Return(nil).Once()
		mockRepo.On("GetByID", ctx, int64(7)).Return(&entity.Advert{ID: 7}, nil).Once()
		mockCache.On("Set", ctx, advertCacheKey(7), mock.Anything, defaultAdvertCacheTTL).Return(nil).Once()

		_, err := uc.GetAdvert(ctx, 7)

		assert.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("NotFoundIsPropagated", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		mockRepo.On("GetByID", ctx, int64(404)).Return(nil, repository.ErrNotFound).Once()

		_, err := uc.GetAdvert(ctx, 404)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestAdvertUseCase_ListByCategory(t *testing.T) {
	ctx := context.Background()

	page := []*entity.Advert{
		{ID: 1, Price: 500},
		{ID: 2, Price: 100},
		{ID: 3, Price: 300},
	}

	t.Run("DefaultLimitApplied", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		mockRepo.On("ListByCategory", ctx, repository.ListFilter{
			Category: entity.CategoryRealty,
			Limit:    int64(defaultPageLimit),
		}).Return(page, int64(40), nil).Once()

		results, total, err := uc.ListByCategory(ctx, ListInput{Category: entity.CategoryRealty})

		assert.NoError(t, err)
		assert.Equal(t, int64(40), total)
		assert.Len(t, results, 3)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PriceSortReordersOnlyTheFetchedPage", func(t *testing.T) {
		// The repository paginates on the promotion sort first; a price sort
		// then reorders just the returned page.
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		mockRepo.On("ListByCategory", ctx, mock.AnythingOfType("repository.ListFilter")).
			Return([]*entity.Advert{
				{ID: 1, Price: 500},
				{ID: 2, Price: 100},
				{ID: 3, Price: 300},
			}, int64(3), nil).Twice()

		cheap, _, err := uc.ListByCategory(ctx, ListInput{Category: entity.CategoryRealty, Sort: SortCheap})
		assert.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, idsOf(cheap))

		expensive, _, err := uc.ListByCategory(ctx, ListInput{Category: entity.CategoryRealty, Sort: SortExpensive})
		assert.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 2}, idsOf(expensive))
	})
}

func idsOf(ads []*entity.Advert) []int64 {
	ids := make([]int64, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	return ids
}

func TestAdvertUseCase_PublicCount(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAdvertRepository)
	uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

	mockRepo.On("Count", ctx).Return(int64(150), nil).Once()

	count, err := uc.PublicCount(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(20450), count)
}

func TestAdvertUseCase_MarkViewed(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAdvertRepository)
	mockCache := new(MockCacheRepository)
	uc := newAdvertUseCaseForTest(mockRepo, mockCache, nil, nil)

	mockRepo.On("IncrementViews", ctx, int64(5), int64(viewIncrement)).Return(nil).Once()
	mockCache.On("Delete", ctx, advertCacheKey(5)).Return(nil).Once()

	err := uc.MarkViewed(ctx, 5)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAdvertUseCase_EditAdvert(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesPatchAndInvalidatesCache", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		mockCache := new(MockCacheRepository)
		mockPub := new(MockEventPublisher)
		uc := newAdvertUseCaseForTest(mockRepo, mockCache, nil, mockPub)

		stored := &entity.Advert{ID: 9, Title: "Old", Price: 10, Upload: "http://s3/main.jpg"}
		mockRepo.On("GetByID", ctx, int64(9)).Return(stored, nil).Once()
		mockRepo.On("Replace", ctx, int64(9), mock.AnythingOfType("*entity.Advert")).Return(nil).Once()
		mockCache.On("Delete", ctx, advertCacheKey(9)).Return(nil).Once()
		mockPub.On("PublishAdvertUpdated", ctx, mock.AnythingOfType("*entity.Advert")).Return(nil).Once()

		title := "New"
		updated, err := uc.EditAdvert(ctx, 9, entity.AdvertPatch{Title: &title})

		assert.NoError(t, err)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, 10.0, updated.Price)
		assert.Equal(t, "http://s3/main.jpg", updated.Upload)
		assert.NotNil(t, updated.UpdatedAt)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("MissingAdvertFails", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		mockRepo.On("GetByID", ctx, int64(9)).Return(nil, repository.ErrNotFound).Once()

		_, err := uc.EditAdvert(ctx, 9, entity.AdvertPatch{})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdvertUseCase_AddGalleryPhoto(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAdvertRepository)
	mockCache := new(MockCacheRepository)
	mockUploader := new(MockUploader)
	uc := newAdvertUseCaseForTest(mockRepo, mockCache, mockUploader, nil)

	existing := &entity.Advert{ID: 4, FullUpload: []entity.Photo{{ID: 1, Uploads: "http://s3/a.jpg", SortOrder: 1000}}}
	mockRepo.On("GetByID", ctx, int64(4)).Return(existing, nil).Once()
	mockUploader.On("Upload", ctx, "b.jpg", []byte{9}).Return("http://s3/b.jpg", nil).Once()
	mockRepo.On("UpdatePhotos", ctx, int64(4), mock.MatchedBy(func(photos []entity.Photo) bool {
		return len(photos) == 2 && photos[1].Uploads == "http://s3/b.jpg" && photos[1].SortOrder == galleryAppendSortOrder
	})).Return(nil).Once()
	mockCache.On("Delete", ctx, advertCacheKey(4)).Return(nil).Once()

	photo, err := uc.AddGalleryPhoto(ctx, 4, "b.jpg", []byte{9})

	assert.NoError(t, err)
	assert.Equal(t, "http://s3/b.jpg", photo.Uploads)
	assert.Equal(t, galleryAppendSortOrder, photo.SortOrder)
	mockRepo.AssertExpectations(t)
}

func TestAdvertUseCase_Maintenance(t *testing.T) {
	ctx := context.Background()

	t.Run("SweepExpiredPassesRetention", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		retention := 28 * 24 * time.Hour
		mockRepo.On("SweepExpired", ctx, retention).Return(int64(12), nil).Once()

		removed, err := uc.SweepExpired(ctx, retention)
		assert.NoError(t, err)
		assert.Equal(t, int64(12), removed)
	})

	t.Run("DecrementPromotionPassesField", func(t *testing.T) {
		mockRepo := new(MockAdvertRepository)
		uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

		mockRepo.On("DecrementPromotion", ctx, repository.PromotionVip).Return(int64(4), nil).Once()

		touched, err := uc.DecrementPromotion(ctx, repository.PromotionVip)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), touched)
	})
}

func TestAdvertUseCase_CityDirectory(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAdvertRepository)
	uc := newAdvertUseCaseForTest(mockRepo, nil, nil, nil)

	mockRepo.On("ListCities", ctx).Return([]repository.CityEntry{
		{Category: entity.CategoryRealty, City: "London", Geo: []float64{-0.12, 51.5}},
		{Category: entity.CategoryRealty, City: "London", Geo: []float64{-0.13, 51.6}},
		{Category: entity.CategoryRealty, City: "Leeds", Geo: []float64{-1.55, 53.8}},
		{Category: entity.Category("legacy"), City: "Nowhere"},
	}, nil).Once()

	directory, err := uc.CityDirectory(ctx)

	assert.NoError(t, err)
	assert.Len(t, directory, 9)
	assert.Len(t, directory[entity.CategoryRealty], 2)
	assert.Equal(t, "London", directory[entity.CategoryRealty][0].Address)
	assert.Empty(t, directory[entity.CategoryAvto])
}
