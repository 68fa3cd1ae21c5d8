package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/port/repository"
)

type MockAdvertRepository struct{ mock.Mock }

func (m *MockAdvertRepository) Create(ctx context.Context, advert *entity.Advert) error {
	args := m.Called(ctx, advert)
	return args.Error(0)
}
func (m *MockAdvertRepository) Insert(ctx context.Context, advert *entity.Advert) error {
	args := m.Called(ctx, advert)
	return args.Error(0)
}
func (m *MockAdvertRepository) GetByID(ctx context.Context, id int64) (*entity.Advert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Advert), args.Error(1)
}
func (m *MockAdvertRepository) ListByCategory(ctx context.Context, filter repository.ListFilter) ([]*entity.Advert, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Advert), args.Get(1).(int64), args.Error(2)
}
func (m *MockAdvertRepository) ListRecent(ctx context.Context, limit, offset int64) ([]*entity.Advert, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Advert), args.Error(1)
}
func (m *MockAdvertRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Advert), args.Error(1)
}
func (m *MockAdvertRepository) IncrementViews(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}
func (m *MockAdvertRepository) Recommend(ctx context.Context, category entity.Category, excludeID, limit int64) ([]*entity.Advert, error) {
	args := m.Called(ctx, category, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Advert), args.Error(1)
}
func (m *MockAdvertRepository) Replace(ctx context.Context, id int64, advert *entity.Advert) error {
	args := m.Called(ctx, id, advert)
	return args.Error(0)
}
func (m *MockAdvertRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAdvertRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAdvertRepository) SearchText(ctx context.Context, tokens []string, city string, limit, offset int64) ([]*entity.Advert, int64, error) {
	args := m.Called(ctx, tokens, city, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.Advert), args.Get(1).(int64), args.Error(2)
}
func (m *MockAdvertRepository) ListCities(ctx context.Context) ([]repository.CityEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CityEntry), args.Error(1)
}
func (m *MockAdvertRepository) UpdatePhotos(ctx context.Context, id int64, photos []entity.Photo) error {
	args := m.Called(ctx, id, photos)
	return args.Error(0)
}
func (m *MockAdvertRepository) SweepExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAdvertRepository) DecrementPromotion(ctx context.Context, field repository.PromotionField) (int64, error) {
	args := m.Called(ctx, field)
	return args.Get(0).(int64), args.Error(1)
}

type MockArchiveRepository struct{ mock.Mock }

func (m *MockArchiveRepository) Insert(ctx context.Context, advert *entity.Advert) error {
	args := m.Called(ctx, advert)
	return args.Error(0)
}
func (m *MockArchiveRepository) GetByAdvertID(ctx context.Context, id int64) (*entity.Advert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Advert), args.Error(1)
}
func (m *MockArchiveRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Advert), args.Error(1)
}
func (m *MockArchiveRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFavoriteRepository struct{ mock.Mock }

func (m *MockFavoriteRepository) Add(ctx context.Context, userID string, advertID int64) error {
	args := m.Called(ctx, userID, advertID)
	return args.Error(0)
}
func (m *MockFavoriteRepository) Remove(ctx context.Context, userID string, advertID int64) error {
	args := m.Called(ctx, userID, advertID)
	return args.Error(0)
}
func (m *MockFavoriteRepository) ListIDs(ctx context.Context, userID string) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockSearchTermRepository struct{ mock.Mock }

func (m *MockSearchTermRepository) RecordQuery(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}
func (m *MockSearchTermRepository) TopPopular(ctx context.Context, n int64) ([]string, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockSearchTermRepository) MatchTokens(ctx context.Context, tokens []string, n int64) ([]string, error) {
	args := m.Called(ctx, tokens, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockUploader struct{ mock.Mock }

func (m *MockUploader) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishAdvertCreated(ctx context.Context, advert *entity.Advert) error {
	args := m.Called(ctx, advert)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishAdvertUpdated(ctx context.Context, advert *entity.Advert) error {
	args := m.Called(ctx, advert)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishAdvertDeleted(ctx context.Context, advertID int64) error {
	args := m.Called(ctx, advertID)
	return args.Error(0)
}
func (m *MockEventPublisher) PublishAdvertArchived(ctx context.Context, advertID int64) error {
	args := m.Called(ctx, advertID)
	return args.Error(0)
}

type MockOwnerNotifier struct{ mock.Mock }

func (m *MockOwnerNotifier) SendAdvertArchived(ctx context.Context, toEmail, advertTitle string) error {
	args := m.Called(ctx, toEmail, advertTitle)
	return args.Error(0)
}

type MockProfileResolver struct{ mock.Mock }

func (m *MockProfileResolver) GetOwnerEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
