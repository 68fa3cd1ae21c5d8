package repository

import (
	"context"
	"errors"
	"time"

	"github.com/adboard/adverts-service/internal/entity"
)

var ErrNotFound = errors.New("not found")

// PromotionField selects which promotion counter a daily decrement targets.
type PromotionField string

const (
	PromotionTop PromotionField = "top"
	PromotionVip PromotionField = "vip"
)

// ListFilter narrows category listings. Zero values mean "no constraint".
type ListFilter struct {
	Category entity.Category
	City     string
	PriceMin float64
	PriceMax float64
	Limit    int64
	Offset   int64
}

// CityEntry is the projection used by the city directory endpoint.
type CityEntry struct {
	Category entity.Category `bson:"db_category"`
	City     string          `bson:"city"`
	Geo      []float64       `bson:"geo_indexed"`
}

type AdvertRepository interface {
	// Create assigns the next sequence id, persists the advert and returns it
	// with the id set.
	Create(ctx context.Context, advert *entity.Advert) error
	// Insert persists the advert keeping the id it already carries. Used by
	// archive restore.
	Insert(ctx context.Context, advert *entity.Advert) error
	GetByID(ctx context.Context, id int64) (*entity.Advert, error)
	// ListByCategory returns one promotion-sorted page (vip desc, top desc,
	// lifts desc) plus the total matching count computed independently.
	ListByCategory(ctx context.Context, filter ListFilter) ([]*entity.Advert, int64, error)
	// ListRecent returns adverts in reverse insertion order.
	ListRecent(ctx context.Context, limit, offset int64) ([]*entity.Advert, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error)
	IncrementViews(ctx context.Context, id int64, amount int64) error
	// Recommend returns same-category adverts excluding one id, sorted by
	// vip desc, top desc, views desc. The tertiary key deliberately differs
	// from the category listing sort.
	Recommend(ctx context.Context, category entity.Category, excludeID, limit int64) ([]*entity.Advert, error)
	Replace(ctx context.Context, id int64, advert *entity.Advert) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	// SearchText returns one page of adverts whose title or description
	// matches any token as a case-insensitive substring, newest first, plus
	// the total matching count.
	SearchText(ctx context.Context, tokens []string, city string, limit, offset int64) ([]*entity.Advert, int64, error)
	ListCities(ctx context.Context) ([]CityEntry, error)
	UpdatePhotos(ctx context.Context, id int64, photos []entity.Photo) error
	// SweepExpired deletes every advert created before now-retention and
	// returns the number removed.
	SweepExpired(ctx context.Context, retention time.Duration) (int64, error)
	// DecrementPromotion decrements the given counter by one on every advert
	// where it is still positive, and returns the number touched.
	DecrementPromotion(ctx context.Context, field PromotionField) (int64, error)
}
