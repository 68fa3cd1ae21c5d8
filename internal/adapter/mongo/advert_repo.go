package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	advertsCollectionName  = "advs"
	countersCollectionName = "counters"
	advertSequenceName     = "advert_id"
)

type AdvertMongoRepository struct {
	db *mongo.Database
}

func NewAdvertMongoRepository(client *mongo.Client, dbName string) *AdvertMongoRepository {
	return &AdvertMongoRepository{db: client.Database(dbName)}
}

func (r *AdvertMongoRepository) adverts() *mongo.Collection {
	return r.db.Collection(advertsCollectionName)
}

// nextID reserves the next advert id from the counters collection. The
// findAndModify upsert is atomic on the storage side, so concurrent creators
// never observe the same value.
func (r *AdvertMongoRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(countersCollectionName).FindOneAndUpdate(
		ctx,
		bson.M{"_id": advertSequenceName},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve next advert id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AdvertMongoRepository) Create(ctx context.Context, advert *entity.Advert) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	advert.ID = id

	if _, err := r.adverts().InsertOne(ctx, advert); err != nil {
		return fmt.Errorf("failed to insert advert: %w", err)
	}
	return nil
}

func (r *AdvertMongoRepository) Insert(ctx context.Context, advert *entity.Advert) error {
	if _, err := r.adverts().InsertOne(ctx, advert); err != nil {
		return fmt.Errorf("failed to insert advert %d: %w", advert.ID, err)
	}
	return nil
}

func (r *AdvertMongoRepository) GetByID(ctx context.Context, id int64) (*entity.Advert, error) {
	var advert entity.Advert
	err := r.adverts().FindOne(ctx, bson.M{"id": id}).Decode(&advert)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get advert %d: %w", id, err)
	}
	return &advert, nil
}

func (r *AdvertMongoRepository) ListByCategory(ctx context.Context, filter repository.ListFilter) ([]*entity.Advert, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["db_category"] = filter.Category
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.PriceMin > 0 || filter.PriceMax > 0 {
		price := bson.M{}
		if filter.PriceMin > 0 {
			price["$gte"] = filter.PriceMin
		}
		if filter.PriceMax > 0 {
			price["$lte"] = filter.PriceMax
		}
		query["price"] = price
	}

	total, err := r.adverts().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count adverts: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "vip", Value: -1}, {Key: "top", Value: -1}, {Key: "lifts", Value: -1}}).
		SetSkip(filter.Offset).
		SetLimit(filter.Limit)

	cursor, err := r.adverts().Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list adverts: %w", err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode adverts: %w", err)
	}
	return adverts, total, nil
}

func (r *AdvertMongoRepository) ListRecent(ctx context.Context, limit, offset int64) ([]*entity.Advert, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "$natural", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.adverts().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent adverts: %w", err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, fmt.Errorf("failed to decode recent adverts: %w", err)
	}
	return adverts, nil
}

func (r *AdvertMongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "$natural", Value: -1}})

	cursor, err := r.adverts().Find(ctx, bson.M{"owner": ownerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list adverts for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, fmt.Errorf("failed to decode owner adverts: %w", err)
	}
	return adverts, nil
}

func (r *AdvertMongoRepository) IncrementViews(ctx context.Context, id int64, amount int64) error {
	res, err := r.adverts().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"views": amount}})
	if err != nil {
		return fmt.Errorf("failed to increment views for advert %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdvertMongoRepository) Recommend(ctx context.Context, category entity.Category, excludeID, limit int64) ([]*entity.Advert, error) {
	// Tertiary key is views here, not lifts. The two sort orders are
	// intentionally different and must not be unified.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "vip", Value: -1}, {Key: "top", Value: -1}, {Key: "views", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.adverts().Find(ctx, bson.M{
		"db_category": category,
		"id":          bson.M{"$ne": excludeID},
	}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return adverts, nil
}

func (r *AdvertMongoRepository) Replace(ctx context.Context, id int64, advert *entity.Advert) error {
	res, err := r.adverts().ReplaceOne(ctx, bson.M{"id": id}, advert)
	if err != nil {
		return fmt.Errorf("failed to replace advert %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdvertMongoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.adverts().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete advert %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdvertMongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.adverts().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count adverts: %w", err)
	}
	return total, nil
}

func (r *AdvertMongoRepository) SearchText(ctx context.Context, tokens []string, city string, limit, offset int64) ([]*entity.Advert, int64, error) {
	patterns := make([]primitive.Regex, 0, len(tokens))
	for _, token := range tokens {
		patterns = append(patterns, primitive.Regex{Pattern: regexp.QuoteMeta(token), Options: "i"})
	}

	query := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$in": patterns}},
		bson.M{"description": bson.M{"$in": patterns}},
	}}
	if city != "" {
		query["city"] = city
	}

	total, err := r.adverts().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "$natural", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.adverts().Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search adverts: %w", err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search results: %w", err)
	}
	return adverts, total, nil
}

func (r *AdvertMongoRepository) ListCities(ctx context.Context) ([]repository.CityEntry, error) {
	findOptions := options.Find().SetProjection(bson.M{
		"db_category": 1,
		"geo_indexed": 1,
		"city":        1,
	})

	cursor, err := r.adverts().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []repository.CityEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode city entries: %w", err)
	}
	return entries, nil
}

func (r *AdvertMongoRepository) UpdatePhotos(ctx context.Context, id int64, photos []entity.Photo) error {
	res, err := r.adverts().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"full_upload": photos}})
	if err != nil {
		return fmt.Errorf("failed to update photos for advert %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AdvertMongoRepository) SweepExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	res, err := r.adverts().DeleteMany(ctx, bson.M{"created_at": bson.M{"$lte": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired adverts: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *AdvertMongoRepository) DecrementPromotion(ctx context.Context, field repository.PromotionField) (int64, error) {
	// The $gt filter keeps counters from ever going negative.
	res, err := r.adverts().UpdateMany(ctx,
		bson.M{string(field): bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{string(field): -1}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement %s counters: %w", field, err)
	}
	return res.ModifiedCount, nil
}
