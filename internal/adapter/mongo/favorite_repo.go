package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const favoritesCollectionName = "fav"

type FavoriteMongoRepository struct {
	db *mongo.Database
}

func NewFavoriteMongoRepository(client *mongo.Client, dbName string) *FavoriteMongoRepository {
	return &FavoriteMongoRepository{db: client.Database(dbName)}
}

func (r *FavoriteMongoRepository) favorites() *mongo.Collection {
	return r.db.Collection(favoritesCollectionName)
}

type favoriteDocument struct {
	User string  `bson:"user"`
	IDs  []int64 `bson:"ids"`
}

// Add is idempotent: $addToSet keeps the ids a set, and the upsert creates
// the user's record on first use.
func (r *FavoriteMongoRepository) Add(ctx context.Context, userID string, advertID int64) error {
	_, err := r.favorites().UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$setOnInsert": bson.M{"user": userID},
			"$addToSet":    bson.M{"ids": advertID},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite %d for user %s: %w", advertID, userID, err)
	}
	return nil
}

func (r *FavoriteMongoRepository) Remove(ctx context.Context, userID string, advertID int64) error {
	_, err := r.favorites().UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$pull": bson.M{"ids": advertID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite %d for user %s: %w", advertID, userID, err)
	}
	return nil
}

func (r *FavoriteMongoRepository) ListIDs(ctx context.Context, userID string) ([]int64, error) {
	var doc favoriteDocument
	err := r.favorites().FindOne(ctx, bson.M{"user": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("failed to get favorites for user %s: %w", userID, err)
	}
	if doc.IDs == nil {
		return []int64{}, nil
	}
	return doc.IDs, nil
}
