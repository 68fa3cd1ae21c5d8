package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/adboard/adverts-service/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const searchCollectionName = "search"

type SearchTermMongoRepository struct {
	db *mongo.Database
}

func NewSearchTermMongoRepository(client *mongo.Client, dbName string) *SearchTermMongoRepository {
	return &SearchTermMongoRepository{db: client.Database(dbName)}
}

func (r *SearchTermMongoRepository) terms() *mongo.Collection {
	return r.db.Collection(searchCollectionName)
}

func (r *SearchTermMongoRepository) RecordQuery(ctx context.Context, text string) error {
	_, err := r.terms().UpdateOne(ctx,
		bson.M{"text": text},
		bson.M{
			"$setOnInsert": bson.M{"text": text},
			"$inc":         bson.M{"times": 1},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record search query: %w", err)
	}
	return nil
}

func (r *SearchTermMongoRepository) TopPopular(ctx context.Context, n int64) ([]string, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "times", Value: -1}}).
		SetLimit(n)

	cursor, err := r.terms().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular searches: %w", err)
	}
	defer cursor.Close(ctx)

	return collectTexts(ctx, cursor)
}

func (r *SearchTermMongoRepository) MatchTokens(ctx context.Context, tokens []string, n int64) ([]string, error) {
	patterns := make([]primitive.Regex, 0, len(tokens))
	for _, token := range tokens {
		patterns = append(patterns, primitive.Regex{Pattern: regexp.QuoteMeta(token), Options: "i"})
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "times", Value: -1}}).
		SetLimit(n)

	cursor, err := r.terms().Find(ctx, bson.M{"text": bson.M{"$in": patterns}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to match search terms: %w", err)
	}
	defer cursor.Close(ctx)

	return collectTexts(ctx, cursor)
}

func collectTexts(ctx context.Context, cursor *mongo.Cursor) ([]string, error) {
	var terms []entity.SearchTerm
	if err := cursor.All(ctx, &terms); err != nil {
		return nil, fmt.Errorf("failed to decode search terms: %w", err)
	}

	texts := make([]string, 0, len(terms))
	for _, term := range terms {
		texts = append(texts, term.Text)
	}
	return texts, nil
}
