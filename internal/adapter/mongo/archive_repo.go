package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const archiveCollectionName = "archive"

type ArchiveMongoRepository struct {
	db *mongo.Database
}

func NewArchiveMongoRepository(client *mongo.Client, dbName string) *ArchiveMongoRepository {
	return &ArchiveMongoRepository{db: client.Database(dbName)}
}

func (r *ArchiveMongoRepository) archive() *mongo.Collection {
	return r.db.Collection(archiveCollectionName)
}

// Insert stores a snapshot. The entity carries no _id field, so the archive
// copy gets a fresh storage-internal id while keeping the advert id.
func (r *ArchiveMongoRepository) Insert(ctx context.Context, advert *entity.Advert) error {
	if _, err := r.archive().InsertOne(ctx, advert); err != nil {
		return fmt.Errorf("failed to insert advert %d into archive: %w", advert.ID, err)
	}
	return nil
}

func (r *ArchiveMongoRepository) GetByAdvertID(ctx context.Context, id int64) (*entity.Advert, error) {
	var advert entity.Advert
	err := r.archive().FindOne(ctx, bson.M{"id": id}).Decode(&advert)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get archived advert %d: %w", id, err)
	}
	return &advert, nil
}

func (r *ArchiveMongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error) {
	cursor, err := r.archive().Find(ctx, bson.M{"owner": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var adverts []*entity.Advert
	if err := cursor.All(ctx, &adverts); err != nil {
		return nil, fmt.Errorf("failed to decode archived adverts: %w", err)
	}
	return adverts, nil
}

func (r *ArchiveMongoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.archive().DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete archived advert %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
