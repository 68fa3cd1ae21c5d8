package repository

import (
	"context"

	"github.com/adboard/adverts-service/internal/entity"
)

// ArchiveRepository stores advert snapshots moved out of the active
// collection. Entries keep the original advert id; the storage-internal id is
// dropped on insert.
type ArchiveRepository interface {
	Insert(ctx context.Context, advert *entity.Advert) error
	GetByAdvertID(ctx context.Context, id int64) (*entity.Advert, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error)
	Delete(ctx context.Context, id int64) error
}
