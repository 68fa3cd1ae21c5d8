package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/adboard/adverts-service/internal/entity"
)

var (
	ErrPhotoRequired   = errors.New("photo is required")
	ErrInvalidCategory = errors.New("unknown category")
	// ErrRestoreConflict is returned when an archived advert's id has been
	// reassigned to an active advert. Restore is rejected instead of
	// silently re-issuing a new id.
	ErrRestoreConflict = errors.New("an active advert already holds this id")
)

// EventPublisher mirrors the NATS publisher. Usecases treat a nil publisher
// as "events disabled".
type EventPublisher interface {
	PublishAdvertCreated(ctx context.Context, advert *entity.Advert) error
	PublishAdvertUpdated(ctx context.Context, advert *entity.Advert) error
	PublishAdvertDeleted(ctx context.Context, advertID int64) error
	PublishAdvertArchived(ctx context.Context, advertID int64) error
}

func advertCacheKey(advertID int64) string {
	return fmt.Sprintf("advert:%d", advertID)
}
