package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/cache"
	"github.com/adboard/adverts-service/internal/port/repository"
)

// OwnerNotifier delivers the "advert archived" mail. Nil disables it.
type OwnerNotifier interface {
	SendAdvertArchived(ctx context.Context, toEmail, advertTitle string) error
}

// ProfileResolver looks up an advert owner's contact email in the user
// directory. An empty email with a nil error means the owner has no
// deliverable address.
type ProfileResolver interface {
	GetOwnerEmail(ctx context.Context, userID string) (string, error)
}

type ArchiveUseCase struct {
	advertRepo  repository.AdvertRepository
	archiveRepo repository.ArchiveRepository
	cacheRepo   cache.CacheRepository
	publisher   EventPublisher
	notifier    OwnerNotifier
	profiles    ProfileResolver
	log         logger.Logger
}

func NewArchiveUseCase(
	advertRepo repository.AdvertRepository,
	archiveRepo repository.ArchiveRepository,
	cacheRepo cache.CacheRepository,
	publisher EventPublisher,
	notifier OwnerNotifier,
	profiles ProfileResolver,
	log logger.Logger,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		advertRepo:  advertRepo,
		archiveRepo: archiveRepo,
		cacheRepo:   cacheRepo,
		publisher:   publisher,
		notifier:    notifier,
		profiles:    profiles,
		log:         log,
	}
}

// MoveToArchive copies the advert into the archive first and deletes the
// active document second. The two steps are not atomic; if the delete fails
// the advert exists in both stores until the move is retried, which is the
// accepted failure mode — a duplicate, never a loss.
func (uc *ArchiveUseCase) MoveToArchive(ctx context.Context, id int64) error {
	advert, err := uc.advertRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ArchiveUseCase.MoveToArchive: failed to load advert: %w", err)
	}

	if err := uc.archiveRepo.Insert(ctx, advert); err != nil {
		uc.log.Errorf("Failed to copy advert %d into archive: %v", id, err)
		return fmt.Errorf("ArchiveUseCase.MoveToArchive: failed to archive advert: %w", err)
	}

	if err := uc.advertRepo.Delete(ctx, id); err != nil {
		uc.log.Errorf("Advert %d archived but not removed from active store: %v", id, err)
		return fmt.Errorf("ArchiveUseCase.MoveToArchive: failed to delete active advert: %w", err)
	}

	uc.invalidate(ctx, id)

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishAdvertArchived(ctx, id); errPub != nil {
			uc.log.Warnf("Failed to publish advert archived event for %d: %v", id, errPub)
		}
	}

	uc.notifyOwner(ctx, advert)
	return nil
}

// Restore moves an archived advert back into the active store. If the id has
// since been reassigned to a new active advert, restore is rejected with
// ErrRestoreConflict rather than re-issuing a new id.
func (uc *ArchiveUseCase) Restore(ctx context.Context, id int64) (*entity.Advert, error) {
	advert, err := uc.archiveRepo.GetByAdvertID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ArchiveUseCase.Restore: failed to load archived advert: %w", err)
	}

	_, err = uc.advertRepo.GetByID(ctx, id)
	if err == nil {
		return nil, ErrRestoreConflict
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("ArchiveUseCase.Restore: failed to check active store: %w", err)
	}

	if err := uc.advertRepo.Insert(ctx, advert); err != nil {
		uc.log.Errorf("Failed to restore advert %d into active store: %v", id, err)
		return nil, fmt.Errorf("ArchiveUseCase.Restore: failed to re-insert advert: %w", err)
	}

	if err := uc.archiveRepo.Delete(ctx, id); err != nil {
		uc.log.Errorf("Advert %d restored but still present in archive: %v", id, err)
		return nil, fmt.Errorf("ArchiveUseCase.Restore: failed to remove archive entry: %w", err)
	}

	return advert, nil
}

// ListByOwner returns the user's archived adverts bucketed by category, the
// same shape the active-store aggregations use.
func (uc *ArchiveUseCase) ListByOwner(ctx context.Context, ownerID string) (map[entity.Category][]*entity.Advert, error) {
	adverts, err := uc.archiveRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		uc.log.Errorf("Failed to list archive for owner %s: %v", ownerID, err)
		return nil, fmt.Errorf("ArchiveUseCase.ListByOwner: %w", err)
	}
	return entity.BucketByCategory(adverts), nil
}

func (uc *ArchiveUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.archiveRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("ArchiveUseCase.Delete: %w", err)
	}
	return nil
}

// notifyOwner is best-effort: directory or SMTP failures are logged, never
// surfaced to the caller.
func (uc *ArchiveUseCase) notifyOwner(ctx context.Context, advert *entity.Advert) {
	if uc.notifier == nil || uc.profiles == nil {
		return
	}

	email, err := uc.profiles.GetOwnerEmail(ctx, advert.Owner)
	if err != nil {
		uc.log.Warnf("Failed to resolve owner %s for archive notification: %v", advert.Owner, err)
		return
	}
	if email == "" {
		return
	}

	if err := uc.notifier.SendAdvertArchived(ctx, email, advert.Title); err != nil {
		uc.log.Warnf("Failed to send archive notification for advert %d: %v", advert.ID, err)
	}
}

func (uc *ArchiveUseCase) invalidate(ctx context.Context, id int64) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, advertCacheKey(id)); err != nil {
		uc.log.Warnf("Failed to invalidate cache for advert %d: %v", id, err)
	}
}
