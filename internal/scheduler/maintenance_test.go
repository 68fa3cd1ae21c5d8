package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adboard/adverts-service/internal/entity"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/repository"
	"github.com/adboard/adverts-service/internal/usecase"
)

// stubAdvertRepo implements only the maintenance paths; everything else is
// unreachable from the scheduler.
type stubAdvertRepo struct {
	sweepErr      error
	sweepCalls    int
	decrements    []repository.PromotionField
	decrementErrs map[repository.PromotionField]error
}

func (s *stubAdvertRepo) SweepExpired(ctx context.Context, retention time.Duration) (int64, error) {
	s.sweepCalls++
	return 3, s.sweepErr
}

func (s *stubAdvertRepo) DecrementPromotion(ctx context.Context, field repository.PromotionField) (int64, error) {
	s.decrements = append(s.decrements, field)
	return 1, s.decrementErrs[field]
}

func (s *stubAdvertRepo) Create(ctx context.Context, advert *entity.Advert) error { panic("unused") }
func (s *stubAdvertRepo) Insert(ctx context.Context, advert *entity.Advert) error { panic("unused") }
func (s *stubAdvertRepo) GetByID(ctx context.Context, id int64) (*entity.Advert, error) {
	panic("unused")
}
func (s *stubAdvertRepo) ListByCategory(ctx context.Context, filter repository.ListFilter) ([]*entity.Advert, int64, error) {
	panic("unused")
}
func (s *stubAdvertRepo) ListRecent(ctx context.Context, limit, offset int64) ([]*entity.Advert, error) {
	panic("unused")
}
func (s *stubAdvertRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Advert, error) {
	panic("unused")
}
func (s *stubAdvertRepo) IncrementViews(ctx context.Context, id int64, amount int64) error {
	panic("unused")
}
func (s *stubAdvertRepo) Recommend(ctx context.Context, category entity.Category, excludeID, limit int64) ([]*entity.Advert, error) {
	panic("unused")
}
func (s *stubAdvertRepo) Replace(ctx context.Context, id int64, advert *entity.Advert) error {
	panic("unused")
}
func (s *stubAdvertRepo) Delete(ctx context.Context, id int64) error { panic("unused") }
func (s *stubAdvertRepo) Count(ctx context.Context) (int64, error)   { panic("unused") }
func (s *stubAdvertRepo) SearchText(ctx context.Context, tokens []string, city string, limit, offset int64) ([]*entity.Advert, int64, error) {
	panic("unused")
}
func (s *stubAdvertRepo) ListCities(ctx context.Context) ([]repository.CityEntry, error) {
	panic("unused")
}
func (s *stubAdvertRepo) UpdatePhotos(ctx context.Context, id int64, photos []entity.Photo) error {
	panic("unused")
}

func newMaintenanceForTest(t *testing.T, repo *stubAdvertRepo) *Maintenance {
	t.Helper()
	adverts := usecase.NewAdvertUseCase(repo, nil, nil, nil, logger.NewNop(), 0)
	m, err := NewMaintenance(adverts, "03:00", 28*24*time.Hour, logger.NewNop())
	assert.NoError(t, err)
	return m
}

func TestNewMaintenance_RunAtValidation(t *testing.T) {
	adverts := usecase.NewAdvertUseCase(&stubAdvertRepo{}, nil, nil, nil, logger.NewNop(), 0)

	for _, valid := range []string{"00:00", "03:00", "23:59"} {
		_, err := NewMaintenance(adverts, valid, time.Hour, logger.NewNop())
		assert.NoError(t, err, "run_at %s should parse", valid)
	}
	for _, invalid := range []string{"", "3am", "24:00", "12:60", "12", "-1:30"} {
		_, err := NewMaintenance(adverts, invalid, time.Hour, logger.NewNop())
		assert.Error(t, err, "run_at %s should be rejected", invalid)
	}
}

func TestMaintenance_NextRun(t *testing.T) {
	m := newMaintenanceForTest(t, &stubAdvertRepo{})

	t.Run("BeforeTriggerSameDay", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 1, 30, 0, 0, time.UTC)
		next := m.nextRun(now)
		assert.Equal(t, time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC), next)
	})

	t.Run("AfterTriggerNextDay", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		next := m.nextRun(now)
		assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC), next)
	})

	t.Run("ExactlyAtTriggerGoesToNextDay", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
		next := m.nextRun(now)
		assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC), next)
	})
}

func TestMaintenance_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("RunsAllStepsInOrder", func(t *testing.T) {
		repo := &stubAdvertRepo{}
		m := newMaintenanceForTest(t, repo)

		m.RunOnce(ctx)

		assert.Equal(t, 1, repo.sweepCalls)
		assert.Equal(t, []repository.PromotionField{repository.PromotionVip, repository.PromotionTop}, repo.decrements)
	})

	t.Run("SweepFailureDoesNotStopDecrements", func(t *testing.T) {
		repo := &stubAdvertRepo{sweepErr: errors.New("mongo down")}
		m := newMaintenanceForTest(t, repo)

		m.RunOnce(ctx)

		assert.Len(t, repo.decrements, 2)
	})

	t.Run("VipFailureDoesNotStopTop", func(t *testing.T) {
		repo := &stubAdvertRepo{
			decrementErrs: map[repository.PromotionField]error{
				repository.PromotionVip: errors.New("mongo down"),
			},
		}
		m := newMaintenanceForTest(t, repo)

		m.RunOnce(ctx)

		assert.Equal(t, []repository.PromotionField{repository.PromotionVip, repository.PromotionTop}, repo.decrements)
	})
}
