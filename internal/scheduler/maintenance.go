package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/port/repository"
	"github.com/adboard/adverts-service/internal/usecase"
)

// Maintenance runs the daily advert upkeep: expiry sweep, vip decrement, top
// decrement. Each step is isolated — a failing step is logged and the next
// one still runs. There is no cross-instance mutual exclusion; running two
// replicas doubles the decrements, which deployment must avoid.
type Maintenance struct {
	adverts   *usecase.AdvertUseCase
	retention time.Duration
	runAtHour int
	runAtMin  int
	log       logger.Logger
}

func NewMaintenance(adverts *usecase.AdvertUseCase, runAt string, retention time.Duration, log logger.Logger) (*Maintenance, error) {
	hour, min, err := parseRunAt(runAt)
	if err != nil {
		return nil, err
	}
	return &Maintenance{
		adverts:   adverts,
		retention: retention,
		runAtHour: hour,
		runAtMin:  min,
		log:       log,
	}, nil
}

func parseRunAt(runAt string) (int, int, error) {
	parts := strings.SplitN(runAt, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid run_at %q, expected HH:MM", runAt)
	}
	hour, errHour := strconv.Atoi(parts[0])
	min, errMin := strconv.Atoi(parts[1])
	if errHour != nil || errMin != nil || hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("invalid run_at %q, expected HH:MM", runAt)
	}
	return hour, min, nil
}

// Start blocks until ctx is done, firing RunOnce at the configured wall-clock
// time every day. Call it in its own goroutine.
func (m *Maintenance) Start(ctx context.Context) {
	m.log.Infof("Maintenance scheduler started, daily at %02d:%02d", m.runAtHour, m.runAtMin)

	for {
		wait := time.Until(m.nextRun(time.Now()))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			m.log.Info("Maintenance scheduler stopped")
			return
		case <-timer.C:
			m.RunOnce(ctx)
		}
	}
}

func (m *Maintenance) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), m.runAtHour, m.runAtMin, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce performs the three maintenance steps in order.
func (m *Maintenance) RunOnce(ctx context.Context) {
	m.log.Info("Start of advert maintenance")

	removed, err := m.adverts.SweepExpired(ctx, m.retention)
	if err != nil {
		m.log.Errorf("Expiry sweep failed: %v", err)
	} else {
		m.log.Infof("Expiry sweep removed %d adverts", removed)
	}

	for _, field := range []repository.PromotionField{repository.PromotionVip, repository.PromotionTop} {
		touched, err := m.adverts.DecrementPromotion(ctx, field)
		if err != nil {
			m.log.Errorf("Failed to decrement %s counters: %v", field, err)
			continue
		}
		m.log.Infof("Decremented %s on %d adverts", field, touched)
	}

	m.log.Info("Advert maintenance finished")
}
