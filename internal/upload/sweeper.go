package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/metrics"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/storage"
)

const sweepBatch = 200

// OrphanLedger lists and forgets recorded uploads.
type OrphanLedger interface {
	Orphans(ctx context.Context, before time.Time, limit uint64) ([]journal.Upload, error)
	Forget(ctx context.Context, key string) error
}

// Sweeper deletes stored photos that no entry references once they are
// older than the grace period.
type Sweeper struct {
	ledger  OrphanLedger
	store   storage.ObjectStore
	grace   time.Duration
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	cron    *cron.Cron
	now     func() time.Time
}

func NewSweeper(ledger OrphanLedger, store storage.ObjectStore, grace time.Duration, logger *zap.SugaredLogger, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		ledger:  ledger,
		store:   store,
		grace:   grace,
		logger:  logger,
		metrics: m,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		now:     time.Now,
	}
}

// Sweep runs one pass and returns the number of objects deleted. An object
// that fails to delete stays in the ledger for the next pass.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	orphans, err := s.ledger.Orphans(ctx, s.now().Add(-s.grace), sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list orphaned uploads: %w", err)
	}

	deleted := 0
	for _, u := range orphans {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := s.store.Delete(ctx, u.Key); err != nil {
			s.logger.Warnw("Failed to delete orphaned upload", "key", u.Key, "error", err)
			s.metrics.RecordSweep("error")
			continue
		}
		if err := s.ledger.Forget(ctx, u.Key); err != nil {
			s.logger.Warnw("Failed to forget orphaned upload", "key", u.Key, "error", err)
			s.metrics.RecordSweep("error")
			continue
		}
		s.metrics.RecordSweep("deleted")
		deleted++
	}

	if deleted > 0 {
		s.logger.Infow("Swept orphaned uploads", "deleted", deleted, "candidates", len(orphans))
	}
	return deleted, nil
}

// Start schedules Sweep with a standard cron expression or descriptor such as @daily.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Errorw("Orphan sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Infow("Orphan sweeper scheduled", "schedule", schedule, "grace", s.grace.String())
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
