package audit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thevoid12/incident-tracker/pkg/observability"
	"github.com/thevoid12/incident-tracker/pkg/storage"
)

// RetentionSweeper deletes audit entries older than the retention window
// on a cron schedule.
type RetentionSweeper struct {
	store    storage.AuditStore
	days     int
	schedule string
	cron     *cron.Cron
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewRetentionSweeper creates the sweeper. schedule is a standard cron
// expression, days the retention window.
func NewRetentionSweeper(store storage.AuditStore, days int, schedule string, logger *observability.Logger, metrics *observability.Metrics) *RetentionSweeper {
	return &RetentionSweeper{
		store:    store,
		days:     days,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Start registers the sweep job and starts the scheduler.
func (r *RetentionSweeper) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.Sweep); err != nil {
		return err
	}
	r.cron.Start()
	if r.logger != nil {
		r.logger.WithField("schedule", r.schedule).
			WithField("retention_days", r.days).
			Info("audit retention sweeper started")
	}
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *RetentionSweeper) Stop(ctx context.Context) error {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep deletes entries past the retention window once. Exported so an
// operator endpoint or test can trigger it outside the schedule.
func (r *RetentionSweeper) Sweep() {
	if r.logger != nil {
		// A panicking sweep must not take down the cron goroutine.
		defer observability.RecoverPanic(r.logger, "audit retention sweep")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := r.store.DeleteOlderThan(ctx, r.days)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("audit retention sweep failed")
		}
		return
	}

	if r.metrics != nil {
		r.metrics.AuditEntriesPruned.Add(float64(deleted))
	}
	if r.logger != nil && deleted > 0 {
		r.logger.WithField("deleted", deleted).Info("audit retention sweep complete")
	}
}
