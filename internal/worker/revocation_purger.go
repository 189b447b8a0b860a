package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RevocationPurger deletes revocation entries whose tokens have expired on their own.
type RevocationPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// PurgeRecorder observes purge results.
type PurgeRecorder interface {
	RecordRevocationsPurged(n int64)
}

// PurgeWorker runs the purge on a fixed interval until its context ends.
type PurgeWorker struct {
	store    RevocationPurger
	interval time.Duration
	logger   *zap.Logger
	recorder PurgeRecorder
	now      func() time.Time
}

// NewPurgeWorker builds a worker. recorder may be nil.
func NewPurgeWorker(store RevocationPurger, interval time.Duration, logger *zap.Logger, recorder PurgeRecorder) *PurgeWorker {
	return &PurgeWorker{
		store:    store,
		interval: interval,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. A non-positive interval disables the worker.
func (w *PurgeWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("revocation purge disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge pass and returns the number of removed entries.
func (w *PurgeWorker) PurgeOnce(ctx context.Context) int64 {
	n, err := w.store.PurgeExpired(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("revocation purge failed", zap.Error(err))
		}
		return 0
	}
	if n > 0 {
		w.logger.Info("purged expired revocations", zap.Int64("count", n))
	}
	if w.recorder != nil {
		w.recorder.RecordRevocationsPurged(n)
	}
	return n
}
