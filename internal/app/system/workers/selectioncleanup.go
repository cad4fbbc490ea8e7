// internal/app/system/workers/selectioncleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// StaleDeleter removes stored selections last written before a cutoff.
type StaleDeleter interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// SelectionCleanup is a background worker that removes selection documents
// no visitor has touched within the retention window.
type SelectionCleanup struct {
	store     StaleDeleter
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewSelectionCleanup creates a new selection cleanup worker.
//
// Parameters:
//   - store: the server-side selection backend
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 hour)
//   - retention: how long an untouched selection is kept (e.g., 90 days)
func NewSelectionCleanup(store StaleDeleter, logger *zap.Logger, interval, retention time.Duration) *SelectionCleanup {
	return &SelectionCleanup{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *SelectionCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("selection cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *SelectionCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("selection cleanup worker stopped")
	})
}

func (w *SelectionCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *SelectionCleanup) cleanup() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), w.log, "selection cleanup")
	defer cancel()

	cutoff := w.now().Add(-w.retention)
	count, err := w.store.DeleteStale(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to delete stale selections", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("deleted stale selections",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
	}
}
