// Package feed runs the external aggregate feed in the background.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/backoffice/statement/internal/application/adapter"
	feedusecase "github.com/backoffice/statement/internal/application/usecase/feed"
)

// Refresher performs one aggregate refresh.
type Refresher interface {
	Execute(ctx context.Context) (*feedusecase.RefreshAggregatesOutput, error)
}

// Worker refreshes the aggregates on a fixed interval and whenever the
// collaborator data changes. Change-driven refreshes are throttled.
type Worker struct {
	refresher Refresher
	changes   adapter.ChangeNotifier
	interval  time.Duration
	limiter   *rate.Limiter
}

// WorkerConfig holds configuration for the feed worker.
type WorkerConfig struct {
	Interval      time.Duration
	MinRefreshGap time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval:      time.Minute,
		MinRefreshGap: 5 * time.Second,
	}
}

// NewWorker creates a new feed worker. changes may be nil, in which case
// only the interval drives refreshes.
func NewWorker(refresher Refresher, changes adapter.ChangeNotifier, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	limit := rate.Inf
	if config.MinRefreshGap > 0 {
		limit = rate.Every(config.MinRefreshGap)
	}

	return &Worker{
		refresher: refresher,
		changes:   changes,
		interval:  config.Interval,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Feed worker started",
		"interval", w.interval,
		"change_notifications", w.changes != nil,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var signals <-chan struct{}
	if w.changes != nil {
		var err error
		signals, err = w.changes.Subscribe(ctx)
		if err != nil {
			slog.Error("Failed to subscribe to change notifications, polling only", "error", err)
		}
	}

	// Refresh immediately on start, then on ticker
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Feed worker shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx)
		case _, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				continue
			}
			w.refresh(ctx)
		}
	}
}

// refresh runs one refresh. Failures were already turned into notices.
func (w *Worker) refresh(ctx context.Context) {
	if _, err := w.refresher.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			slog.Debug("Feed refresh dropped after cancellation")
			return
		}
		slog.Warn("Feed refresh failed, keeping last known values", "error", err)
	}
}

// ProcessNow refreshes immediately (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) {
	w.refresh(ctx)
}
