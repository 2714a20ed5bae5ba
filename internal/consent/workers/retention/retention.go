// Package retention runs the periodic purge of expired decision log entries.
package retention

import (
	"context"
	"log/slog"
	"time"
)

// Result describes one purge run.
type Result struct {
	Deleted  int64
	Duration time.Duration
}

// Purger deletes entries older than its retention period.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

type Worker struct {
	purger   Purger
	logger   *slog.Logger
	interval time.Duration
}

func New(purger Purger, opts ...Option) *Worker {
	w := &Worker{
		purger:   purger,
		logger:   slog.Default(),
		interval: time.Hour,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start purges once immediately and then on every tick until ctx is done.
// Failed runs are logged and retried on the next tick.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runAndLog(ctx)
	for {
		select {
		case <-ticker.C:
			w.runAndLog(ctx)
		case <-ctx.Done():
			w.logger.Info("decision log retention worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

func (w *Worker) runAndLog(ctx context.Context) {
	res, err := w.RunOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("decision_log_retention_failed", "error", err)
		return
	}
	w.logger.Info("decision_log_retention_completed",
		"deleted", res.Deleted,
		"duration_ms", res.Duration.Milliseconds(),
	)
}

// RunOnce executes a single purge.
func (w *Worker) RunOnce(ctx context.Context) (*Result, error) {
	start := time.Now()
	deleted, err := w.purger.PurgeExpired(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Deleted: deleted, Duration: time.Since(start)}, nil
}
