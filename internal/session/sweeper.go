package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically drops expired sessions from a Store.
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{store: store, interval: interval, now: time.Now}
}

// Start runs the sweep loop in a goroutine until ctx is done.
func (w *Sweeper) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Sweeper) run(ctx context.Context) {
	slog.Info("session sweeper started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep removes expired sessions once and returns how many went away.
func (w *Sweeper) Sweep(ctx context.Context) int {
	n, err := w.store.DeleteExpired(ctx, w.now())
	if err != nil {
		slog.Error("failed to sweep expired sessions", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("swept expired sessions", "count", n)
	}
	return n
}
