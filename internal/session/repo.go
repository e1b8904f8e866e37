package session

import (
	"context"
	"time"
)

// Store keeps sessions until they expire. Get must report an expired
// session as ErrNotFound even if the sweeper has not removed it yet.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOpts) ([]Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

func pageBounds(n int, opts ListOpts) (int, int) {
	limit := opts.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}
