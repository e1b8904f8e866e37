package session

import (
	"errors"
	"time"

	"github.com/mind-engage/cetscore/internal/score"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string          `json:"id"`
	Selection score.Selection `json:"selection"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
	ExpiresAt int64           `json:"expires_at"` // unix seconds
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}

type ListOpts struct {
	Tier   score.Tier // optional filter
	Limit  int
	Offset int
}
