package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/cetscore/internal/score"
)

const DefaultTTL = 2 * time.Hour

// View is a session together with the report derived from its selection.
type View struct {
	Session Session      `json:"session"`
	Report  score.Report `json:"report"`
}

// Service owns the per-session Selection and recomputes the score on every
// read and change. Each access slides the expiry forward by the TTL.
type Service struct {
	store Store
	ttl   time.Duration
	ds    *score.Dataset
	now   func() time.Time
}

func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, ds: score.Default(), now: time.Now}
}

func (s *Service) view(ss Session) View {
	return View{Session: ss, Report: score.NewReport(ss.Selection, s.ds)}
}

func (s *Service) Start(ctx context.Context) (View, error) {
	now := s.now()
	ss := Session{
		ID:        uuid.NewString(),
		Selection: score.NewSelection(),
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.store.Create(ctx, ss); err != nil {
		return View{}, err
	}
	slog.Debug("session started", "session_id", ss.ID, "expires_at", ss.ExpiresAt)
	return s.view(ss), nil
}

// Load returns the session and refreshes its expiry.
func (s *Service) Load(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(*score.Selection) error { return nil })
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (View, error) {
	return s.mutate(ctx, id, p.Apply)
}

func (s *Service) Reset(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(sel *score.Selection) error {
		sel.Reset()
		return nil
	})
}

func (s *Service) End(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Session, error) {
	return s.store.List(ctx, opts)
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*score.Selection) error) (View, error) {
	ss, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := fn(&ss.Selection); err != nil {
		return View{}, err
	}
	now := s.now()
	ss.UpdatedAt = now.Unix()
	ss.ExpiresAt = now.Add(s.ttl).Unix()
	if err := s.store.Put(ctx, ss); err != nil {
		return View{}, err
	}
	return s.view(ss), nil
}
