package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUndecodable = errors.New("undecodable session value")

// RedisStore keeps each session as a JSON value whose key TTL matches the
// session expiry, so Redis itself evicts finished sessions.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "cetscore:session:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) ttl(ss Session) time.Duration {
	if ss.ExpiresAt == 0 {
		return 0 // no expiry
	}
	d := time.Unix(ss.ExpiresAt, 0).Sub(s.now())
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

func (s *RedisStore) Create(ctx context.Context, ss Session) error {
	buf, err := json.Marshal(ss)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(ss.ID), buf, s.ttl(ss)).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	ss, err := s.load(ctx, s.key(id))
	if err != nil {
		return Session{}, err
	}
	if ss.Expired(s.now()) {
		return Session{}, ErrNotFound
	}
	return ss, nil
}

// load reads and decodes one key. A missing key is ErrNotFound.
func (s *RedisStore) load(ctx context.Context, key string) (Session, error) {
	buf, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var ss Session
	if err := json.Unmarshal(buf, &ss); err != nil {
		return Session{}, fmt.Errorf("%w %s: %v", errUndecodable, key, err)
	}
	ss.Selection.Normalize()
	return ss, nil
}

func (s *RedisStore) Put(ctx context.Context, ss Session) error {
	buf, err := json.Marshal(ss)
	if err != nil {
		return err
	}
	// XX: only overwrite a live key
	ok, err := s.client.SetXX(ctx, s.key(ss.ID), buf, s.ttl(ss)).Result()
	if err != nil {
		return fmt.Errorf("redis update session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, opts ListOpts) ([]Session, error) {
	now := s.now()
	var out []Session
	err := s.scan(ctx, func(key string, ss Session) error {
		if ss.Expired(now) {
			return nil
		}
		if opts.Tier != "" && ss.Selection.Tier != opts.Tier {
			return nil
		}
		out = append(out, ss)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	start, end := pageBounds(len(out), opts)
	return out[start:end], nil
}

// DeleteExpired removes values whose recorded expiry has passed but whose
// key is still present, e.g. after a clock skew or a PERSIST.
func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	var stale []string
	err := s.scan(ctx, func(key string, ss Session) error {
		if ss.Expired(now) {
			stale = append(stale, key)
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return 0, err
	}
	n, err := s.client.Del(ctx, stale...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis delete expired: %w", err)
	}
	return int(n), nil
}

// scan visits every decodable session under the prefix. Keys that vanish
// between SCAN and GET and values that do not decode are skipped.
func (s *RedisStore) scan(ctx context.Context, fn func(key string, ss Session) error) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		ss, err := s.load(ctx, iter.Val())
		if errors.Is(err, ErrNotFound) || errors.Is(err, errUndecodable) {
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(iter.Val(), ss); err != nil {
			return err
		}
	}
	return iter.Err()
}
