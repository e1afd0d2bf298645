package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AdminSessions tracks which admin token is current. Logging in again
// replaces the active token, which revokes every older one.
type AdminSessions interface {
	Activate(ctx context.Context, tokenID string, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// statelessSessions accepts any unexpired admin token.
type statelessSessions struct{}

func (statelessSessions) Activate(context.Context, string, time.Duration) error { return nil }
func (statelessSessions) IsActive(context.Context, string) (bool, error)       { return true, nil }
func (statelessSessions) Revoke(context.Context, string) error                 { return nil }

const adminSessionKey = "squad-arena:admin:active"

type redisSessions struct {
	rdb *redis.Client
}

// NewAdminSessions returns a Redis-backed store when url is set, otherwise
// a stateless one.
func NewAdminSessions(ctx context.Context, url string) (AdminSessions, func() error, error) {
	if url == "" {
		return statelessSessions{}, func() error { return nil }, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisSessions{rdb: rdb}, rdb.Close, nil
}

func (s *redisSessions) Activate(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, adminSessionKey, tokenID, ttl).Err()
}

func (s *redisSessions) IsActive(ctx context.Context, tokenID string) (bool, error) {
	cur, err := s.rdb.Get(ctx, adminSessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cur == tokenID, nil
}

func (s *redisSessions) Revoke(ctx context.Context, tokenID string) error {
	ok, err := s.IsActive(ctx, tokenID)
	if err != nil || !ok {
		return err
	}
	return s.rdb.Del(ctx, adminSessionKey).Err()
}
