package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	sessionKeyPrefix  = "session:"
	DefaultSessionTTL = 24 * time.Hour
)

// saveSessionScript writes the session only if the stored version matches
// ARGV[1]; a missing key counts as version 0.
var saveSessionScript = redis.NewScript(`
local key = KEYS[1]
local expected = tonumber(ARGV[1])

local current = redis.call('HGET', key, 'version')
if not current then
	current = 0
else
	current = tonumber(current)
end

if current ~= expected then
	return 0
end

redis.call('HSET', key, 'version', ARGV[2], 'data', ARGV[3])
redis.call('PEXPIRE', key, ARGV[4])
return 1
`)

// RedisSessionRepository keeps each session as a hash of its version and its
// JSON encoding. Every save renews the TTL.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.HGet(ctx, sessionKeyPrefix+id, "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	expected := s.Version
	s.Version++

	data, err := json.Marshal(s)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode session %s: %w", s.ID, err)
	}

	ok, err := saveSessionScript.Run(ctx, r.client,
		[]string{sessionKeyPrefix + s.ID},
		expected, s.Version, data, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return domain.Session{}, fmt.Errorf("save session %s: %w", s.ID, err)
	}
	if ok != 1 {
		return domain.Session{}, port.ErrOptimisticLock
	}
	return s, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
