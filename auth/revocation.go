// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis"
)

// Revoker remembers signed-out session IDs until their tokens expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps the revocation list in process memory. Expired
// entries are dropped lazily on lookup and on every Revoke.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, id)
		}
	}
	m.entries[jti] = until
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

// Len returns the number of live entries.
func (m *MemoryRevoker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RedisRevoker stores revoked IDs as expiring keys so that every server
// instance sharing the Redis sees the same sign-outs.
type RedisRevoker struct {
	client *redis.Client
	prefix string
}

// NewRedisRevoker connects to redisURL (redis://[:password@]host:port/db)
// and verifies the connection.
func NewRedisRevoker(redisURL string) (*RedisRevoker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisRevoker{client: client, prefix: "polls:revoked:"}, nil
}

func (r *RedisRevoker) key(jti string) string {
	return r.prefix + jti
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.WithContext(ctx).Set(r.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.WithContext(ctx).Exists(r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRevoker) Close() error {
	return r.client.Close()
}
