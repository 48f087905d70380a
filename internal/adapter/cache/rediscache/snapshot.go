// Package rediscache caches aggregated candidate snapshots in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

const keyPrefix = "candidate:snapshot:"

// SnapshotCache implements domain.SnapshotCache with JSON values and a TTL.
type SnapshotCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ domain.SnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache wraps rdb; ttl must be positive.
func NewSnapshotCache(rdb redis.UniversalClient, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

func key(id domain.CandidateID) string { return keyPrefix + id.String() }

// Get returns domain.ErrNotFound on a miss.
func (c *SnapshotCache) Get(ctx domain.Context, id domain.CandidateID) (domain.CandidateSnapshot, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CandidateSnapshot{}, fmt.Errorf("op=snapshot.get: %w", domain.ErrNotFound)
		}
		return domain.CandidateSnapshot{}, fmt.Errorf("op=snapshot.get: %w", err)
	}
	var snap domain.CandidateSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A stale layout from an older build reads as a miss.
		_ = c.rdb.Del(ctx, key(id)).Err()
		return domain.CandidateSnapshot{}, fmt.Errorf("op=snapshot.get: %w", domain.ErrNotFound)
	}
	return snap, nil
}

// Set stores snap under id for the configured TTL.
func (c *SnapshotCache) Set(ctx domain.Context, id domain.CandidateID, snap domain.CandidateSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("op=snapshot.set: %w", err)
	}
	if err := c.rdb.Set(ctx, key(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=snapshot.set: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot for id.
func (c *SnapshotCache) Invalidate(ctx domain.Context, id domain.CandidateID) error {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("op=snapshot.invalidate: %w", err)
	}
	return nil
}

// Connect parses url and pings with exponential backoff bounded by maxElapsed.
func Connect(ctx context.Context, url string, maxElapsed time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=redis.Connect: %w", err)
	}
	rdb := redis.NewClient(opts)
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 250 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = maxElapsed
	op := func() error { return rdb.Ping(ctx).Err() }
	notify := func(err error, wait time.Duration) {
		slog.Warn("redis not ready, retrying", slog.Any("error", err), slog.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(expo, ctx), notify); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=redis.Connect: %w", err)
	}
	return rdb, nil
}
