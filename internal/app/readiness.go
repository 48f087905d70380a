package app

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface {
	Ping(ctx context.Context) RedisPingResult
}

type redisAdapter struct{ c redis.UniversalClient }

func (a redisAdapter) Ping(ctx context.Context) RedisPingResult { return a.c.Ping(ctx) }

// RedisPinger adapts a go-redis client to RedisClient.
func RedisPinger(c redis.UniversalClient) RedisClient {
	if c == nil {
		return nil
	}
	return redisAdapter{c: c}
}

// BuildReadinessChecks returns the db and redis readiness checks. A nil
// dependency yields a nil check, which the readiness handler skips: the file
// data source has no pool and the snapshot cache is optional.
func BuildReadinessChecks(pool Pinger, rdb RedisClient) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	var dbCheck, redisCheck func(ctx context.Context) error
	if pool != nil {
		dbCheck = func(ctx context.Context) error { return pool.Ping(ctx) }
	}
	if rdb != nil {
		redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return dbCheck, redisCheck
}
