package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter caps the number of queries a user may ask per calendar day.
// Counters live under day-scoped keys that expire on their own.
type RedisLimiter struct {
	client *redis.Client
	limit  int // max queries per user per day; 0 disables limiting
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
	}
}

func (r *RedisLimiter) CheckLimit(ctx context.Context, userID string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return true, nil // no queries yet today
	}
	if err != nil {
		return false, err
	}
	used, _ := strconv.Atoi(val)
	return used < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, userID string) error {
	if r.limit <= 0 {
		return nil
	}
	key := r.key(userID)
	if err := r.client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, 48*time.Hour).Err()
}

func (r *RedisLimiter) key(userID string) string {
	return "quota:" + time.Now().UTC().Format("2006-01-02") + ":" + userID
}
