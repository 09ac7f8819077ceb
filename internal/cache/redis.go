package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache holds short-lived vehicle holds so concurrent booking attempts
// against the same vehicle fail fast before reaching the database. The
// database transaction stays authoritative; losing a hold race is never a
// correctness problem, only extra load.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
	}
}

func (c *RedisCache) AcquireVehicleHold(ctx context.Context, vehicleID int32, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, vehicleHoldKey(vehicleID), "held", ttl).Result()
}

func (c *RedisCache) ReleaseVehicleHold(ctx context.Context, vehicleID int32) error {
	return c.client.Del(ctx, vehicleHoldKey(vehicleID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func vehicleHoldKey(vehicleID int32) string {
	return fmt.Sprintf("hold:vehicle:%d", vehicleID)
}
