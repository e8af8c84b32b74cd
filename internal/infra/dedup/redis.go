package dedup

import (
	"context"
	"fmt"
	"time"

	"orderping/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

var _ notification.EventReserver = (*RedisReserver)(nil)

// RedisReserver claims event ids with a single SET NX, turning the gate's
// read-then-write dedup into an atomic check-and-reserve. The reservation
// expires on its own; the notification log remains the durable record.
type RedisReserver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReserver creates a Redis-backed event reserver.
func NewRedisReserver(redisAddr, password string, db int, ttl time.Duration) *RedisReserver {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	if ttl <= 0 {
		ttl = 48 * time.Hour
	}

	return &RedisReserver{
		client: client,
		ttl:    ttl,
	}
}

// Reserve claims the event id. Returns false when another delivery holds it.
func (r *RedisReserver) Reserve(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("orderping:event:%s", eventID)

	ok, err := r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserving event id: %w", err)
	}

	return ok, nil
}

// Close closes the Redis connection.
func (r *RedisReserver) Close() error {
	return r.client.Close()
}
