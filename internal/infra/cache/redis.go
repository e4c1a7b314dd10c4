package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/careplushealth/lab-scheduler/internal/config"
	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
)

// bookedTimesTTL keeps the cache short-lived: a stale entry can only hide a
// new booking for this long, and the submit path never reads it anyway.
const bookedTimesTTL = 30 * time.Second

type RedisSlotCache struct {
	client *redis.Client
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func NewRedisSlotCache(client *redis.Client) *RedisSlotCache {
	return &RedisSlotCache{client: client}
}

func key(date time.Time) string {
	return fmt.Sprintf("booked_times:%s", date.Format("2006-01-02"))
}

// Get returns the cached booked times for a date. Any redis or decode error
// is treated as a miss; the caller falls through to the database.
func (c *RedisSlotCache) Get(ctx context.Context, date time.Time) ([]string, bool) {
	raw, err := c.client.Get(ctx, key(date)).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Debug("booked-times cache read failed")
		}
		return nil, false
	}

	var times []string
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, false
	}
	return times, true
}

func (c *RedisSlotCache) Set(ctx context.Context, date time.Time, times []string) {
	raw, err := json.Marshal(times)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key(date), raw, bookedTimesTTL).Err(); err != nil {
		logrus.WithError(err).Debug("booked-times cache write failed")
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, date time.Time) {
	if err := c.client.Del(ctx, key(date)).Err(); err != nil {
		logrus.WithError(err).Debug("booked-times cache invalidate failed")
	}
}

var _ domain.BookedSlotCache = (*RedisSlotCache)(nil)
