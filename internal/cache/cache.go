// Package cache is a small JSON result cache over redis. With no redis
// address configured every operation is a no-op, so callers never need to
// branch on whether caching is enabled.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pulse/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

func New(lc fx.Lifecycle, p Params) *Cache {
	c := &Cache{
		ttl: time.Duration(p.Config.CacheTTL) * time.Second,
		log: p.Log.Named("cache"),
	}
	if p.Config.RedisAddr == "" {
		c.log.Info("result cache disabled, no redis address configured")
		return c
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.client.Ping(ctx).Err(); err != nil {
				// The cache is an optimization; a dead redis must not
				// block startup.
				c.log.Warn("redis unreachable, cache degraded", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return c.client.Close()
		},
	})

	return c
}

// Enabled reports whether a redis backend is wired in.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads the value at key into dest. The boolean is true only on a
// hit; redis errors degrade to a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key for the configured TTL. Failures are logged
// and swallowed.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix drops every key under the given prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("cache invalidate failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
}
