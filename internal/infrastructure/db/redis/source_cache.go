package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SourceCache is a TTL cache for raw report collections, keyed by
// collection name. Cache errors are logged and otherwise invisible: the
// caller falls through to a direct fetch.
// Key format: report:source:<collection>
type SourceCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewSourceCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SourceCache {
	return &SourceCache{client: client, ttl: ttl, log: log}
}

func (c *SourceCache) Get(ctx context.Context, name string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Str("source", name).Msg("source cache read failed")
		}
		return nil, false
	}
	return payload, true
}

func (c *SourceCache) Set(ctx context.Context, name string, payload []byte) {
	if err := c.client.Set(ctx, c.key(name), payload, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("source", name).Msg("source cache write failed")
	}
}

func (c *SourceCache) key(name string) string {
	return "report:source:" + name
}
