// Package cache provides a fail-open Redis read-through cache. A Cache
// handle is constructed once at startup and passed to the repositories
// that use it; a nil handle (or one whose connection failed) degrades
// every operation to a no-op so the database paths keep working.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. All methods tolerate a nil receiver and a
// nil client.
type Cache struct {
	client *redis.Client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Connect dials Redis at the given address. On any failure it logs a
// warning and returns a disconnected Cache, so callers never branch on
// the result.
func Connect(addr string) *Cache {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return &Cache{}
	}
	log.Println("Redis connected successfully")
	return &Cache{client: client}
}

// NewFromClient wraps an existing Redis client; tests use it with
// miniredis, and the server uses it to share one client between the
// cache and the realtime notifier.
func NewFromClient(c *redis.Client) *Cache {
	return &Cache{client: c}
}

// Client exposes the underlying Redis client, or nil when disconnected.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}
